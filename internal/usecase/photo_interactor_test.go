package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/GoArmGo/Albumy/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadPhoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	photo, err := f.photos.UploadPhoto(ctx, f.alice, usecase.UploadInput{
		Filename:    "Holiday.JPG",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("jpeg-bytes"),
		Description: "at the sea",
	})
	require.NoError(t, err)

	assert.NotZero(t, photo.ID)
	assert.Equal(t, f.alice.ID, photo.AuthorID)
	assert.True(t, strings.HasPrefix(photo.Filename, "photos/"))
	assert.True(t, strings.HasSuffix(photo.Filename, ".jpg"))
	assert.Equal(t, photo.Filename, photo.FilenameS)
	assert.Equal(t, photo.Filename, photo.FilenameM)
	assert.Equal(t, []byte("jpeg-bytes"), f.store.Files[photo.Filename])
}

func TestUploadPhotoRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	locked := f.store.AddUser("locked", true, domain.RoleLocked)
	unconfirmed := f.store.AddUser("newbie", false, domain.RoleUser)

	tests := []struct {
		name    string
		user    *domain.User
		in      usecase.UploadInput
		wantErr error
	}{
		{"anonymous", nil, usecase.UploadInput{Filename: "a.png"}, domain.ErrUnauthorized},
		{"unconfirmed", unconfirmed, usecase.UploadInput{Filename: "a.png"}, domain.ErrForbidden},
		{"locked role", locked, usecase.UploadInput{Filename: "a.png"}, domain.ErrForbidden},
		{"not an image", f.alice, usecase.UploadInput{Filename: "notes.txt"}, domain.ErrInvalidInput},
		{"long description", f.alice, usecase.UploadInput{
			Filename:    "a.png",
			Description: strings.Repeat("d", domain.MaxDescriptionLength+1),
		}, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Body = strings.NewReader("x")
			_, err := f.photos.UploadPhoto(ctx, tt.user, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Zero(t, f.store.FileCount())
}

func TestNavigationStaysWithinAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := f.store.AddPhoto(f.alice.ID, "1")
	f.store.AddPhoto(f.bob.ID, "bob's")
	p2 := f.store.AddPhoto(f.alice.ID, "2")
	p3 := f.store.AddPhoto(f.alice.ID, "3")

	res, err := f.photos.NextPhoto(ctx, p1.ID)
	require.NoError(t, err)
	assert.True(t, res.Moved)
	assert.Equal(t, p2.ID, res.Photo.ID)

	res, err = f.photos.PreviousPhoto(ctx, p3.ID)
	require.NoError(t, err)
	assert.True(t, res.Moved)
	assert.Equal(t, p2.ID, res.Photo.ID)

	res, err = f.photos.NextPhoto(ctx, p3.ID)
	require.NoError(t, err)
	assert.False(t, res.Moved)
	assert.Equal(t, p3.ID, res.Photo.ID)
	assert.Equal(t, usecase.MessageAlreadyLast, res.Message)

	res, err = f.photos.PreviousPhoto(ctx, p1.ID)
	require.NoError(t, err)
	assert.False(t, res.Moved)
	assert.Equal(t, usecase.MessageAlreadyFirst, res.Message)

	_, err = f.photos.NextPhoto(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletePhotoRedirect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := f.store.AddPhoto(f.alice.ID, "1")
	p2 := f.store.AddPhoto(f.alice.ID, "2")
	p3 := f.store.AddPhoto(f.alice.ID, "3")

	_, err := f.photos.DeletePhoto(ctx, f.bob, p2.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// есть предыдущее фото
	res, err := f.photos.DeletePhoto(ctx, f.alice, p2.ID)
	require.NoError(t, err)
	require.NotNil(t, res.NextPhotoID)
	assert.Equal(t, p1.ID, *res.NextPhotoID)

	// предыдущего нет, берется следующее
	res, err = f.photos.DeletePhoto(ctx, f.alice, p1.ID)
	require.NoError(t, err)
	require.NotNil(t, res.NextPhotoID)
	assert.Equal(t, p3.ID, *res.NextPhotoID)

	// фото не осталось
	res, err = f.photos.DeletePhoto(ctx, f.alice, p3.ID)
	require.NoError(t, err)
	assert.Nil(t, res.NextPhotoID)
	assert.Equal(t, "alice", res.AuthorUsername)

	_, err = f.photos.GetPhotoDetails(ctx, p3.ID, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletePhotoCleansUpTagsAndCollects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kept := f.store.AddPhoto(f.alice.ID, "")
	doomed := f.store.AddPhoto(f.alice.ID, "")
	_, err := f.tags.AddTags(ctx, f.alice, kept.ID, "shared")
	require.NoError(t, err)
	_, err = f.tags.AddTags(ctx, f.alice, doomed.ID, "shared only")
	require.NoError(t, err)
	require.NoError(t, f.collects.Collect(ctx, f.bob, doomed.ID))

	_, err = f.photos.DeletePhoto(ctx, f.alice, doomed.ID)
	require.NoError(t, err)

	assert.True(t, f.store.TagExists("shared"))
	assert.False(t, f.store.TagExists("only"))

	collected, err := f.store.IsCollecting(ctx, f.bob.ID, doomed.ID)
	require.NoError(t, err)
	assert.False(t, collected)
}

func TestGetPhotoDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	photo := f.store.AddPhoto(f.alice.ID, "sky")
	_, err := f.tags.AddTags(ctx, f.alice, photo.ID, "blue sky")
	require.NoError(t, err)
	require.NoError(t, f.collects.Collect(ctx, f.bob, photo.ID))

	details, err := f.photos.GetPhotoDetails(ctx, photo.ID, f.bob)
	require.NoError(t, err)
	assert.Equal(t, []string{"blue", "sky"}, tagNames(details.Photo.Tags))
	assert.Equal(t, 1, details.CollectorsCount)
	assert.True(t, details.Collected)

	details, err = f.photos.GetPhotoDetails(ctx, photo.ID, nil)
	require.NoError(t, err)
	assert.False(t, details.Collected)
}

func TestReportAndEditDescription(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	photo := f.store.AddPhoto(f.alice.ID, "old")

	flag, err := f.photos.ReportPhoto(ctx, f.bob, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, flag)
	flag, err = f.photos.ReportPhoto(ctx, f.alice, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, flag)

	unconfirmed := f.store.AddUser("newbie", false, domain.RoleUser)
	_, err = f.photos.ReportPhoto(ctx, unconfirmed, photo.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.photos.EditDescription(ctx, f.bob, photo.ID, "hijack")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.photos.EditDescription(ctx, f.alice, photo.ID, "  new  "))
	details, err := f.photos.GetPhotoDetails(ctx, photo.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "new", details.Photo.Description)
}

func TestFeedAndAuthorListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	carol := f.store.AddUser("carol", true, domain.RoleUser)

	a1 := f.store.AddPhoto(f.alice.ID, "")
	f.store.AddPhoto(carol.ID, "")
	a2 := f.store.AddPhoto(f.alice.ID, "")

	require.NoError(t, f.follows.Follow(ctx, f.bob, f.alice.ID))

	feed, err := f.photos.GetFeed(ctx, f.bob, 1, 10)
	require.NoError(t, err)
	require.Len(t, feed.Items, 2)
	assert.Equal(t, a2.ID, feed.Items[0].ID)
	assert.Equal(t, a1.ID, feed.Items[1].ID)

	page, err := f.photos.ListAuthorPhotos(ctx, "alice", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, a1.ID, page.Items[0].ID)
	assert.True(t, page.HasPrev)
	assert.False(t, page.HasNext)

	_, err = f.photos.ListAuthorPhotos(ctx, "nobody", 1, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.photos.GetFeed(ctx, f.bob, 0, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListTagPhotosOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	carol := f.store.AddUser("carol", true, domain.RoleUser)

	older := f.store.AddPhoto(f.alice.ID, "")
	newer := f.store.AddPhoto(f.alice.ID, "")
	tags, err := f.tags.AddTags(ctx, f.alice, older.ID, "street")
	require.NoError(t, err)
	_, err = f.tags.AddTags(ctx, f.alice, newer.ID, "street")
	require.NoError(t, err)
	street := tags[0]

	require.NoError(t, f.collects.Collect(ctx, f.bob, older.ID))
	require.NoError(t, f.collects.Collect(ctx, carol, older.ID))

	tag, byTime, err := f.photos.ListTagPhotos(ctx, street.ID, domain.TagOrderByTime, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "street", tag.Name)
	require.Len(t, byTime.Items, 2)
	assert.Equal(t, newer.ID, byTime.Items[0].ID)

	_, byCollects, err := f.photos.ListTagPhotos(ctx, street.ID, domain.TagOrderByCollects, 1, 10)
	require.NoError(t, err)
	require.Len(t, byCollects.Items, 2)
	assert.Equal(t, older.ID, byCollects.Items[0].ID)

	_, _, err = f.photos.ListTagPhotos(ctx, 9999, domain.TagOrderByTime, 1, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExploreLimit(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 20; i++ {
		f.store.AddPhoto(f.alice.ID, "")
	}

	photos, err := f.photos.Explore(context.Background())
	require.NoError(t, err)
	assert.Len(t, photos, 12)
}

func TestNotFoundIsWrapped(t *testing.T) {
	f := newFixture(t)
	_, err := f.photos.GetPhotoDetails(context.Background(), 42, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestNextOfPreviousReturnsSamePhoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var photos []*domain.Photo
	for i := 0; i < 4; i++ {
		photos = append(photos, f.store.AddPhoto(f.alice.ID, ""))
		f.store.AddPhoto(f.bob.ID, "")
	}

	for _, p := range photos[1:] {
		prev, err := f.photos.PreviousPhoto(ctx, p.ID)
		require.NoError(t, err)
		require.True(t, prev.Moved)

		back, err := f.photos.NextPhoto(ctx, prev.Photo.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, back.Photo.ID)
	}
}
