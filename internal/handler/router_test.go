package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GoArmGo/Albumy/internal/auth"
	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/GoArmGo/Albumy/internal/logger"
	"github.com/GoArmGo/Albumy/internal/testutil"
	"github.com/GoArmGo/Albumy/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	store    *testutil.MemStore
	verifier *auth.Verifier
	router   http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := testutil.NewMemStore()
	log := logger.Discard()
	verifier := auth.NewVerifier("test-secret")

	photos := usecase.NewPhotoUseCase(store, store, store, store, store, log)
	h := Handlers{
		Photos:        NewPhotoHandler(photos, PageSize{Default: 12, Max: 50}, log),
		Tags:          NewTagHandler(usecase.NewTagUseCase(store, store, log), log),
		Collects:      NewCollectHandler(usecase.NewCollectUseCase(store, store, store, log), PageSize{Default: 20, Max: 50}, log),
		Notifications: NewNotificationHandler(usecase.NewNotificationUseCase(store, store, log), PageSize{Default: 20, Max: 50}, log),
		Follows:       NewFollowHandler(usecase.NewFollowUseCase(store, store, store, log), log),
		Images:        NewImageHandler(store, log),
		Auth:          NewAuthenticator(verifier, store, log),
		UploadLimiter: make(chan struct{}, 2),
	}

	return &testServer{
		store:    store,
		verifier: verifier,
		router:   NewRouter(h, 5*time.Second, log),
	}
}

func (s *testServer) token(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := s.verifier.GenerateToken(user.ID, user.Username, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path string, user *domain.User, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(t, user))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/feed", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadPhotoMultipart(t *testing.T) {
	s := newTestServer(t)
	alice := s.store.AddUser("alice", true, domain.RoleUser)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "cat.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("description", "a cat"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/photos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token(t, alice))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	photo := decode[domain.Photo](t, w)
	assert.Equal(t, "a cat", photo.Description)
	assert.Equal(t, 1, s.store.FileCount())

	w = s.do(t, http.MethodGet, "/uploads/"+photo.Filename, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())

	w = s.do(t, http.MethodGet, "/uploads/photos/missing.png", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTagAndCollectFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.store.AddUser("alice", true, domain.RoleUser)
	bob := s.store.AddUser("bob", true, domain.RoleUser)
	photo := s.store.AddPhoto(alice.ID, "")
	photoPath := fmt.Sprintf("/photos/%d", photo.ID)

	w := s.do(t, http.MethodPost, photoPath+"/tags", bob, map[string]string{"tags": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, photoPath+"/tags", alice, map[string]string{"tags": "sun sea"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tagged := decode[struct {
		Tags []domain.Tag `json:"tags"`
	}](t, w)
	require.Len(t, tagged.Tags, 2)

	w = s.do(t, http.MethodPost, photoPath+"/collect", bob, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, photoPath+"/collect", bob, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, photoPath+"/collectors", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	collectors := decode[domain.Page[domain.Collect]](t, w)
	assert.Equal(t, 1, collectors.Total)

	w = s.do(t, http.MethodGet, photoPath, bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	details := decode[domain.PhotoDetails](t, w)
	assert.True(t, details.Collected)
	assert.Len(t, details.Photo.Tags, 2)

	w = s.do(t, http.MethodDelete, fmt.Sprintf("%s/tags/%d", photoPath, tagged.Tags[0].ID), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	removed := decode[struct {
		TagRemoved bool `json:"tag_removed"`
	}](t, w)
	assert.True(t, removed.TagRemoved)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/tags/%d/photos?order=by_collects", tagged.Tags[1].ID), nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNotificationsEndpoints(t *testing.T) {
	s := newTestServer(t)
	alice := s.store.AddUser("alice", true, domain.RoleUser)
	bob := s.store.AddUser("bob", true, domain.RoleUser)

	w := s.do(t, http.MethodPost, "/users/alice/follow", bob, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/users/%d/follow", alice.ID), bob, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	notifications := usecase.NewNotificationUseCase(s.store, s.store, logger.Discard())
	for _, event := range s.store.PublishedEvents() {
		require.NoError(t, notifications.HandleEvent(t.Context(), event))
	}

	w = s.do(t, http.MethodGet, "/notifications?filter=unread", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[domain.NotificationPage](t, w)
	assert.Equal(t, 1, page.UnreadCount)
	require.Len(t, page.Items, 1)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/notifications/%d/read", page.Items[0].ID), bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/notifications/read-all", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/notifications?filter=unread", alice, nil)
	page = decode[domain.NotificationPage](t, w)
	assert.Zero(t, page.UnreadCount)
	assert.Empty(t, page.Items)
}

func TestNavigationAndProfile(t *testing.T) {
	s := newTestServer(t)
	alice := s.store.AddUser("alice", true, domain.RoleUser)
	first := s.store.AddPhoto(alice.ID, "")
	second := s.store.AddPhoto(alice.ID, "")

	w := s.do(t, http.MethodGet, fmt.Sprintf("/photos/%d/next", first.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	nav := decode[domain.NavigationResult](t, w)
	assert.True(t, nav.Moved)
	assert.Equal(t, second.ID, nav.Photo.ID)

	w = s.do(t, http.MethodGet, "/users/alice/photos?page=1&per_page=1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[domain.Page[domain.Photo]](t, w)
	assert.Equal(t, 2, page.Total)
	assert.True(t, page.HasNext)

	w = s.do(t, http.MethodGet, "/users/alice/photos?page=0", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/photos/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/photos/9999", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaginationBounds(t *testing.T) {
	s := newTestServer(t)
	alice := s.store.AddUser("alice", true, domain.RoleUser)
	photo := s.store.AddPhoto(alice.ID, "")

	tests := []struct {
		name string
		path string
		user *domain.User
		want int
	}{
		{"page offset overflows", "/users/alice/photos?page=4611686018427387904&per_page=4", nil, http.StatusBadRequest},
		{"max page int", "/users/alice/photos?page=9223372036854775807", nil, http.StatusBadRequest},
		{"per_page above limit", "/users/alice/photos?page=1&per_page=2000000000", nil, http.StatusBadRequest},
		{"collectors per_page above limit", fmt.Sprintf("/photos/%d/collectors?per_page=51", photo.ID), nil, http.StatusBadRequest},
		{"notifications per_page above limit", "/notifications?per_page=51", alice, http.StatusBadRequest},
		{"per_page at limit", "/users/alice/photos?page=1&per_page=50", nil, http.StatusOK},
		{"far page within range", "/users/alice/photos?page=1000&per_page=50", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.path, tt.user, nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	w := s.do(t, http.MethodGet, "/users/alice/photos?page=1000&per_page=50", nil, nil)
	page := decode[domain.Page[domain.Photo]](t, w)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasNext)
	assert.Equal(t, 1, page.Total)
}

func TestDeletePhotoEndpoint(t *testing.T) {
	s := newTestServer(t)
	alice := s.store.AddUser("alice", true, domain.RoleUser)
	only := s.store.AddPhoto(alice.ID, "")

	w := s.do(t, http.MethodDelete, fmt.Sprintf("/photos/%d", only.ID), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[domain.DeleteResult](t, w)
	assert.Nil(t, res.NextPhotoID)
	assert.Equal(t, "alice", res.AuthorUsername)
	assert.False(t, strings.Contains(w.Body.String(), "next_photo_id"))
}
