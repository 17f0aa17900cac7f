// Package testutil содержит хранилище в памяти и хелперы для тестов
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/GoArmGo/Albumy/internal/messaging/payloads"
)

type pair struct{ a, b int64 }

// MemStore реализует все порты хранилищ, файловое хранилище и публикатор событий в памяти.
// Семантика совпадает с postgres-реализациями, включая ошибки domain.Err*
type MemStore struct {
	mu sync.Mutex

	seq   int64
	clock time.Time

	users         map[int64]*domain.User
	photos        map[int64]*domain.Photo
	tags          map[int64]*domain.Tag
	photoTags     map[int64]map[int64]bool
	collects      map[pair]time.Time
	follows       map[pair]time.Time
	notifications map[int64]*domain.Notification

	Files  map[string][]byte
	Events []payloads.NotificationEvent

	// PublishErr, если задан, возвращается из PublishNotificationEvent
	PublishErr error
}

func NewMemStore() *MemStore {
	return &MemStore{
		clock:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:         make(map[int64]*domain.User),
		photos:        make(map[int64]*domain.Photo),
		tags:          make(map[int64]*domain.Tag),
		photoTags:     make(map[int64]map[int64]bool),
		collects:      make(map[pair]time.Time),
		follows:       make(map[pair]time.Time),
		notifications: make(map[int64]*domain.Notification),
		Files:         make(map[string][]byte),
	}
}

// next выдает общий монотонный id и время создания
func (m *MemStore) next() (int64, time.Time) {
	m.seq++
	return m.seq, m.clock.Add(time.Duration(m.seq) * time.Second)
}

// AddUser сохраняет пользователя и возвращает его с присвоенным ID
func (m *MemStore) AddUser(username string, confirmed bool, role domain.Role) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, now := m.next()
	u := &domain.User{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		Confirmed: confirmed,
		Active:    true,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.users[id] = u
	cp := *u
	return &cp
}

// AddPhoto создает фото автора в обход сервиса загрузки
func (m *MemStore) AddPhoto(authorID int64, description string) *domain.Photo {
	m.mu.Lock()
	n := m.seq + 1
	m.mu.Unlock()

	p := &domain.Photo{
		AuthorID:    authorID,
		Filename:    fmt.Sprintf("photos/seed-%d.jpg", n),
		Description: description,
	}
	p.FilenameS, p.FilenameM = p.Filename, p.Filename
	_ = m.SavePhoto(context.Background(), p)
	return p
}

// TagExists проверяет наличие тега по имени
func (m *MemStore) TagExists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// PublishedEvents копия опубликованных событий
func (m *MemStore) PublishedEvents() []payloads.NotificationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]payloads.NotificationEvent(nil), m.Events...)
}

// --- ports.UserStorage

func (m *MemStore) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: пользователь %d", domain.ErrNotFound, id)
	}
	cp := *u
	return &cp, nil
}

func (m *MemStore) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: пользователь %q", domain.ErrNotFound, username)
}

// --- ports.PhotoStorage

func (m *MemStore) SavePhoto(_ context.Context, photo *domain.Photo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, now := m.next()
	photo.ID = id
	photo.CreatedAt = now
	photo.Flag = 0
	cp := *photo
	cp.Tags = nil
	m.photos[id] = &cp
	return nil
}

func (m *MemStore) GetPhotoByID(_ context.Context, id int64) (*domain.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.photos[id]
	if !ok {
		return nil, fmt.Errorf("%w: фото %d", domain.ErrNotFound, id)
	}
	cp := *p
	return &cp, nil
}

func (m *MemStore) UpdateDescription(_ context.Context, id int64, description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.photos[id]
	if !ok {
		return fmt.Errorf("%w: фото %d", domain.ErrNotFound, id)
	}
	p.Description = description
	return nil
}

func (m *MemStore) IncrementFlag(_ context.Context, id int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.photos[id]
	if !ok {
		return 0, fmt.Errorf("%w: фото %d", domain.ErrNotFound, id)
	}
	p.Flag++
	return p.Flag, nil
}

func (m *MemStore) DeletePhoto(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.photos[id]; !ok {
		return fmt.Errorf("%w: фото %d", domain.ErrNotFound, id)
	}
	tagIDs := m.photoTags[id]
	delete(m.photoTags, id)
	delete(m.photos, id)
	for k := range m.collects {
		if k.b == id {
			delete(m.collects, k)
		}
	}
	for tagID := range tagIDs {
		if !m.tagInUse(tagID) {
			delete(m.tags, tagID)
		}
	}
	return nil
}

func (m *MemStore) tagInUse(tagID int64) bool {
	for _, set := range m.photoTags {
		if set[tagID] {
			return true
		}
	}
	return false
}

func (m *MemStore) NextPhoto(_ context.Context, authorID, photoID int64) (*domain.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *domain.Photo
	for _, p := range m.photos {
		if p.AuthorID == authorID && p.ID > photoID && (best == nil || p.ID < best.ID) {
			best = p
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: следующее фото после %d", domain.ErrNotFound, photoID)
	}
	cp := *best
	return &cp, nil
}

func (m *MemStore) PreviousPhoto(_ context.Context, authorID, photoID int64) (*domain.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *domain.Photo
	for _, p := range m.photos {
		if p.AuthorID == authorID && p.ID < photoID && (best == nil || p.ID > best.ID) {
			best = p
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: предыдущее фото до %d", domain.ErrNotFound, photoID)
	}
	cp := *best
	return &cp, nil
}

func (m *MemStore) ListFeed(_ context.Context, followerID int64, page, perPage int) ([]domain.Photo, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return paginate(m.newestFirst(func(p *domain.Photo) bool {
		_, ok := m.follows[pair{followerID, p.AuthorID}]
		return ok
	}), page, perPage)
}

func (m *MemStore) ListByAuthor(_ context.Context, authorID int64, page, perPage int) ([]domain.Photo, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return paginate(m.newestFirst(func(p *domain.Photo) bool {
		return p.AuthorID == authorID
	}), page, perPage)
}

func (m *MemStore) ListByTag(_ context.Context, tagID int64, order domain.TagOrder, page, perPage int) ([]domain.Photo, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	photos := m.newestFirst(func(p *domain.Photo) bool {
		return m.photoTags[p.ID][tagID]
	})
	if order == domain.TagOrderByCollects {
		counts := make(map[int64]int, len(photos))
		for k := range m.collects {
			counts[k.b]++
		}
		sort.SliceStable(photos, func(i, j int) bool {
			return counts[photos[i].ID] > counts[photos[j].ID]
		})
	}
	return paginate(photos, page, perPage)
}

func (m *MemStore) ListRandom(_ context.Context, limit int) ([]domain.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	photos := make([]domain.Photo, 0, limit)
	// порядок обхода map случаен
	for _, p := range m.photos {
		if len(photos) == limit {
			break
		}
		photos = append(photos, *p)
	}
	return photos, nil
}

func (m *MemStore) newestFirst(keep func(p *domain.Photo) bool) []domain.Photo {
	var photos []domain.Photo
	for _, p := range m.photos {
		if keep(p) {
			photos = append(photos, *p)
		}
	}
	sort.Slice(photos, func(i, j int) bool { return photos[i].ID > photos[j].ID })
	return photos
}

func paginate[T any](items []T, page, perPage int) ([]T, int, error) {
	total := len(items)
	from := domain.Offset(page, perPage)
	if from >= total {
		return []T{}, total, nil
	}
	to := from + perPage
	if to > total {
		to = total
	}
	return items[from:to], total, nil
}

// --- ports.TagStorage

func (m *MemStore) GetTagByID(_ context.Context, id int64) (*domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tags[id]
	if !ok {
		return nil, fmt.Errorf("%w: тег %d", domain.ErrNotFound, id)
	}
	cp := *t
	return &cp, nil
}

func (m *MemStore) ListTagsByPhoto(_ context.Context, photoID int64) ([]domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tagsOf(photoID), nil
}

func (m *MemStore) tagsOf(photoID int64) []domain.Tag {
	tags := []domain.Tag{}
	for tagID := range m.photoTags[photoID] {
		tags = append(tags, *m.tags[tagID])
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags
}

func (m *MemStore) AttachTags(_ context.Context, photoID int64, names []string) ([]domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.photos[photoID]; !ok {
		return nil, fmt.Errorf("%w: фото %d", domain.ErrNotFound, photoID)
	}
	if m.photoTags[photoID] == nil {
		m.photoTags[photoID] = make(map[int64]bool)
	}
	for _, name := range names {
		var tag *domain.Tag
		for _, t := range m.tags {
			if t.Name == name {
				tag = t
				break
			}
		}
		if tag == nil {
			id, _ := m.next()
			tag = &domain.Tag{ID: id, Name: name}
			m.tags[id] = tag
		}
		m.photoTags[photoID][tag.ID] = true
	}
	return m.tagsOf(photoID), nil
}

func (m *MemStore) DetachTag(_ context.Context, photoID, tagID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.photoTags[photoID][tagID] {
		return false, fmt.Errorf("%w: тег %d у фото %d", domain.ErrTagNotAttached, tagID, photoID)
	}
	delete(m.photoTags[photoID], tagID)
	if m.tagInUse(tagID) {
		return false, nil
	}
	delete(m.tags, tagID)
	return true, nil
}

// --- ports.CollectStorage

func (m *MemStore) CreateCollect(_ context.Context, collectorID, photoID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.photos[photoID]; !ok {
		return fmt.Errorf("%w: фото %d", domain.ErrNotFound, photoID)
	}
	k := pair{collectorID, photoID}
	if _, ok := m.collects[k]; ok {
		return fmt.Errorf("%w: фото %d", domain.ErrAlreadyCollected, photoID)
	}
	_, now := m.next()
	m.collects[k] = now
	return nil
}

func (m *MemStore) DeleteCollect(_ context.Context, collectorID, photoID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := pair{collectorID, photoID}
	if _, ok := m.collects[k]; !ok {
		return fmt.Errorf("%w: фото %d", domain.ErrNotCollected, photoID)
	}
	delete(m.collects, k)
	return nil
}

func (m *MemStore) IsCollecting(_ context.Context, collectorID, photoID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.collects[pair{collectorID, photoID}]
	return ok, nil
}

func (m *MemStore) CountCollectors(_ context.Context, photoID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.collects {
		if k.b == photoID {
			n++
		}
	}
	return n, nil
}

func (m *MemStore) ListCollectors(_ context.Context, photoID int64, page, perPage int) ([]domain.Collect, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var collects []domain.Collect
	for k, at := range m.collects {
		if k.b != photoID {
			continue
		}
		c := domain.Collect{CollectorID: k.a, PhotoID: k.b, CreatedAt: at}
		if u, ok := m.users[k.a]; ok {
			c.CollectorUsername = u.Username
		}
		collects = append(collects, c)
	}
	sort.Slice(collects, func(i, j int) bool { return collects[i].CreatedAt.Before(collects[j].CreatedAt) })
	return paginate(collects, page, perPage)
}

// --- ports.FollowStorage

func (m *MemStore) Follow(_ context.Context, followerID, followedID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := pair{followerID, followedID}
	if _, ok := m.follows[k]; ok {
		return fmt.Errorf("%w: пользователь %d", domain.ErrAlreadyFollowing, followedID)
	}
	_, now := m.next()
	m.follows[k] = now
	return nil
}

func (m *MemStore) Unfollow(_ context.Context, followerID, followedID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := pair{followerID, followedID}
	if _, ok := m.follows[k]; !ok {
		return fmt.Errorf("%w: пользователь %d", domain.ErrNotFollowing, followedID)
	}
	delete(m.follows, k)
	return nil
}

func (m *MemStore) IsFollowing(_ context.Context, followerID, followedID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.follows[pair{followerID, followedID}]
	return ok, nil
}

// --- ports.NotificationStorage

func (m *MemStore) CreateNotification(_ context.Context, n *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, now := m.next()
	n.ID = id
	n.CreatedAt = now
	n.IsRead = false
	cp := *n
	m.notifications[id] = &cp
	return nil
}

func (m *MemStore) GetNotificationByID(_ context.Context, id int64) (*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, fmt.Errorf("%w: уведомление %d", domain.ErrNotFound, id)
	}
	cp := *n
	return &cp, nil
}

func (m *MemStore) ListNotifications(_ context.Context, receiverID int64, unreadOnly bool, page, perPage int) ([]domain.Notification, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []domain.Notification
	for _, n := range m.notifications {
		if n.ReceiverID == receiverID && (!unreadOnly || !n.IsRead) {
			items = append(items, *n)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return paginate(items, page, perPage)
}

func (m *MemStore) MarkRead(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return fmt.Errorf("%w: уведомление %d", domain.ErrNotFound, id)
	}
	n.IsRead = true
	return nil
}

func (m *MemStore) MarkAllRead(_ context.Context, receiverID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, n := range m.notifications {
		if n.ReceiverID == receiverID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func (m *MemStore) CountUnread(_ context.Context, receiverID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, item := range m.notifications {
		if item.ReceiverID == receiverID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

// --- файловое хранилище и публикатор

func (m *MemStore) UploadFile(_ context.Context, key string, reader io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files[key] = data
	return "http://files.test/" + key, nil
}

func (m *MemStore) GetFile(_ context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Files[key]
	if !ok {
		return nil, "", fmt.Errorf("%w: файл %s", domain.ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(data)), "image/png", nil
}

func (m *MemStore) DeleteFile(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Files, key)
	return nil
}

func (m *MemStore) PublishNotificationEvent(_ context.Context, event payloads.NotificationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishErr != nil {
		return m.PublishErr
	}
	m.Events = append(m.Events, event)
	return nil
}

// FileCount число файлов в хранилище
func (m *MemStore) FileCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Files)
}
