package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/user/vidhost-go/internal/model"
)

// MemoryStore is an in-memory Store implementation for tests and local
// development. All operations are synchronized by a single mutex, so the
// view-counter increment is atomic like the MySQL implementation's.
type MemoryStore struct {
	mu          sync.Mutex
	videos      map[uint]*model.Video
	users       map[uint]*model.User
	nextVideoID uint
	nextUserID  uint
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		videos:      make(map[uint]*model.Video),
		users:       make(map[uint]*model.User),
		nextVideoID: 1,
		nextUserID:  1,
	}
}

func (s *MemoryStore) CreateVideo(ctx context.Context, video *model.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	video.ID = s.nextVideoID
	s.nextVideoID++
	video.CreatedAt = now
	video.UpdatedAt = now

	stored := *video
	s.videos[video.ID] = &stored
	return nil
}

func (s *MemoryStore) GetVideo(ctx context.Context, id uint) (*model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	video, ok := s.videos[id]
	if !ok {
		return nil, fmt.Errorf("%w: video %d", model.ErrNotFound, id)
	}
	copied := *video
	return &copied, nil
}

func (s *MemoryStore) ListVideos(ctx context.Context) ([]*model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	videos := make([]*model.Video, 0, len(s.videos))
	for _, v := range s.videos {
		copied := *v
		videos = append(videos, &copied)
	}
	// Newest first; id breaks ties for records created within the same
	// clock tick
	sort.Slice(videos, func(i, j int) bool {
		if videos[i].CreatedAt.Equal(videos[j].CreatedAt) {
			return videos[i].ID > videos[j].ID
		}
		return videos[i].CreatedAt.After(videos[j].CreatedAt)
	})
	return videos, nil
}

func (s *MemoryStore) IncrementViews(ctx context.Context, id uint) (*model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	video, ok := s.videos[id]
	if !ok {
		return nil, fmt.Errorf("%w: video %d", model.ErrNotFound, id)
	}
	video.Views++
	video.UpdatedAt = time.Now()
	copied := *video
	return &copied, nil
}

func (s *MemoryStore) DeleteVideo(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[id]; !ok {
		return fmt.Errorf("%w: video %d", model.ErrNotFound, id)
	}
	delete(s.videos, id)
	return nil
}

func (s *MemoryStore) CountVideos(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.videos)), nil
}

func (s *MemoryStore) ListVideoPaths(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.videos))
	for _, v := range s.videos {
		paths = append(paths, v.VideoPath)
	}
	return paths, nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("%w: email already registered", model.ErrValidation)
		}
	}

	now := time.Now()
	user.ID = s.nextUserID
	s.nextUserID++
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", model.ErrNotFound, email)
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %d", model.ErrNotFound, id)
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
