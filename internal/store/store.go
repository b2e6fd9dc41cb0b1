package store

import (
	"context"

	"github.com/user/vidhost-go/internal/model"
)

// Store defines the interface for catalog persistence operations
type Store interface {
	// Video operations
	CreateVideo(ctx context.Context, video *model.Video) error
	GetVideo(ctx context.Context, id uint) (*model.Video, error)
	ListVideos(ctx context.Context) ([]*model.Video, error)
	// IncrementViews atomically adds one to the view counter and returns
	// the updated record
	IncrementViews(ctx context.Context, id uint) (*model.Video, error)
	DeleteVideo(ctx context.Context, id uint) error
	CountVideos(ctx context.Context) (int64, error)
	// ListVideoPaths returns the stored video paths of every record, for
	// orphan reconciliation
	ListVideoPaths(ctx context.Context) ([]string, error)

	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id uint) (*model.User, error)

	// Health check
	Ping(ctx context.Context) error
	Close() error
}
