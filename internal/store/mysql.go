package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/vidhost-go/internal/config"
	"github.com/user/vidhost-go/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MySQLStore implements Store interface using MySQL database
type MySQLStore struct {
	db *gorm.DB
}

// NewMySQLStore creates a new MySQL store instance
func NewMySQLStore(cfg *config.DBConfig) (*MySQLStore, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Translate driver errors so duplicate-key shows up as
		// gorm.ErrDuplicatedKey
		TranslateError: true,
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.MaxConns / 2)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Auto migrate tables
	if err := db.AutoMigrate(&model.Video{}, &model.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &MySQLStore{db: db}, nil
}

// CreateVideo persists a new video record. The store assigns the id and
// timestamps; the caller sees them on return.
func (s *MySQLStore) CreateVideo(ctx context.Context, video *model.Video) error {
	if err := s.db.WithContext(ctx).Create(video).Error; err != nil {
		return fmt.Errorf("%w: failed to create video: %v", model.ErrPersistence, err)
	}
	return nil
}

// GetVideo retrieves a video by id without touching the view counter
func (s *MySQLStore) GetVideo(ctx context.Context, id uint) (*model.Video, error) {
	var video model.Video
	result := s.db.WithContext(ctx).First(&video, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: video %d", model.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to get video: %v", model.ErrPersistence, result.Error)
	}
	return &video, nil
}

// ListVideos retrieves all videos ordered by creation time, newest first
func (s *MySQLStore) ListVideos(ctx context.Context) ([]*model.Video, error) {
	var videos []*model.Video
	result := s.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&videos)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: failed to list videos: %v", model.ErrPersistence, result.Error)
	}
	return videos, nil
}

// IncrementViews adds one to the view counter with a single UPDATE so
// concurrent fetches never lose an increment, then rereads the record
func (s *MySQLStore) IncrementViews(ctx context.Context, id uint) (*model.Video, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return nil, fmt.Errorf("%w: failed to increment views: %v", model.ErrPersistence, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: video %d", model.ErrNotFound, id)
	}
	return s.GetVideo(ctx, id)
}

// DeleteVideo removes a video record by id
func (s *MySQLStore) DeleteVideo(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Video{}, id)
	if result.Error != nil {
		return fmt.Errorf("%w: failed to delete video: %v", model.ErrPersistence, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: video %d", model.ErrNotFound, id)
	}
	return nil
}

// CountVideos returns the total count of videos
func (s *MySQLStore) CountVideos(ctx context.Context) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&model.Video{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("%w: failed to count videos: %v", model.ErrPersistence, result.Error)
	}
	return count, nil
}

// ListVideoPaths returns the video storage path of every record
func (s *MySQLStore) ListVideoPaths(ctx context.Context) ([]string, error) {
	var paths []string
	result := s.db.WithContext(ctx).
		Model(&model.Video{}).
		Pluck("video_path", &paths)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: failed to list video paths: %v", model.ErrPersistence, result.Error)
	}
	return paths, nil
}

// CreateUser persists a new user. A duplicate email surfaces as a
// validation error so handlers report it as client input.
func (s *MySQLStore) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: email already registered", model.ErrValidation)
		}
		return fmt.Errorf("%w: failed to create user: %v", model.ErrPersistence, err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email
func (s *MySQLStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	result := s.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", model.ErrNotFound, email)
		}
		return nil, fmt.Errorf("%w: failed to get user: %v", model.ErrPersistence, result.Error)
	}
	return &user, nil
}

// GetUserByID retrieves a user by id
func (s *MySQLStore) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	result := s.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", model.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to get user: %v", model.ErrPersistence, result.Error)
	}
	return &user, nil
}

// Ping checks database connectivity
func (s *MySQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.Close()
}

// DB returns the underlying gorm.DB instance (for testing purposes)
func (s *MySQLStore) DB() *gorm.DB {
	return s.db
}
