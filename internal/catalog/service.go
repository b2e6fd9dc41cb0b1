// Package catalog implements the video ingestion pipeline and the read
// and mutation operations over the video catalog.
package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/user/vidhost-go/internal/model"
	"github.com/user/vidhost-go/internal/storage"
	"github.com/user/vidhost-go/internal/store"
)

// MetadataExtractor reports video duration and produces thumbnails.
// Implemented by media.Prober; tests inject fakes.
type MetadataExtractor interface {
	Duration(ctx context.Context, path string) (float64, error)
	Thumbnail(ctx context.Context, srcPath, dstPath string) error
}

// DurationFormatter renders extracted seconds as the display string
type DurationFormatter func(seconds float64) string

// Service wires the catalog store, the file store, and the metadata
// extractor into the upload/list/get/delete operations
type Service struct {
	store  store.Store
	files  *storage.FileStore
	prober MetadataExtractor
	format DurationFormatter
}

// NewService creates a catalog service
func NewService(st store.Store, files *storage.FileStore, prober MetadataExtractor, format DurationFormatter) *Service {
	return &Service{
		store:  st,
		files:  files,
		prober: prober,
		format: format,
	}
}

// UploadRequest carries the validated multipart fields of one upload
type UploadRequest struct {
	Title       string
	Description string
	// Filename is the client's original file name; only its base
	// component is used
	Filename string
	File     io.Reader
	UserID   uint
}

// Upload runs the ingestion pipeline: stage the file, extract thumbnail
// and duration, persist the catalog record. Each stage short-circuits on
// error, and staged files are removed again when a later stage fails so
// a failed upload leaves nothing behind.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*model.Video, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", model.ErrValidation)
	}
	if req.File == nil {
		return nil, fmt.Errorf("%w: please upload a video file", model.ErrValidation)
	}
	if req.UserID == 0 {
		return nil, fmt.Errorf("%w: upload requires an authenticated user", model.ErrUnauthorized)
	}

	name := storage.UniqueName(req.Filename)
	videoRel, err := s.files.SaveVideo(name, req.File)
	if err != nil {
		return nil, err
	}

	thumbRel := s.files.ThumbnailPath(storage.ThumbnailName(name))
	if err := s.prober.Thumbnail(ctx, s.files.Abs(videoRel), s.files.Abs(thumbRel)); err != nil {
		s.files.RemoveBestEffort(videoRel)
		return nil, err
	}

	seconds, err := s.prober.Duration(ctx, s.files.Abs(videoRel))
	if err != nil {
		s.files.RemoveBestEffort(videoRel)
		s.files.RemoveBestEffort(thumbRel)
		return nil, err
	}

	video := &model.Video{
		Title:         title,
		Description:   description,
		VideoPath:     videoRel,
		ThumbnailPath: thumbRel,
		Duration:      s.format(seconds),
		UserID:        req.UserID,
		Views:         0,
	}

	if err := s.store.CreateVideo(ctx, video); err != nil {
		// Compensate so a failed catalog write does not orphan the
		// staged files
		s.files.RemoveBestEffort(videoRel)
		s.files.RemoveBestEffort(thumbRel)
		return nil, err
	}

	log.Info().
		Uint("id", video.ID).
		Str("video", videoRel).
		Str("duration", video.Duration).
		Msg("Video ingested")

	return video, nil
}

// List returns all videos, newest first
func (s *Service) List(ctx context.Context) ([]*model.Video, error) {
	return s.store.ListVideos(ctx)
}

// Get fetches a video by id and counts the fetch as one view. The
// increment is a single atomic update in the store, so concurrent
// fetches of the same id never lose a count.
func (s *Service) Get(ctx context.Context, id uint) (*model.Video, error) {
	return s.store.IncrementViews(ctx, id)
}

// Delete removes the video's backing files and its catalog record. File
// removal is best-effort (an already-missing file is fine) and happens
// first; deleting the same id twice reports not found on the second
// call.
func (s *Service) Delete(ctx context.Context, id uint) error {
	video, err := s.store.GetVideo(ctx, id)
	if err != nil {
		return err
	}

	s.files.RemoveBestEffort(video.VideoPath)
	s.files.RemoveBestEffort(video.ThumbnailPath)

	if err := s.store.DeleteVideo(ctx, id); err != nil {
		return err
	}

	log.Info().Uint("id", id).Msg("Video removed")
	return nil
}
