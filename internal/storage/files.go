// Package storage stages uploaded videos and generated thumbnails on the
// local filesystem: two sibling directories under one root, sharing a
// filename stem per video.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	videosDir     = "videos"
	thumbnailsDir = "thumbnails"
)

// FileStore persists originals and thumbnails under a root directory
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore and ensures both storage directories
// exist. Directory creation is idempotent.
func NewFileStore(root string) (*FileStore, error) {
	for _, dir := range []string{filepath.Join(root, videosDir), filepath.Join(root, thumbnailsDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}
	return &FileStore{root: root}, nil
}

// UniqueName builds a storage filename for an uploaded file by prefixing
// its base name with the current millisecond timestamp. The original
// extension is preserved.
func UniqueName(originalName string) string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(originalName))
}

// ThumbnailName derives the thumbnail filename from a video filename:
// same stem, .jpg extension
func ThumbnailName(videoName string) string {
	return Stem(videoName) + ".jpg"
}

// Stem returns the filename without its extension
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// VideoPath returns the storage-relative path of a video file
func (fs *FileStore) VideoPath(name string) string {
	return filepath.Join(videosDir, name)
}

// ThumbnailPath returns the storage-relative path of a thumbnail file
func (fs *FileStore) ThumbnailPath(name string) string {
	return filepath.Join(thumbnailsDir, name)
}

// Abs resolves a storage-relative path against the root
func (fs *FileStore) Abs(rel string) string {
	return filepath.Join(fs.root, rel)
}

// Root returns the storage root directory
func (fs *FileStore) Root() string {
	return fs.root
}

// SaveVideo writes the uploaded bytes to the video directory under the
// given name and returns the storage-relative path
func (fs *FileStore) SaveVideo(name string, r io.Reader) (string, error) {
	rel := fs.VideoPath(name)
	f, err := os.Create(fs.Abs(rel))
	if err != nil {
		return "", fmt.Errorf("failed to create video file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write video file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync video file: %w", err)
	}
	return rel, nil
}

// Remove deletes a stored file by storage-relative path. A missing file
// is not an error.
func (fs *FileStore) Remove(rel string) error {
	if err := os.Remove(fs.Abs(rel)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", rel, err)
	}
	return nil
}

// RemoveBestEffort deletes a stored file and only logs on failure
func (fs *FileStore) RemoveBestEffort(rel string) {
	if err := fs.Remove(rel); err != nil {
		log.Warn().Err(err).Str("path", rel).Msg("Failed to remove stored file")
	}
}

// StoredFile describes one file in the video directory
type StoredFile struct {
	Name    string
	ModTime time.Time
}

// ListVideoFiles returns the files currently present in the video
// directory, for orphan reconciliation
func (fs *FileStore) ListVideoFiles() ([]StoredFile, error) {
	entries, err := os.ReadDir(filepath.Join(fs.root, videosDir))
	if err != nil {
		return nil, fmt.Errorf("failed to read video directory: %w", err)
	}

	var files []StoredFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, StoredFile{Name: entry.Name(), ModTime: info.ModTime()})
	}
	return files, nil
}
