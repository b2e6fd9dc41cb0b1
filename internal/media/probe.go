// Package media extracts video metadata by shelling out to ffprobe and
// ffmpeg: container duration and a single still-frame thumbnail.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/user/vidhost-go/internal/model"
)

// ProberConfig holds the external tool paths and limits
type ProberConfig struct {
	FFmpegPath      string
	FFprobePath     string
	Timeout         time.Duration
	ThumbnailWidth  int
	ThumbnailHeight int
}

// DefaultProberConfig returns a ProberConfig with standard tool names and
// limits
func DefaultProberConfig() *ProberConfig {
	return &ProberConfig{
		FFmpegPath:      "ffmpeg",
		FFprobePath:     "ffprobe",
		Timeout:         30 * time.Second,
		ThumbnailWidth:  320,
		ThumbnailHeight: 240,
	}
}

// Prober invokes the external media tools
type Prober struct {
	config *ProberConfig
}

// NewProber creates a new Prober instance
func NewProber(cfg *ProberConfig) *Prober {
	if cfg == nil {
		cfg = DefaultProberConfig()
	}
	return &Prober{config: cfg}
}

// Duration reports the container duration of the video at path, in
// seconds. A hung or failed ffprobe surfaces as ErrExtraction.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.config.FFprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Error().
			Err(err).
			Str("path", path).
			Str("stderr", stderr.String()).
			Msg("ffprobe failed")
		return 0, fmt.Errorf("%w: ffprobe: %v", model.ErrExtraction, err)
	}

	return ParseDuration(stdout.String()), nil
}

// ParseDuration parses ffprobe duration output. Output that does not
// parse to a number (e.g. "N/A" for containers without a duration)
// yields zero rather than an error; zero formats as "00:00" downstream.
func ParseDuration(out string) float64 {
	s := strings.TrimSpace(out)
	d, err := strconv.ParseFloat(s, 64)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Thumbnail extracts a single frame from the video at srcPath, scales it
// to the configured resolution, and writes it as a jpg to dstPath
func (p *Prober) Thumbnail(ctx context.Context, srcPath, dstPath string) error {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	scale := fmt.Sprintf("scale=%d:%d", p.config.ThumbnailWidth, p.config.ThumbnailHeight)
	cmd := exec.CommandContext(ctx, p.config.FFmpegPath,
		"-y",
		"-i", srcPath,
		"-vframes", "1",
		"-vf", scale,
		dstPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Error().
			Err(err).
			Str("src", srcPath).
			Str("stderr", stderr.String()).
			Msg("ffmpeg thumbnail extraction failed")
		return fmt.Errorf("%w: ffmpeg: %v", model.ErrExtraction, err)
	}
	return nil
}
