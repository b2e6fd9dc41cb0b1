package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	os.Setenv("DB_PASSWORD", "test-password")
	os.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Cleanup(func() {
		os.Unsetenv("DB_PASSWORD")
		os.Unsetenv("AUTH_JWT_SECRET")
	})
}

func TestLoad_WithRequiredEnvVars(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DB.Password != "test-password" {
		t.Errorf("DB.Password = %v, want %v", cfg.DB.Password, "test-password")
	}
	if cfg.Auth.JWTSecret != "test-secret" {
		t.Errorf("Auth.JWTSecret = %v, want %v", cfg.Auth.JWTSecret, "test-secret")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("DB_PASSWORD")
	os.Unsetenv("AUTH_JWT_SECRET")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error when required env vars are missing")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DB.Host != "localhost" {
		t.Errorf("DB.Host = %v, want %v", cfg.DB.Host, "localhost")
	}
	if cfg.DB.Port != 3306 {
		t.Errorf("DB.Port = %v, want %v", cfg.DB.Port, 3306)
	}
	if cfg.DB.Database != "vidhost" {
		t.Errorf("DB.Database = %v, want %v", cfg.DB.Database, "vidhost")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %v, want %v", cfg.Server.Port, 8080)
	}
	if cfg.Storage.Root != "uploads" {
		t.Errorf("Storage.Root = %v, want %v", cfg.Storage.Root, "uploads")
	}
	if cfg.Storage.MaxUploadSize != 100*1024*1024 {
		t.Errorf("Storage.MaxUploadSize = %v, want %v", cfg.Storage.MaxUploadSize, 100*1024*1024)
	}
	if cfg.Storage.PublicPrefix != "/uploads" {
		t.Errorf("Storage.PublicPrefix = %v, want %v", cfg.Storage.PublicPrefix, "/uploads")
	}
	if cfg.Media.FFmpegPath != "ffmpeg" {
		t.Errorf("Media.FFmpegPath = %v, want %v", cfg.Media.FFmpegPath, "ffmpeg")
	}
	if cfg.Media.FFprobePath != "ffprobe" {
		t.Errorf("Media.FFprobePath = %v, want %v", cfg.Media.FFprobePath, "ffprobe")
	}
	if cfg.Media.ProbeTimeout != 30*time.Second {
		t.Errorf("Media.ProbeTimeout = %v, want %v", cfg.Media.ProbeTimeout, 30*time.Second)
	}
	if cfg.Media.ThumbnailWidth != 320 || cfg.Media.ThumbnailHeight != 240 {
		t.Errorf("thumbnail size = %dx%d, want 320x240", cfg.Media.ThumbnailWidth, cfg.Media.ThumbnailHeight)
	}
	if cfg.Auth.TokenTTL != 720*time.Hour {
		t.Errorf("Auth.TokenTTL = %v, want %v", cfg.Auth.TokenTTL, 720*time.Hour)
	}
	if !cfg.Sweeper.Enabled {
		t.Error("Sweeper.Enabled = false, want true")
	}
	if cfg.Sweeper.Interval != time.Hour {
		t.Errorf("Sweeper.Interval = %v, want %v", cfg.Sweeper.Interval, time.Hour)
	}
	if cfg.Sweeper.Grace != 10*time.Minute {
		t.Errorf("Sweeper.Grace = %v, want %v", cfg.Sweeper.Grace, 10*time.Minute)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("STORAGE_ROOT", "/var/lib/vidhost")
	os.Setenv("MEDIA_PROBE_TIMEOUT", "5s")
	os.Setenv("SWEEPER_ENABLED", "false")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("STORAGE_ROOT")
		os.Unsetenv("MEDIA_PROBE_TIMEOUT")
		os.Unsetenv("SWEEPER_ENABLED")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %v, want %v", cfg.Server.Port, 9090)
	}
	if cfg.Storage.Root != "/var/lib/vidhost" {
		t.Errorf("Storage.Root = %v, want %v", cfg.Storage.Root, "/var/lib/vidhost")
	}
	if cfg.Media.ProbeTimeout != 5*time.Second {
		t.Errorf("Media.ProbeTimeout = %v, want %v", cfg.Media.ProbeTimeout, 5*time.Second)
	}
	if cfg.Sweeper.Enabled {
		t.Error("Sweeper.Enabled = true, want false")
	}
}

func TestDSN(t *testing.T) {
	cfg := &DBConfig{
		Host:     "db.example.com",
		Port:     3307,
		User:     "vidhost",
		Password: "secret",
		Database: "videos",
	}

	want := "vidhost:secret@tcp(db.example.com:3307)/videos?charset=utf8mb4&parseTime=True&loc=Local"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %v, want %v", got, want)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DB:      DBConfig{Password: "pw"},
			Server:  ServerConfig{Port: 8080, UploadRate: 1, UploadBurst: 3},
			Storage: StorageConfig{Root: "uploads", MaxUploadSize: 1024},
			Media: MediaConfig{
				ProbeTimeout:    time.Second,
				ThumbnailWidth:  320,
				ThumbnailHeight: 240,
			},
			Auth:    AuthConfig{JWTSecret: "s", TokenTTL: time.Hour, BcryptCost: 10},
			Sweeper: SweeperConfig{Interval: time.Hour, Grace: time.Minute},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("Validate() on valid config = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing db password", func(c *Config) { c.DB.Password = "" }},
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"zero upload rate", func(c *Config) { c.Server.UploadRate = 0 }},
		{"empty storage root", func(c *Config) { c.Storage.Root = "" }},
		{"zero max upload", func(c *Config) { c.Storage.MaxUploadSize = 0 }},
		{"zero probe timeout", func(c *Config) { c.Media.ProbeTimeout = 0 }},
		{"zero thumbnail size", func(c *Config) { c.Media.ThumbnailWidth = 0 }},
		{"missing jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"zero token ttl", func(c *Config) { c.Auth.TokenTTL = 0 }},
		{"zero sweeper interval", func(c *Config) { c.Sweeper.Interval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() expected error for %s", tt.name)
			}
		})
	}
}
