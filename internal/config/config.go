package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	DB      DBConfig
	Server  ServerConfig
	Storage StorageConfig
	Media   MediaConfig
	Auth    AuthConfig
	Sweeper SweeperConfig
}

// DBConfig holds database configuration
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"3306"`
	User     string `envconfig:"DB_USER" default:"root"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	Database string `envconfig:"DB_NAME" default:"vidhost"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"10"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
	// UploadRate is the sustained upload rate in requests per second
	UploadRate float64 `envconfig:"SERVER_UPLOAD_RATE" default:"1"`
	// UploadBurst is the upload token bucket size
	UploadBurst int `envconfig:"SERVER_UPLOAD_BURST" default:"3"`
}

// StorageConfig holds file storage configuration
type StorageConfig struct {
	// Root is the directory that contains the videos/ and thumbnails/
	// subdirectories
	Root          string `envconfig:"STORAGE_ROOT" default:"uploads"`
	MaxUploadSize int64  `envconfig:"STORAGE_MAX_UPLOAD_SIZE" default:"104857600"`
	// PublicPrefix is the URL prefix under which stored files are served
	PublicPrefix string `envconfig:"STORAGE_PUBLIC_PREFIX" default:"/uploads"`
}

// MediaConfig holds metadata extraction configuration
type MediaConfig struct {
	FFmpegPath  string        `envconfig:"MEDIA_FFMPEG_PATH" default:"ffmpeg"`
	FFprobePath string        `envconfig:"MEDIA_FFPROBE_PATH" default:"ffprobe"`
	// ProbeTimeout bounds a single ffprobe/ffmpeg invocation; expiry is
	// reported as an extraction failure
	ProbeTimeout    time.Duration `envconfig:"MEDIA_PROBE_TIMEOUT" default:"30s"`
	ThumbnailWidth  int           `envconfig:"MEDIA_THUMBNAIL_WIDTH" default:"320"`
	ThumbnailHeight int           `envconfig:"MEDIA_THUMBNAIL_HEIGHT" default:"240"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret  string        `envconfig:"AUTH_JWT_SECRET" required:"true"`
	TokenTTL   time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"720h"`
	BcryptCost int           `envconfig:"AUTH_BCRYPT_COST" default:"10"`
}

// SweeperConfig holds orphan file sweeper configuration
type SweeperConfig struct {
	Enabled  bool          `envconfig:"SWEEPER_ENABLED" default:"true"`
	Interval time.Duration `envconfig:"SWEEPER_INTERVAL" default:"1h"`
	// Grace is the minimum age a file must reach before it can be treated
	// as orphaned, so in-flight uploads are never swept
	Grace time.Duration `envconfig:"SWEEPER_GRACE" default:"10m"`
}

// DSN returns the MySQL data source name
func (c *DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to load db config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Storage); err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Media); err != nil {
		return nil, fmt.Errorf("failed to load media config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Auth); err != nil {
		return nil, fmt.Errorf("failed to load auth config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Sweeper); err != nil {
		return nil, fmt.Errorf("failed to load sweeper config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DB.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535")
	}
	if c.Server.UploadRate <= 0 {
		return fmt.Errorf("SERVER_UPLOAD_RATE must be positive")
	}
	if c.Storage.Root == "" {
		return fmt.Errorf("STORAGE_ROOT is required")
	}
	if c.Storage.MaxUploadSize <= 0 {
		return fmt.Errorf("STORAGE_MAX_UPLOAD_SIZE must be positive")
	}
	if c.Media.ProbeTimeout <= 0 {
		return fmt.Errorf("MEDIA_PROBE_TIMEOUT must be positive")
	}
	if c.Media.ThumbnailWidth <= 0 || c.Media.ThumbnailHeight <= 0 {
		return fmt.Errorf("MEDIA_THUMBNAIL_WIDTH and MEDIA_THUMBNAIL_HEIGHT must be positive")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be positive")
	}
	if c.Sweeper.Interval <= 0 {
		return fmt.Errorf("SWEEPER_INTERVAL must be positive")
	}
	return nil
}
