package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backends
const (
	BackendGitHub = "github"
	BackendMemory = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Remote file store configuration
	Store StoreConfig

	// Token and cookie configuration
	Auth AuthConfig

	// Cover upload configuration
	Upload UploadConfig

	// Markdown rendering configuration
	Render RenderConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigin   string
}

// StoreConfig holds the file store connection and layout
type StoreConfig struct {
	Backend        string // "github" or "memory"
	Token          string
	Owner          string
	Repo           string
	Branch         string
	APIURL         string
	RawURL         string
	RequestTimeout time.Duration

	UsersPath       string
	StatsPath       string
	ReadingListPath string
	ArticlesDir     string
	UploadsDir      string

	ConflictRetryAttempts  int
	ConflictRetryBaseDelay time.Duration
	ConflictRetryMaxDelay  time.Duration
}

// AuthConfig holds token settings
type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	CookieName   string
	CookieSecure bool
	BcryptCost   int
}

// UploadConfig holds cover upload settings
type UploadConfig struct {
	MaxUploadSize int64 // in bytes
}

// RenderConfig holds HTML rendering settings
type RenderConfig struct {
	CacheSize int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"

	// File enables an additional rotated JSON log file when set
	File           string
	FileMaxSizeMB  int
	FileMaxBackups int
	FileMaxAgeDays int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			AllowedOrigin:   getEnv("CORS_ALLOWED_ORIGIN", "*"),
		},
		Store: StoreConfig{
			Backend:                getEnv("STORE_BACKEND", BackendGitHub),
			Token:                  getEnv("GITHUB_TOKEN", ""),
			Owner:                  getEnv("GITHUB_OWNER", ""),
			Repo:                   getEnv("GITHUB_REPO", ""),
			Branch:                 getEnv("GITHUB_BRANCH", "main"),
			APIURL:                 getEnv("GITHUB_API_URL", "https://api.github.com"),
			RawURL:                 getEnv("GITHUB_RAW_URL", "https://raw.githubusercontent.com"),
			RequestTimeout:         getDurationEnv("STORE_REQUEST_TIMEOUT", 15*time.Second),
			UsersPath:              getEnv("USERS_PATH", "data/users.json"),
			StatsPath:              getEnv("STATS_PATH", "data/stats.json"),
			ReadingListPath:        getEnv("READINGLIST_PATH", "data/readinglist.json"),
			ArticlesDir:            getEnv("ARTICLES_DIR", "content/articles"),
			UploadsDir:             getEnv("UPLOADS_DIR", "public/uploads/covers"),
			ConflictRetryAttempts:  getIntEnv("CONFLICT_RETRY_ATTEMPTS", 3),
			ConflictRetryBaseDelay: getDurationEnv("CONFLICT_RETRY_BASE_DELAY", 100*time.Millisecond),
			ConflictRetryMaxDelay:  getDurationEnv("CONFLICT_RETRY_MAX_DELAY", 2*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			TokenTTL:     getDurationEnv("JWT_TTL", 7*24*time.Hour),
			CookieName:   getEnv("COOKIE_NAME", "auth_token"),
			CookieSecure: getBoolEnv("COOKIE_SECURE", false),
			BcryptCost:   getIntEnv("BCRYPT_COST", 12),
		},
		Upload: UploadConfig{
			MaxUploadSize: getInt64Env("MAX_UPLOAD_SIZE", 5*1024*1024), // 5MB
		},
		Render: RenderConfig{
			CacheSize: getIntEnv("RENDER_CACHE_SIZE", 256),
		},
		Log: LogConfig{
			Level:          getEnv("LOG_LEVEL", "info"),
			Format:         getEnv("LOG_FORMAT", "json"),
			File:           getEnv("LOG_FILE", ""),
			FileMaxSizeMB:  getIntEnv("LOG_FILE_MAX_SIZE_MB", 100),
			FileMaxBackups: getIntEnv("LOG_FILE_MAX_BACKUPS", 3),
			FileMaxAgeDays: getIntEnv("LOG_FILE_MAX_AGE_DAYS", 28),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendGitHub:
		if c.Store.Token == "" {
			return fmt.Errorf("GITHUB_TOKEN is required")
		}
		if c.Store.Owner == "" || c.Store.Repo == "" {
			return fmt.Errorf("GITHUB_OWNER and GITHUB_REPO are required")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if c.Store.ConflictRetryAttempts < 1 {
		return fmt.Errorf("CONFLICT_RETRY_ATTEMPTS must be at least 1")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
