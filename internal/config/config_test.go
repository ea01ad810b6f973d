package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Store.UsersPath != "data/users.json" {
		t.Errorf("Expected default users path, got %s", cfg.Store.UsersPath)
	}
	if cfg.Store.ArticlesDir != "content/articles" {
		t.Errorf("Expected default articles dir, got %s", cfg.Store.ArticlesDir)
	}
	if cfg.Store.ConflictRetryAttempts != 3 {
		t.Errorf("Expected 3 retry attempts, got %d", cfg.Store.ConflictRetryAttempts)
	}
	if cfg.Store.ConflictRetryMaxDelay != 2*time.Second {
		t.Errorf("Expected 2s max retry delay, got %v", cfg.Store.ConflictRetryMaxDelay)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Errorf("Expected 7 day token TTL, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Upload.MaxUploadSize != 5*1024*1024 {
		t.Errorf("Expected 5MB upload cap, got %d", cfg.Upload.MaxUploadSize)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GITHUB_BRANCH", "content")
	t.Setenv("CONFLICT_RETRY_BASE_DELAY", "250ms")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("RENDER_CACHE_SIZE", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Store.Branch != "content" {
		t.Errorf("Expected branch content, got %s", cfg.Store.Branch)
	}
	if cfg.Store.ConflictRetryBaseDelay != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %v", cfg.Store.ConflictRetryBaseDelay)
	}
	if !cfg.Auth.CookieSecure {
		t.Error("Expected secure cookie")
	}
	// unparsable values fall back to the default
	if cfg.Render.CacheSize != 256 {
		t.Errorf("Expected cache size 256, got %d", cfg.Render.CacheSize)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"memory backend ok", func(c *Config) {}, false},
		{"github without token", func(c *Config) { c.Store.Backend = BackendGitHub }, true},
		{"github complete", func(c *Config) {
			c.Store.Backend = BackendGitHub
			c.Store.Token, c.Store.Owner, c.Store.Repo = "t", "acme", "blog"
		}, false},
		{"unknown backend", func(c *Config) { c.Store.Backend = "s3" }, true},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"zero retry attempts", func(c *Config) { c.Store.ConflictRetryAttempts = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Store: StoreConfig{Backend: BackendMemory, ConflictRetryAttempts: 3},
				Auth:  AuthConfig{JWTSecret: "secret"},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
