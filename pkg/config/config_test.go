package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Save original env
	originalKey := os.Getenv("GOATCAST_CONTENT_API_KEY")
	defer func() {
		if originalKey != "" {
			os.Setenv("GOATCAST_CONTENT_API_KEY", originalKey)
		} else {
			os.Unsetenv("GOATCAST_CONTENT_API_KEY")
		}
	}()

	// Test with environment variable
	os.Setenv("GOATCAST_CONTENT_API_KEY", "test-api-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Content.APIKey != "test-api-key" {
		t.Errorf("Expected content API key from env, got: %s", cfg.Content.APIKey)
	}
	if cfg.Feed.WatchTimeout != 10*time.Second {
		t.Errorf("Expected default watch timeout of 10s, got: %v", cfg.Feed.WatchTimeout)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Content: ContentConfig{
			BaseURL: "https://api.neynar.com/v2/farcaster",
			APIKey:  "key",
			Timeout: 30 * time.Second,
		},
		Session: SessionConfig{Path: "./data/session"},
		Feed: FeedConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
			WatchTimeout: 10 * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Valid config should not error: %v", err)
	}

	// Test invalid default limit
	cfg.Feed.DefaultLimit = 1000
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for default limit above max limit")
	}
	cfg.Feed.DefaultLimit = 10

	// Test missing API key
	cfg.Content.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing content API key")
	}
	cfg.Content.APIKey = "key"

	// Test missing session path
	cfg.Session.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing session path")
	}
	cfg.Session.InMemory = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("In-memory session should not require a path: %v", err)
	}
}
