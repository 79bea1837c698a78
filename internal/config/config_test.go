package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.InquiryLimit != 3 {
		t.Errorf("InquiryLimit = %d, want 3", cfg.InquiryLimit)
	}
	if cfg.NewsletterLimit != 5 {
		t.Errorf("NewsletterLimit = %d, want 5", cfg.NewsletterLimit)
	}
	if cfg.RateLimitWindow != 10*time.Minute {
		t.Errorf("RateLimitWindow = %s, want 10m", cfg.RateLimitWindow)
	}
	if len(cfg.GeoProviders) != 3 {
		t.Errorf("GeoProviders = %d entries, want 3", len(cfg.GeoProviders))
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("INQUIRY_RATE_LIMIT", "7")
	t.Setenv("RATE_LIMIT_WINDOW", "5m")
	t.Setenv("GEO_PROVIDERS", "http://geo.test/a/, http://geo.test/b/")
	t.Setenv("BASE_URL", "https://example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", cfg.ListenAddr)
	}
	if cfg.InquiryLimit != 7 {
		t.Errorf("InquiryLimit = %d, want 7", cfg.InquiryLimit)
	}
	if cfg.RateLimitWindow != 5*time.Minute {
		t.Errorf("RateLimitWindow = %s, want 5m", cfg.RateLimitWindow)
	}
	if len(cfg.GeoProviders) != 2 || cfg.GeoProviders[0] != "http://geo.test/a/" {
		t.Errorf("GeoProviders = %v", cfg.GeoProviders)
	}
	if cfg.BaseURL != "https://example.com" {
		t.Errorf("BaseURL = %q, trailing slash should be stripped", cfg.BaseURL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("INQUIRY_RATE_LIMIT", "-1")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative rate limit")
	}
}
