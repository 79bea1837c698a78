package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process configuration loaded from the environment.
// Site-facing settings (branding, contact info, SEO defaults) live in the
// site_settings table instead; this struct covers only what the process
// needs before it can reach the database.
type Config struct {
	ListenAddr string
	DataPath   string
	BaseURL    string

	// Outbound mail (best-effort; empty host disables sending)
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	MailFrom   string
	AdminEmail string

	// Bot defense (empty secret disables verification)
	RecaptchaSecret    string
	RecaptchaVerifyURL string

	// IP geolocation provider endpoints, tried in order
	GeoProviders []string
	GeoTimeout   time.Duration

	// Form rate limits, rolling windows
	InquiryLimit    int
	NewsletterLimit int
	RateLimitWindow time.Duration
}

// DefaultGeoProviders are the lookup services tried in order. Each must
// accept the IP appended to the URL and answer JSON (see internal/geo).
var DefaultGeoProviders = []string{
	"http://ip-api.com/json/",
	"https://ipapi.co/",
	"https://ipwho.is/",
}

// Load reads configuration from the environment, after loading a .env file
// if one exists alongside the binary.
func Load() (*Config, error) {
	// Missing .env is fine; explicit env vars always win.
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:         getEnv("LISTEN_ADDR", ":8080"),
		DataPath:           getEnv("DATA_PATH", "./data"),
		BaseURL:            strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		SMTPUser:           os.Getenv("SMTP_USER"),
		SMTPPass:           os.Getenv("SMTP_PASS"),
		MailFrom:           getEnv("MAIL_FROM", "noreply@localhost"),
		AdminEmail:         os.Getenv("ADMIN_EMAIL"),
		RecaptchaSecret:    os.Getenv("RECAPTCHA_SECRET"),
		RecaptchaVerifyURL: getEnv("RECAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"),
		GeoProviders:       getEnvList("GEO_PROVIDERS", DefaultGeoProviders),
		GeoTimeout:         getEnvDuration("GEO_TIMEOUT", 2500*time.Millisecond),
		InquiryLimit:       getEnvInt("INQUIRY_RATE_LIMIT", 3),
		NewsletterLimit:    getEnvInt("NEWSLETTER_RATE_LIMIT", 5),
		RateLimitWindow:    getEnvDuration("RATE_LIMIT_WINDOW", 10*time.Minute),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.InquiryLimit <= 0 {
		return fmt.Errorf("INQUIRY_RATE_LIMIT must be positive, got %d", c.InquiryLimit)
	}
	if c.NewsletterLimit <= 0 {
		return fmt.Errorf("NEWSLETTER_RATE_LIMIT must be positive, got %d", c.NewsletterLimit)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
	}
	if c.GeoTimeout <= 0 {
		return fmt.Errorf("GEO_TIMEOUT must be positive, got %s", c.GeoTimeout)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
