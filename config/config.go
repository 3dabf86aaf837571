package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string

	QRSecret      string
	QRIssuer      string
	QRMaxAttempts uint

	EmailProvider    string
	EmailFromAddress string
	EmailFromName    string
	AWSRegion        string
	AWSAccessKeyID   string
	AWSSecretKey     string

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int

	OTLPEndpoint string
	ServiceName  string
}

// IsProduction reports whether GO_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Outside production a missing .env is fine; system environment variables still apply.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:        env,
		Port:               getEnv("PORT", "8080"),
		QRSecret:           os.Getenv("QR_SECRET"),
		QRIssuer:           getEnv("QR_ISSUER", "cba"),
		EmailProvider:      strings.ToLower(getEnv("EMAIL_PROVIDER", "noop")),
		EmailFromAddress:   os.Getenv("EMAIL_FROM_ADDRESS"),
		EmailFromName:      os.Getenv("EMAIL_FROM_NAME"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:       os.Getenv("AWS_SECRET_ACCESS_KEY"),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		OTLPEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:        getEnv("OTEL_SERVICE_NAME", "memberadmission"),
	}

	attempts, err := getUint("QR_MAX_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	cfg.QRMaxAttempts = attempts

	rps, err := getFloat("RATE_LIMIT_RPS", 0)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitRPS = rps

	burst, err := getUint("RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitBurst = int(burst)

	if cfg.QRSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("QR_SECRET is required in production")
		}
		// Tokens signed with this key do not survive a restart with a different secret.
		cfg.QRSecret = "development-only-qr-secret"
	}
	if cfg.QRMaxAttempts == 0 {
		return nil, fmt.Errorf("QR_MAX_ATTEMPTS must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getUint(key string, fallback uint) (uint, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return uint(v), nil
}

func getFloat(key string, fallback float64) (float64, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
