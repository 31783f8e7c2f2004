package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	AuthModeHS256 = "hs256"
	AuthModeJWKS  = "jwks"

	QuotaBackendPostgres = "postgres"
	QuotaBackendRedis    = "redis"
	QuotaBackendMemory   = "memory"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	GeoIPDBPath string

	AuthMode    string
	JWTSecret   string
	JWKSURL     string
	AuthIssuer  string
	CORSOrigins []string

	QuotaBackend string
	RedisURL     string

	TextGenAPIKey  string
	TextGenBaseURL string
	TextGenModel   string

	ClipdropAPIKey  string
	ClipdropBaseURL string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryBaseURL   string

	UpstreamTimeout  time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "3000"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		GeoIPDBPath:         os.Getenv("GEOIP_DB_PATH"),
		AuthMode:            strings.ToLower(getEnv("AUTH_MODE", AuthModeHS256)),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWKSURL:             os.Getenv("AUTH_JWKS_URL"),
		AuthIssuer:          os.Getenv("AUTH_ISSUER"),
		CORSOrigins:         splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		QuotaBackend:        strings.ToLower(getEnv("QUOTA_BACKEND", QuotaBackendPostgres)),
		RedisURL:            os.Getenv("REDIS_URL"),
		TextGenAPIKey:       getEnv("TEXTGEN_API_KEY", os.Getenv("HF_TOKEN")),
		TextGenBaseURL:      getEnv("TEXTGEN_BASE_URL", "https://router.huggingface.co/v1"),
		TextGenModel:        getEnv("TEXTGEN_MODEL", "meta-llama/Llama-3.2-1B-Instruct:novita"),
		ClipdropAPIKey:      os.Getenv("CLIPDROP_API_KEY"),
		ClipdropBaseURL:     getEnv("CLIPDROP_BASE_URL", "https://clipdrop-api.co"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryBaseURL:   getEnv("CLOUDINARY_BASE_URL", "https://api.cloudinary.com/v1_1"),
		UpstreamTimeout:     time.Second * time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 60)),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:     getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	switch cfg.AuthMode {
	case AuthModeHS256:
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required when AUTH_MODE=%s", AuthModeHS256)
		}
	case AuthModeJWKS:
		if cfg.JWKSURL == "" {
			return nil, fmt.Errorf("AUTH_JWKS_URL is required when AUTH_MODE=%s", AuthModeJWKS)
		}
	default:
		return nil, fmt.Errorf("unsupported AUTH_MODE %q", cfg.AuthMode)
	}

	switch cfg.QuotaBackend {
	case QuotaBackendPostgres, QuotaBackendMemory:
	case QuotaBackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when QUOTA_BACKEND=%s", QuotaBackendRedis)
		}
	default:
		return nil, fmt.Errorf("unsupported QUOTA_BACKEND %q", cfg.QuotaBackend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
