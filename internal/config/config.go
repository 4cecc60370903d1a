package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string
	HTTPPort string
	LogLevel string

	DatabaseURL string
	RedisURL    string

	JWTIssuer            string
	JWTAudience          string
	SessionSecret        string
	EmailTokenSecret     string
	StateSigningSecret   string
	SessionTTL           time.Duration
	VerificationTokenTTL time.Duration
	ResetTokenTTL        time.Duration

	CookieDomain   string
	CookieSecure   bool
	CookieSameSite string

	PublicBaseURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	GithubClientID     string
	GithubClientSecret string
	GithubRedirectURL  string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	AuthRateLimitPerMin int
	APIRateLimitPerMin  int
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisURL:            os.Getenv("REDIS_URL"),
		JWTIssuer:           getEnv("JWT_ISSUER", "dump-pad"),
		JWTAudience:         getEnv("JWT_AUDIENCE", "dump-pad-api"),
		SessionSecret:       os.Getenv("SESSION_SECRET"),
		EmailTokenSecret:    os.Getenv("EMAIL_TOKEN_SECRET"),
		StateSigningSecret:  os.Getenv("OAUTH_STATE_SECRET"),
		CookieDomain:        os.Getenv("COOKIE_DOMAIN"),
		CookieSecure:        getEnvBool("COOKIE_SECURE", true),
		CookieSameSite:      strings.ToLower(getEnv("COOKIE_SAMESITE", "lax")),
		PublicBaseURL:       strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            getEnvInt("SMTP_PORT", 587),
		SMTPUsername:        os.Getenv("SMTP_USERNAME"),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:            os.Getenv("SMTP_FROM"),
		GoogleClientID:      os.Getenv("GOOGLE_OAUTH_CLIENT_ID"),
		GoogleClientSecret:  os.Getenv("GOOGLE_OAUTH_CLIENT_SECRET"),
		GoogleRedirectURL:   getEnv("GOOGLE_OAUTH_REDIRECT_URL", "http://localhost:8080/api/auth/oauth/google/callback"),
		GithubClientID:      os.Getenv("GITHUB_OAUTH_CLIENT_ID"),
		GithubClientSecret:  os.Getenv("GITHUB_OAUTH_CLIENT_SECRET"),
		GithubRedirectURL:   getEnv("GITHUB_OAUTH_REDIRECT_URL", "http://localhost:8080/api/auth/oauth/github/callback"),
		MinioEndpoint:       os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:      os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:      os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:         getEnv("MINIO_BUCKET", "dump-pad-avatars"),
		MinioUseSSL:         getEnvBool("MINIO_USE_SSL", false),
		AuthRateLimitPerMin: getEnvInt("AUTH_RATE_LIMIT_PER_MIN", 30),
		APIRateLimitPerMin:  getEnvInt("API_RATE_LIMIT_PER_MIN", 120),
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "720h"))
	if err != nil {
		return nil, fmt.Errorf("parse SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = sessionTTL

	verifyTTL, err := time.ParseDuration(getEnv("VERIFICATION_TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("parse VERIFICATION_TOKEN_TTL: %w", err)
	}
	cfg.VerificationTokenTTL = verifyTTL

	resetTTL, err := time.ParseDuration(getEnv("RESET_TOKEN_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("parse RESET_TOKEN_TTL: %w", err)
	}
	cfg.ResetTokenTTL = resetTTL

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if len(c.SessionSecret) < 32 {
		errs = append(errs, "SESSION_SECRET must be at least 32 chars")
	}
	if len(c.EmailTokenSecret) < 32 {
		errs = append(errs, "EMAIL_TOKEN_SECRET must be at least 32 chars")
	}
	if c.SessionSecret != "" && c.SessionSecret == c.EmailTokenSecret {
		errs = append(errs, "SESSION_SECRET and EMAIL_TOKEN_SECRET must differ")
	}
	if len(c.StateSigningSecret) < 16 {
		errs = append(errs, "OAUTH_STATE_SECRET must be at least 16 chars")
	}
	if c.SessionTTL <= 0 || c.SessionTTL > 90*24*time.Hour {
		errs = append(errs, "SESSION_TTL must be between 1s and 90d")
	}
	if c.VerificationTokenTTL <= 0 || c.VerificationTokenTTL > 7*24*time.Hour {
		errs = append(errs, "VERIFICATION_TOKEN_TTL must be between 1s and 7d")
	}
	if c.ResetTokenTTL <= 0 || c.ResetTokenTTL > 24*time.Hour {
		errs = append(errs, "RESET_TOKEN_TTL must be between 1s and 24h")
	}
	if c.Env == "production" && c.SMTPHost == "" {
		errs = append(errs, "SMTP_HOST is required in production")
	}
	if c.SMTPHost != "" && c.SMTPFrom == "" {
		errs = append(errs, "SMTP_FROM is required when SMTP_HOST is set")
	}
	if c.AuthRateLimitPerMin <= 0 {
		errs = append(errs, "AUTH_RATE_LIMIT_PER_MIN must be > 0")
	}
	if c.APIRateLimitPerMin <= 0 {
		errs = append(errs, "API_RATE_LIMIT_PER_MIN must be > 0")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
