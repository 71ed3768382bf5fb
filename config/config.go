package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUrl       string
	LogLevel    string
	Timezone    string
	FrontendURL string
	// Extra CORS origins besides FrontendURL
	AllowedOrigins []string
	AdminLoginURL  string
	// Attachment storage: s3, supabase or local
	StorageProvider    string
	S3Provider         string // aws or wasabi
	S3AccessKeyID      string
	S3SecretAccessKey  string
	S3Region           string
	S3Bucket           string
	S3Endpoint         string
	SupabaseURL        string
	SupabaseServiceKey string
	LocalStoragePath   string
	PublicFilesBaseURL string
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitSubmitThreshold int
	RateLimitLoginThreshold  int
	RateLimitGlobalThreshold int
	// Reviewer authentication
	ReviewerUsername     string
	ReviewerPasswordHash string
	ReviewerJWTSecret    string
	ReviewerTokenTTL     time.Duration
	ReviewerJWKSURL      string
	CookieSecure         bool
	LoginMaxAttempts     int
	LoginAttemptWindow   time.Duration
	LoginBlockDuration   time.Duration
	// SMTP Configuration
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFrom      string
	NotifyEmailTo string
	// Attachment processing
	ClamAVAddress     string
	ClamAVTimeout     time.Duration
	ImageMaxDimension int
	ImageQuality      int
}

func LoadConfig() (*Config, error) {
	// Load .env file (only effective locally, ignored in production when missing)
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DBUrl:          getEnv("DATABASE_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", ""),
		FrontendURL:    strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS"),
		AdminLoginURL:  getEnv("ADMIN_LOGIN_URL", "/admin/login"),
		// Storage
		StorageProvider:    strings.ToLower(getEnv("STORAGE_PROVIDER", "local")),
		S3Provider:         strings.ToLower(getEnv("S3_PROVIDER", "aws")),
		S3AccessKeyID:      getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:  getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:           getEnv("S3_REGION", "us-east-1"),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		SupabaseURL:        strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		LocalStoragePath:   getEnv("LOCAL_STORAGE_PATH", "./uploads"),
		PublicFilesBaseURL: strings.TrimRight(getEnv("PUBLIC_FILES_BASE_URL", ""), "/"),
		// Redis
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration (with sensible defaults)
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),    // 1 minute window
		RateLimitSubmitThreshold: getEnvInt("RATE_LIMIT_SUBMIT_THRESHOLD", 5),   // 5 submissions per window
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),   // 10 login attempts per window
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 300), // 300 requests per window
		// Reviewer auth
		ReviewerUsername:     getEnv("REVIEWER_USERNAME", "admin"),
		ReviewerPasswordHash: getEnv("REVIEWER_PASSWORD_HASH", ""),
		ReviewerJWTSecret:    getEnv("REVIEWER_JWT_SECRET", ""),
		ReviewerTokenTTL:     getEnvDuration("REVIEWER_TOKEN_TTL", 12*time.Hour),
		ReviewerJWKSURL:      getEnv("REVIEWER_JWKS_URL", ""),
		CookieSecure:         getEnvBool("COOKIE_SECURE", true),
		LoginMaxAttempts:     getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginAttemptWindow:   getEnvDuration("LOGIN_ATTEMPT_WINDOW", 15*time.Minute),
		LoginBlockDuration:   getEnvDuration("LOGIN_BLOCK_DURATION", 15*time.Minute),
		// SMTP
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:      getEnv("SMTP_FROM_EMAIL", ""),
		NotifyEmailTo: getEnv("NOTIFY_EMAIL_TO", ""),
		// Attachment processing
		ClamAVAddress:     getEnv("CLAMAV_ADDRESS", ""),
		ClamAVTimeout:     getEnvDuration("CLAMAV_TIMEOUT", 30*time.Second),
		ImageMaxDimension: getEnvInt("IMAGE_MAX_DIMENSION", 1600),
		ImageQuality:      getEnvInt("IMAGE_QUALITY", 82),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	if cfg.ReviewerJWTSecret == "" && cfg.ReviewerJWKSURL == "" {
		log.Println("WARNING: neither REVIEWER_JWT_SECRET nor REVIEWER_JWKS_URL is set. Review surface will reject every request.")
	}

	return cfg, nil
}

// Location returns the zone used for "today" on the dashboard
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("WARNING: invalid APP_TIMEZONE %q, using server local zone", c.Timezone)
		return time.Local
	}
	return loc
}

// CORSOrigins is FrontendURL followed by ALLOWED_ORIGINS
func (c *Config) CORSOrigins() []string {
	origins := make([]string, 0, len(c.AllowedOrigins)+1)
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	return append(origins, c.AllowedOrigins...)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("12h") or plain seconds
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimRight(strings.TrimSpace(part), "/"); part != "" {
			out = append(out, part)
		}
	}
	return out
}
