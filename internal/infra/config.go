package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultCORSOrigins lists the front-end origins allowed when CORS_ALLOWED_ORIGINS is unset.
var DefaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppName          string
	AppEnv           string
	Port             string
	DatabaseURL      string
	AutoMigrate      bool
	JWTSecret        string
	TokenTTL         time.Duration
	LiteMode         bool
	StorageDir       string
	S3Bucket         string
	S3Region         string
	S3Endpoint       string
	S3PathStyle      bool
	S3PublicURL      string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CacheTTL         time.Duration
	ImageAPIURL      string
	TTSAPIURL        string
	FFmpegPath       string
	BGMPath          string
	GeoIPDBPath      string
	CORSOrigins      []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	SnapshotCron     string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppName:          getEnv("APP_NAME", "DreamVisualizer AI Backend"),
		AppEnv:           getEnv("APP_ENV", getEnv("ENVIRONMENT", "development")),
		Port:             getEnv("PORT", "8000"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		AutoMigrate:      getEnvBool("AUTO_MIGRATE", false),
		JWTSecret:        os.Getenv("JWT_SECRET_KEY"),
		TokenTTL:         time.Minute * time.Duration(getEnvInt("JWT_ACCESS_TOKEN_EXPIRE_MINUTES", 60)),
		LiteMode:         getEnvBool("LITE_MODE", false),
		StorageDir:       getEnv("STORAGE_DIR", "./data"),
		S3Bucket:         os.Getenv("ARTIFACT_S3_BUCKET"),
		S3Region:         getEnv("ARTIFACT_S3_REGION", "us-east-1"),
		S3Endpoint:       os.Getenv("ARTIFACT_S3_ENDPOINT"),
		S3PathStyle:      getEnvBool("ARTIFACT_S3_PATH_STYLE", false),
		S3PublicURL:      os.Getenv("ARTIFACT_S3_PUBLIC_URL"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		CacheTTL:         getEnvDuration("CACHE_TTL", 24*time.Hour),
		ImageAPIURL:      os.Getenv("IMAGE_API_URL"),
		TTSAPIURL:        os.Getenv("TTS_API_URL"),
		FFmpegPath:       getEnv("FFMPEG_PATH", "ffmpeg"),
		BGMPath:          os.Getenv("BGM_PATH"),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		CORSOrigins:      getEnvList("CORS_ALLOWED_ORIGINS", DefaultCORSOrigins),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		SnapshotCron:     getEnv("SNAPSHOT_CRON", "0 1 * * *"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is required")
	}

	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("JWT_ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
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

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return strings.EqualFold(strings.TrimSpace(v), "true") || strings.TrimSpace(v) == "1"
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
