package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Result modes select how generated images are surfaced to callers.
const (
	ResultModeDisk   = "disk"
	ResultModeInline = "inline"
	ResultModeS3     = "s3"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	LogLevel           string
	Port               string
	GeminiAPIKey       string
	GeminiModel        string
	GeminiBaseURL      string
	PublicDir          string
	GeneratedDir       string
	GeneratedURLPrefix string
	ResultMode         string
	CORSAllowedOrigins []string
	MaxBodyBytes       int64
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	S3                 S3Config
}

// S3Config holds the bucket settings used when ResultMode is "s3".
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	KeyPrefix     string
	PublicBaseURL string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		Port:               getEnv("PORT", "3000"),
		GeminiAPIKey:       strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash-image-preview"),
		GeminiBaseURL:      os.Getenv("GEMINI_BASE_URL"),
		PublicDir:          getEnv("PUBLIC_DIR", "public"),
		GeneratedDir:       getEnv("GENERATED_DIR", "public/generated"),
		GeneratedURLPrefix: "/" + strings.Trim(getEnv("GENERATED_URL_PREFIX", "/generated"), "/"),
		ResultMode:         strings.ToLower(getEnv("RESULT_MODE", ResultModeDisk)),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 50<<20)),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		S3: S3Config{
			Bucket:        os.Getenv("S3_BUCKET"),
			Region:        getEnv("S3_REGION", "us-east-1"),
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			AccessKey:     os.Getenv("S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("S3_SECRET_KEY"),
			KeyPrefix:     getEnv("S3_KEY_PREFIX", "generated"),
			PublicBaseURL: strings.TrimRight(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),
		},
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	switch cfg.ResultMode {
	case ResultModeDisk, ResultModeInline:
	case ResultModeS3:
		if cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required when RESULT_MODE=s3")
		}
		if cfg.S3.PublicBaseURL == "" {
			return nil, fmt.Errorf("S3_PUBLIC_BASE_URL is required when RESULT_MODE=s3")
		}
	default:
		return nil, fmt.Errorf("unsupported RESULT_MODE: %s", cfg.ResultMode)
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
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
