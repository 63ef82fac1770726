package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string
	FrontendURL    string

	DBHost string
	DBUser string
	DBPass string
	DBName string
	DBPort string

	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	MediaFolder         string

	JWTSecret string
	JWTTTL    time.Duration

	RazorpayKey     string
	RazorpaySecret  string
	RazorpayBaseURL string

	MailDriver     string
	MailHost       string
	MailPort       int
	MailUser       string
	MailPass       string
	MailFrom       string
	MailFromName   string
	SendgridAPIKey string

	GeminiAPIKey string
	GeminiModel  string
	AIRateLimit  time.Duration

	OTPTTL          time.Duration
	ResetTokenTTL   time.Duration
	CleanupSchedule string
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "4000"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		FrontendURL:    strings.TrimSuffix(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBUser: getEnv("DB_USER", "postgres"),
		DBPass: os.Getenv("DB_PASS"),
		DBName: getEnv("DB_NAME", "eduelevate"),
		DBPort: getEnv("DB_PORT", "5432"),

		RedisURL: os.Getenv("REDIS_URL"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		MediaFolder:         getEnv("FOLDER_NAME", "eduelevate"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RazorpayKey:     os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret:  os.Getenv("RAZORPAY_SECRET"),
		RazorpayBaseURL: getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),

		MailDriver:     getEnv("MAIL_DRIVER", "console"),
		MailHost:       os.Getenv("MAIL_HOST"),
		MailUser:       os.Getenv("MAIL_USER"),
		MailPass:       os.Getenv("MAIL_PASS"),
		MailFrom:       getEnv("MAIL_FROM", "noreply@eduelevate.com"),
		MailFromName:   getEnv("MAIL_FROM_NAME", "EduElevate"),
		SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		CleanupSchedule: getEnv("CLEANUP_SCHEDULE", "@every 10m"),
	}

	if cfg.JWTSecret == "" {
		if cfg.AppEnv == "production" {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "change-me"
	}

	var err error
	cfg.MailPort, err = strconv.Atoi(getEnv("MAIL_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAIL_PORT: %w", err)
	}

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"JWT_TTL", "720h", &cfg.JWTTTL},
		{"AI_RATE_LIMIT", "3s", &cfg.AIRateLimit},
		{"OTP_TTL", "5m", &cfg.OTPTTL},
		{"RESET_TOKEN_TTL", "5m", &cfg.ResetTokenTTL},
	}
	for _, d := range durations {
		*d.dst, err = parseDuration(getEnv(d.key, d.fallback))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
