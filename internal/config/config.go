package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseDSN   string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	AdminEmail string

	AllowedOrigins []string
}

// Load reads .env if present and collects all settings from the
// environment. Missing required values are caught at the call sites
// that open the corresponding handles.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:          getenv("PORT", "5000"),
		DatabaseDSN:   os.Getenv("DATABASE_DSN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SMTPHost:      os.Getenv("EMAIL_HOST"),
		SMTPPort:      getenvInt("EMAIL_PORT", 587),
		SMTPUser:      os.Getenv("EMAIL_USER"),
		SMTPPass:      os.Getenv("EMAIL_PASS"),
		FromEmail:     getenv("FROM_EMAIL", os.Getenv("EMAIL_USER")),
	}
	cfg.AdminEmail = getenv("ADMIN_EMAIL", cfg.SMTPUser)

	origins := getenv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
