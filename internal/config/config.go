package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// one signing secret per role: user tokens must never verify against the
	// admin secret and vice versa
	UserJWTSecret  string
	AdminJWTSecret string
	TokenTTLHours  int

	CatalogCacheTTLSeconds int

	CORSAllowedOrigins []string

	MaxBodyBytes int64

	RateLimitAuth   int
	RateLimitAPI    int
	RateLimitWindow time.Duration

	OTLPEndpoint string
}

func Load() Config {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	return Config{
		Env:   getEnv("APP_ENV", "dev"),
		Port:  getEnvInt("PORT", 8080),
		DBURL: buildDBURL(),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		UserJWTSecret:  getEnv("JWT_USER_SECRET", "dev-user-secret"),
		AdminJWTSecret: getEnv("JWT_ADMIN_SECRET", "dev-admin-secret"),
		TokenTTLHours:  getEnvInt("JWT_TTL_HOURS", 24),

		CatalogCacheTTLSeconds: getEnvInt("CATALOG_CACHE_TTL_SECONDS", 30),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		RateLimitAuth:   getEnvInt("RATE_LIMIT_AUTH", 10),
		RateLimitAPI:    getEnvInt("RATE_LIMIT_API", 100),
		RateLimitWindow: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "coursehub")
	pass := getEnv("DB_PASSWORD", "coursehub")
	name := getEnv("DB_NAME", "coursehub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")

	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)

		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
