package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	LogMode         string
	CacheTTLMinutes int
	TrendWindowDays int
}

func Load() Config {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MongoURI:        os.Getenv("MONGODB_URI"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "mindbloom"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		LogMode:         getEnv("LOG_MODE", "dev"),
		CacheTTLMinutes: getEnvInt("CACHE_TTL_MINUTES", 60),
		TrendWindowDays: getEnvInt("TREND_WINDOW_DAYS", 30),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt ignores non-numeric and non-positive values.
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}
