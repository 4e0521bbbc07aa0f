package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "MONGODB_URI", "MONGODB_DATABASE", "REDIS_ADDR", "LOG_MODE", "CACHE_TTL_MINUTES", "TREND_WINDOW_DAYS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, "")
	}
	if cfg.MongoDatabase != "mindbloom" {
		t.Errorf("MongoDatabase = %q, want %q", cfg.MongoDatabase, "mindbloom")
	}
	if cfg.LogMode != "dev" {
		t.Errorf("LogMode = %q, want %q", cfg.LogMode, "dev")
	}
	if cfg.CacheTTLMinutes != 60 {
		t.Errorf("CacheTTLMinutes = %d, want %d", cfg.CacheTTLMinutes, 60)
	}
	if cfg.TrendWindowDays != 30 {
		t.Errorf("TrendWindowDays = %d, want %d", cfg.TrendWindowDays, 30)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("DATABASE_URL", "postgres://localhost/mindbloom")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "mb_test")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOG_MODE", "prod")
	t.Setenv("CACHE_TTL_MINUTES", "15")
	t.Setenv("TREND_WINDOW_DAYS", "7")

	cfg := Load()

	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "3000")
	}
	if cfg.DatabaseURL != "postgres://localhost/mindbloom" {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, "postgres://localhost/mindbloom")
	}
	if cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
	if cfg.MongoDatabase != "mb_test" {
		t.Errorf("MongoDatabase = %q, want %q", cfg.MongoDatabase, "mb_test")
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.LogMode != "prod" {
		t.Errorf("LogMode = %q, want %q", cfg.LogMode, "prod")
	}
	if cfg.CacheTTLMinutes != 15 {
		t.Errorf("CacheTTLMinutes = %d, want %d", cfg.CacheTTLMinutes, 15)
	}
	if cfg.TrendWindowDays != 7 {
		t.Errorf("TrendWindowDays = %d, want %d", cfg.TrendWindowDays, 7)
	}
}

func TestLoad_InvalidIntegers(t *testing.T) {
	t.Setenv("CACHE_TTL_MINUTES", "abc")
	t.Setenv("TREND_WINDOW_DAYS", "-3")

	cfg := Load()

	if cfg.CacheTTLMinutes != 60 {
		t.Errorf("CacheTTLMinutes = %d, want %d (fallback)", cfg.CacheTTLMinutes, 60)
	}
	if cfg.TrendWindowDays != 30 {
		t.Errorf("TrendWindowDays = %d, want %d (fallback)", cfg.TrendWindowDays, 30)
	}
}
