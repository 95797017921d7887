package config

import (
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	// getEnv treats empty as unset, so blanking the keys shields the
	// test from the ambient process environment.
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "BCRYPT_COST", "ALLOWED_ORIGINS",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
	if len(cfg.AllowedOrigins) == 0 {
		t.Error("AllowedOrigins should have a default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoad_InvalidBcryptCost(t *testing.T) {
	clearEnv(t)
	t.Setenv("BCRYPT_COST", "99")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject an out-of-range bcrypt cost")
	}
}

func TestLoad_ProductionRequiresDBPassword(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	if _, err := Load(); err == nil {
		t.Error("Load() should require DB_PASSWORD in production")
	}
}
