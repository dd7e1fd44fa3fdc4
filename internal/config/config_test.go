package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Auth.TokenLifetime != 24*time.Hour {
		t.Fatalf("default token lifetime: got %v want 24h", cfg.Auth.TokenLifetime)
	}
	if cfg.Postgres.MinConns != 1 || cfg.Postgres.MaxConns != 10 {
		t.Fatalf("default pool bounds: got %d/%d want 1/10", cfg.Postgres.MinConns, cfg.Postgres.MaxConns)
	}
	if cfg.Postgres.OpTimeout() != 5*time.Second {
		t.Fatalf("default op timeout: got %v want 5s", cfg.Postgres.OpTimeout())
	}
}

func TestLoadTokenLifetimeFromEnv(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "90m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Auth.TokenLifetime != 90*time.Minute {
		t.Fatalf("token lifetime: got %v want 90m", cfg.Auth.TokenLifetime)
	}
}

func TestLoadInvalidTokenLifetime(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "1 day")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparseable JWT_EXPIRES_IN")
	}
}
