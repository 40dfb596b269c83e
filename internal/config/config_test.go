package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/pitchsync?sslmode=disable")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("unexpected app env: %s", cfg.AppEnv)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("unexpected http port: %d", cfg.HTTPPort)
	}
	if cfg.League != "Premier League" {
		t.Fatalf("unexpected league: %s", cfg.League)
	}
	if cfg.DefaultSeason != "2024" {
		t.Fatalf("unexpected default season: %s", cfg.DefaultSeason)
	}
	if cfg.RequestSpacing != 6*time.Second {
		t.Fatalf("unexpected request spacing: %s", cfg.RequestSpacing)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestLoadValidatesPairedFlags(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/pitchsync?sslmode=disable")
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when UPTRACE_ENABLED is set without a DSN")
	}
}

func TestProviderCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/pitchsync?sslmode=disable")
	t.Setenv("FOOTBALLDATA_API_TOKEN", "token-a")
	t.Setenv("APIFOOTBALL_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	creds := cfg.ProviderCredentials()
	if creds["football-data"] != "token-a" {
		t.Fatalf("unexpected football-data credential: %q", creds["football-data"])
	}
	if creds["api-football"] != "" {
		t.Fatalf("expected empty api-football credential, got %q", creds["api-football"])
	}
}
