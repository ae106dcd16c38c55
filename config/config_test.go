package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/hoops")
	t.Setenv("GATEWAY_TOKEN", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerPort != DefaultServerPort {
		t.Errorf("expected port %d, got %d", DefaultServerPort, cfg.ServerPort)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("expected postgres driver, got %q", cfg.DBDriver)
	}
	if cfg.MaxUploadBytes != DefaultMaxUploadBytes {
		t.Errorf("expected max upload %d, got %d", DefaultMaxUploadBytes, cfg.MaxUploadBytes)
	}
	if cfg.DefaultTeamLogoURL != DefaultTeamLogoURL {
		t.Errorf("unexpected team logo default %q", cfg.DefaultTeamLogoURL)
	}
	if cfg.DefaultPlayerPhotoURL != DefaultPlayerPhotoURL {
		t.Errorf("unexpected player photo default %q", cfg.DefaultPlayerPhotoURL)
	}
	if cfg.OrphanSweepInterval != DefaultOrphanSweepInterval {
		t.Errorf("unexpected sweep interval %s", cfg.OrphanSweepInterval)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.StoreConfigured() {
		t.Error("store should not be configured without credentials")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GATEWAY_TOKEN", "secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/hoops")
	t.Setenv("GATEWAY_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when GATEWAY_TOKEN is missing")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , https://b.example ,")
	t.Setenv("NEWS_PUBLISH_INTERVAL", "30s")
	t.Setenv("DEFAULT_TEAM_LOGO_URL", "https://cdn.example/team.png")
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "acct")
	t.Setenv("R2_ACCESS_KEY_ID", "id")
	t.Setenv("R2_ACCESS_KEY_SECRET", "secret")
	t.Setenv("R2_BUCKET_NAME", "hoops")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerPort != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.ServerPort)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("expected sqlite driver, got %q", cfg.DBDriver)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.NewsPublishInterval != 30*time.Second {
		t.Errorf("expected 30s, got %s", cfg.NewsPublishInterval)
	}
	if cfg.DefaultTeamLogoURL != "https://cdn.example/team.png" {
		t.Errorf("override ignored: %q", cfg.DefaultTeamLogoURL)
	}
	if !cfg.StoreConfigured() {
		t.Error("expected store to be configured")
	}
	if cfg.R2.PublicBaseURL != "https://acct.r2.cloudflarestorage.com/hoops" {
		t.Errorf("unexpected derived public url %q", cfg.R2.PublicBaseURL)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"SERVER_PORT":           "70000",
		"DB_DRIVER":             "mysql",
		"MAX_UPLOAD_BYTES":      "-1",
		"ORPHAN_SWEEP_INTERVAL": "soon",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}
