package main

import (
	"testing"
	"time"
)

func TestParseSizes(t *testing.T) {
	got, err := parseSizes(" 2, 4 ,6")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != 2 || got[2] != 6 {
		t.Fatalf("unexpected sizes %v", got)
	}
	for _, bad := range []string{"", "3", "0", "two", "2,-4", "66"} {
		if _, err := parseSizes(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("GAME_TTL_HOURS", "2")
	t.Setenv("GRID_SIZES", "4")
	t.Setenv("NODE_ENV", "production")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9999" || cfg.StoreBackend != "redis" || cfg.GameTTL != 2*time.Hour || !cfg.Production {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(cfg.GridSizes) != 1 || cfg.GridSizes[0] != 4 {
		t.Fatalf("unexpected sizes %v", cfg.GridSizes)
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "cassandra")
	if _, err := loadConfig(); err == nil {
		t.Fatal("expected error")
	}
}
