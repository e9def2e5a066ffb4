package main

import (
	"testing"
	"time"
)

func TestLoadConfigEnvDefaultsAndFlagOverrides(t *testing.T) {
	t.Setenv("CRAFTSIM_CONFIGS", "/etc/craftsim")
	t.Setenv("CRAFTSIM_WORKERS", "8")
	t.Setenv("CRAFTSIM_INDEX", "/var/lib/craftsim/index.db")

	cfg, err := loadConfig([]string{"-workers", "2", "a.yaml", "b.json"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ConfigDir != "/etc/craftsim" {
		t.Fatalf("ConfigDir=%q", cfg.ConfigDir)
	}
	if cfg.Workers != 2 {
		t.Fatalf("flag should win over env, Workers=%d", cfg.Workers)
	}
	if cfg.IndexPath != "/var/lib/craftsim/index.db" {
		t.Fatalf("IndexPath=%q", cfg.IndexPath)
	}
	if len(cfg.Files) != 2 || cfg.Files[1] != "b.json" {
		t.Fatalf("Files=%v", cfg.Files)
	}
	if cfg.LogPeriod != time.Hour {
		t.Fatalf("LogPeriod=%s want 1h default", cfg.LogPeriod)
	}
}

func TestLoadConfigLogPeriod(t *testing.T) {
	t.Setenv("CRAFTSIM_LOG_PERIOD", "30m")
	cfg, err := loadConfig(nil)
	if err != nil || cfg.LogPeriod != 30*time.Minute {
		t.Fatalf("env: LogPeriod=%s err=%v", cfg.LogPeriod, err)
	}
	cfg, err = loadConfig([]string{"-log_period", "6h"})
	if err != nil || cfg.LogPeriod != 6*time.Hour {
		t.Fatalf("flag: LogPeriod=%s err=%v", cfg.LogPeriod, err)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("CRAFTSIM_INDEX", "")
	cases := [][]string{
		{"-workers", "-1"},
		{"-runs", "-3"},
		{"-best", "basic-15"},
	}
	for _, args := range cases {
		if _, err := loadConfig(args); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}

	t.Setenv("CRAFTSIM_WORKERS", "many")
	if _, err := loadConfig(nil); err == nil {
		t.Fatalf("expected env parse error")
	}
}
