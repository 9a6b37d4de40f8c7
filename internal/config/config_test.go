package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MaxImages != 6 {
		t.Errorf("MaxImages = %d, want 6", cfg.MaxImages)
	}
	if cfg.MaxWidth != 1400 {
		t.Errorf("MaxWidth = %d, want 1400", cfg.MaxWidth)
	}
	if cfg.JPEGQuality != 85 {
		t.Errorf("JPEGQuality = %d, want 85", cfg.JPEGQuality)
	}
	if got := cfg.MaxFileBytes(); got != 10*1024*1024 {
		t.Errorf("MaxFileBytes = %d, want 10 MB", got)
	}
	if got := cfg.DraftDebounce(); got != 800*time.Millisecond {
		t.Errorf("DraftDebounce = %v", got)
	}
	if got := cfg.Transition(); got != 150*time.Millisecond {
		t.Errorf("Transition = %v", got)
	}
	if got := cfg.CloseReset(); got != 300*time.Millisecond {
		t.Errorf("CloseReset = %v", got)
	}
	if got := cfg.HintDuration(); got != 3*time.Second {
		t.Errorf("HintDuration = %v", got)
	}
	if cfg.APIBaseURL != "http://localhost:5000" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DABERLI_MAX_IMAGES", "4")
	t.Setenv("DABERLI_API_BASE_URL", "https://api.daberli.dz")
	t.Setenv("DABERLI_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxImages != 4 {
		t.Errorf("MaxImages = %d, want env override 4", cfg.MaxImages)
	}
	if cfg.APIBaseURL != "https://api.daberli.dz" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}
