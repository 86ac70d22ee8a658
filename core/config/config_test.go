package config

import "testing"

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "t", RootAdminID: 1},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
	if cfg.RateLimit.WindowSeconds != 10 || cfg.RateLimit.Threshold != 5 {
		t.Fatalf("rate limit defaults = %d/%d, want 10/5",
			cfg.RateLimit.WindowSeconds, cfg.RateLimit.Threshold)
	}
	if cfg.RateLimit.BlockSeconds != cfg.RateLimit.WindowSeconds {
		t.Fatalf("block_seconds = %d, want window %d",
			cfg.RateLimit.BlockSeconds, cfg.RateLimit.WindowSeconds)
	}
	if cfg.Backup.IntervalHours != 24 {
		t.Fatalf("backup interval = %d, want 24", cfg.Backup.IntervalHours)
	}
}

// Button presses are exempt from rate limiting out of the box; a config
// that omits the key must behave exactly like one listing [callback].
func TestNormalizeDefaultsCallbackExclusion(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(cfg.RateLimit.ExcludeUpdates) != 1 || cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback {
		t.Fatalf("exclude_updates = %v, want [%s]", cfg.RateLimit.ExcludeUpdates, UpdateCallback)
	}
}

func TestNormalizeKeepsExplicitExclusions(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Message "}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(cfg.RateLimit.ExcludeUpdates) != 1 || cfg.RateLimit.ExcludeUpdates[0] != UpdateMessage {
		t.Fatalf("exclude_updates = %v, want [%s]", cfg.RateLimit.ExcludeUpdates, UpdateMessage)
	}
}

func TestNormalizeRejectsUnknownExclusion(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("unknown exclude_updates value must be rejected")
	}
}
