package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Memory.ContextMaxTokens != 3000 {
		t.Errorf("expected ceiling 3000, got %d", cfg.Memory.ContextMaxTokens)
	}
	if cfg.Plan.TopNToday != 6 || cfg.Plan.TopNNext != 8 {
		t.Errorf("unexpected top-N defaults: %d/%d", cfg.Plan.TopNToday, cfg.Plan.TopNNext)
	}
	if cfg.Plan.WeightUrgency != 4.0 {
		t.Errorf("expected urgency weight 4.0, got %v", cfg.Plan.WeightUrgency)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "daybrief.yaml")
	yaml := `
memory:
  hot_turns_limit: 3
plan:
  top_n_today: 2
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Memory.HotTurnsLimit != 3 {
		t.Errorf("expected hot turns 3, got %d", cfg.Memory.HotTurnsLimit)
	}
	if cfg.Plan.TopNToday != 2 {
		t.Errorf("expected top_n_today 2, got %d", cfg.Plan.TopNToday)
	}
	// Untouched keys keep defaults.
	if cfg.Memory.ContextMaxTokens != 3000 {
		t.Errorf("expected default ceiling kept, got %d", cfg.Memory.ContextMaxTokens)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("MEMORY_HOT_TURNS_LIMIT", "5")
	t.Setenv("PLAN_WEIGHT_STALENESS", "2.5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Memory.HotTurnsLimit != 5 {
		t.Errorf("expected env hot turns 5, got %d", cfg.Memory.HotTurnsLimit)
	}
	if cfg.Plan.WeightStaleness != 2.5 {
		t.Errorf("expected env staleness 2.5, got %v", cfg.Plan.WeightStaleness)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Memory.RetentionDays != 30 {
		t.Errorf("expected default retention, got %d", cfg.Memory.RetentionDays)
	}
}
