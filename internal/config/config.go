// Package config holds the tunable knobs for memory assembly, planning,
// and retention. Values load from defaults, then an optional YAML file,
// then environment variables, strongest last.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Memory configures context assembly.
type Memory struct {
	// ContextMaxTokens is the hard ceiling any requested budget is clamped to.
	ContextMaxTokens int `yaml:"context_max_tokens"`
	// HotTurnsLimit bounds how many recent inbox items enter the hot layer.
	HotTurnsLimit int `yaml:"hot_turns_limit"`
	// RelatedEntitiesLimit bounds the related-entities layer.
	RelatedEntitiesLimit int `yaml:"related_entities_limit"`
	// RetentionDays is how long raw inbox items are kept before compaction.
	RetentionDays int `yaml:"retention_days"`
}

// Plan configures scoring weights and bucket sizes.
type Plan struct {
	TopNToday            int     `yaml:"top_n_today"`
	TopNNext             int     `yaml:"top_n_next"`
	WeightUrgency        float64 `yaml:"weight_urgency"`
	WeightImpact         float64 `yaml:"weight_impact"`
	WeightGoalAlignment  float64 `yaml:"weight_goal_alignment"`
	WeightStaleness      float64 `yaml:"weight_staleness"`
	WeightBlockerPenalty float64 `yaml:"weight_blocker_penalty"`
}

// Worker configures the background job runner.
type Worker struct {
	// CompactSchedule is a cron expression for the retention job.
	CompactSchedule string `yaml:"compact_schedule"`
	// PlanRefreshSchedule is a cron expression for the plan cache refresh.
	PlanRefreshSchedule string `yaml:"plan_refresh_schedule"`
}

// Config is the full application configuration.
type Config struct {
	DBPath string `yaml:"db_path"`
	Memory Memory `yaml:"memory"`
	Plan   Plan   `yaml:"plan"`
	Worker Worker `yaml:"worker"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		Memory: Memory{
			ContextMaxTokens:     3000,
			HotTurnsLimit:        8,
			RelatedEntitiesLimit: 25,
			RetentionDays:        30,
		},
		Plan: Plan{
			TopNToday:            6,
			TopNNext:             8,
			WeightUrgency:        4.0,
			WeightImpact:         3.0,
			WeightGoalAlignment:  2.0,
			WeightStaleness:      1.0,
			WeightBlockerPenalty: 6.0,
		},
		Worker: Worker{
			CompactSchedule:     "@daily",
			PlanRefreshSchedule: "@every 30m",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// it exists), then environment variables. A .env file in the working
// directory is loaded first if present.
func Load(path string) (Config, error) {
	godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	envStr("DAYBRIEF_DB", &c.DBPath)
	envInt("MEMORY_CONTEXT_MAX_TOKENS", &c.Memory.ContextMaxTokens)
	envInt("MEMORY_HOT_TURNS_LIMIT", &c.Memory.HotTurnsLimit)
	envInt("MEMORY_RELATED_ENTITIES_LIMIT", &c.Memory.RelatedEntitiesLimit)
	envInt("TRANSCRIPT_RETENTION_DAYS", &c.Memory.RetentionDays)
	envInt("PLAN_TOP_N_TODAY", &c.Plan.TopNToday)
	envInt("PLAN_TOP_N_NEXT", &c.Plan.TopNNext)
	envFloat("PLAN_WEIGHT_URGENCY", &c.Plan.WeightUrgency)
	envFloat("PLAN_WEIGHT_IMPACT", &c.Plan.WeightImpact)
	envFloat("PLAN_WEIGHT_GOAL_ALIGNMENT", &c.Plan.WeightGoalAlignment)
	envFloat("PLAN_WEIGHT_STALENESS", &c.Plan.WeightStaleness)
	envFloat("PLAN_WEIGHT_BLOCKER_PENALTY", &c.Plan.WeightBlockerPenalty)
	envStr("WORKER_COMPACT_SCHEDULE", &c.Worker.CompactSchedule)
	envStr("WORKER_PLAN_REFRESH_SCHEDULE", &c.Worker.PlanRefreshSchedule)
}

func envStr(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
