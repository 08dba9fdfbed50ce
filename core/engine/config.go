package engine

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the engine's on-disk configuration: how many offloaded
// requests run concurrently, and on what schedule idle cursors are
// swept. It mirrors the yaml-tagged option structs scattered across
// core/job, core/scheduler and core/trigger.
type Config struct {
	Offload struct {
		MaxWorker int `yaml:"MaxWorker"`
	} `yaml:"offload"`
	CursorSweep struct {
		Spec    string `yaml:"spec"`
		MaxIdle string `yaml:"maxIdle"`
	} `yaml:"cursorSweep"`
}

// LoadConfig parses an engine configuration document.
func LoadConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MaxIdleDuration parses the configured idle TTL, defaulting to zero
// (no sweep) if unset.
func (c *Config) MaxIdleDuration() (time.Duration, error) {
	if c.CursorSweep.MaxIdle == "" {
		return 0, nil
	}
	return time.ParseDuration(c.CursorSweep.MaxIdle)
}
