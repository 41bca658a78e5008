package config

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/agbru/prothcalc/internal/errors"
)

// fileConfig mirrors the keys accepted in a TOML config file.
type fileConfig struct {
	Method        string `toml:"method"`
	Timeout       string `toml:"timeout"`
	Threshold     int    `toml:"threshold"`
	MaxEngineBits int    `toml:"max_engine_bits"`
	GC            string `toml:"gc"`
	MemoryLimit   string `toml:"memory_limit"`
	Output        string `toml:"output"`
	MetricsOut    string `toml:"metrics_out"`
	Verbose       bool   `toml:"verbose"`
	Quiet         bool   `toml:"quiet"`
	Details       bool   `toml:"details"`
	NoColor       bool   `toml:"no_color"`

	CalibrationProfile string `toml:"calibration_profile"`
}

// fileKey binds a TOML key to the flags that take precedence over it.
type fileKey struct {
	key   string
	flags []string
	apply func(*AppConfig, fileConfig) error
}

var fileKeys = []fileKey{
	{"method", []string{"method", "m"}, func(c *AppConfig, f fileConfig) error {
		c.Method = f.Method
		return nil
	}},
	{"timeout", []string{"timeout"}, func(c *AppConfig, f fileConfig) error {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return apperrors.NewConfigError("config file: invalid timeout %q: %v", f.Timeout, err)
		}
		c.Timeout = d
		return nil
	}},
	{"threshold", []string{"threshold"}, func(c *AppConfig, f fileConfig) error {
		c.Threshold = f.Threshold
		return nil
	}},
	{"max_engine_bits", []string{"max-engine-bits"}, func(c *AppConfig, f fileConfig) error {
		c.MaxEngineBits = f.MaxEngineBits
		return nil
	}},
	{"gc", []string{"gc"}, func(c *AppConfig, f fileConfig) error {
		c.GCMode = f.GC
		return nil
	}},
	{"memory_limit", []string{"memory-limit"}, func(c *AppConfig, f fileConfig) error {
		c.MemoryLimit = f.MemoryLimit
		return nil
	}},
	{"output", []string{"output", "o"}, func(c *AppConfig, f fileConfig) error {
		c.OutputFile = f.Output
		return nil
	}},
	{"metrics_out", []string{"metrics-out"}, func(c *AppConfig, f fileConfig) error {
		c.MetricsFile = f.MetricsOut
		return nil
	}},
	{"verbose", []string{"verbose", "v"}, func(c *AppConfig, f fileConfig) error {
		c.Verbose = f.Verbose
		return nil
	}},
	{"quiet", []string{"quiet", "q"}, func(c *AppConfig, f fileConfig) error {
		c.Quiet = f.Quiet
		return nil
	}},
	{"details", []string{"details", "d"}, func(c *AppConfig, f fileConfig) error {
		c.Details = f.Details
		return nil
	}},
	{"no_color", []string{"no-color"}, func(c *AppConfig, f fileConfig) error {
		c.NoColor = f.NoColor
		return nil
	}},
	{"calibration_profile", []string{"calibration-profile"}, func(c *AppConfig, f fileConfig) error {
		c.CalibrationProfile = f.CalibrationProfile
		return nil
	}},
}

// applyConfigFile decodes path and applies every key it defines, unless
// overridden reports that a flag or environment variable already set it.
// Unknown keys are rejected.
func applyConfigFile(cfg *AppConfig, path string, overridden func(flags []string) bool) error {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return apperrors.NewConfigError("%s: failed to parse TOML: %v", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return apperrors.NewConfigError("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	for _, k := range fileKeys {
		if !meta.IsDefined(k.key) || overridden(k.flags) {
			continue
		}
		if err := k.apply(cfg, fc); err != nil {
			return err
		}
	}
	return nil
}
