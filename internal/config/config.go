// Package config parses the prothcalc command line, applies environment and
// file overrides and validates the result.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/prothcalc/internal/errors"
	"github.com/agbru/prothcalc/internal/memory"
	"github.com/agbru/prothcalc/internal/ssmul"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "PROTHCALC_"

const (
	// DefaultMethod is the tester used when none is selected.
	DefaultMethod = "big_simple"
	// DefaultTimeout bounds a whole run.
	DefaultTimeout = 10 * time.Minute
)

// AppConfig is the resolved configuration of one run.
type AppConfig struct {
	// Number is the Proth number in T*2^E+1 notation.
	Number string
	// Method is a tester name, a comma-separated list, or "all".
	Method string
	// Timeout bounds the whole run.
	Timeout time.Duration
	Verbose bool
	Quiet   bool
	// Details adds the residue and timing breakdown to the output.
	Details bool
	// Threshold is the product width in bits up to which the engine
	// multiplies by schoolbook. Zero selects the adaptive default.
	Threshold int
	// MaxEngineBits is the widest modulus the engine tester accepts. Zero
	// selects the adaptive default.
	MaxEngineBits int
	// GCMode is auto, aggressive or disabled.
	GCMode string
	// MemoryLimit caps the engine workspace, e.g. "512M". Empty means no
	// limit.
	MemoryLimit string
	// OutputFile receives the result when set.
	OutputFile string
	// MetricsFile receives a Prometheus text dump after the run.
	MetricsFile string
	NoColor     bool
	// ConfigFile is an optional TOML file of defaults.
	ConfigFile string
	// Calibrate times the engine threshold instead of testing a number.
	Calibrate bool
	// CalibrationProfile caches the calibrated threshold. Empty disables
	// the cache.
	CalibrationProfile string
}

// ParseConfig parses args (without the program name) and resolves the
// configuration with precedence flags > environment > config file >
// defaults. Adaptive defaults are applied separately by
// ApplyAdaptiveDefaults.
//
// Parameters:
//   - programName: Used in usage messages.
//   - args: The command-line arguments.
//   - errWriter: Receives usage and flag errors.
//   - availableMethods: The registered tester names, for validation.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp for -h, or a ConfigError.
func ParseConfig(programName string, args []string, errWriter io.Writer, availableMethods []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	cfg := AppConfig{}
	fs.StringVar(&cfg.Method, "method", DefaultMethod, "Tester to run: a name, a comma-separated list, or 'all'.")
	fs.StringVar(&cfg.Method, "m", DefaultMethod, "Shorthand for --method.")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum run time (e.g. 30s, 10m).")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Show the residue, chain plan and system sample.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print only the verdict.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&cfg.Details, "details", false, "Show the residue and per-method timing.")
	fs.BoolVar(&cfg.Details, "d", false, "Shorthand for --details.")
	fs.IntVar(&cfg.Threshold, "threshold", 0, "Product width in bits up to which the engine uses schoolbook multiplication (0 = auto).")
	fs.IntVar(&cfg.MaxEngineBits, "max-engine-bits", 0, "Largest modulus the engine tester accepts (0 = auto).")
	fs.StringVar(&cfg.GCMode, "gc", string(memory.GCModeAuto), "GC policy during engine runs: auto, aggressive or disabled.")
	fs.StringVar(&cfg.MemoryLimit, "memory-limit", "", "Cap on the engine workspace (e.g. 64M, 2G).")
	fs.StringVar(&cfg.OutputFile, "output", "", "Write the result to this file.")
	fs.StringVar(&cfg.OutputFile, "o", "", "Shorthand for --output.")
	fs.StringVar(&cfg.MetricsFile, "metrics-out", "", "Write Prometheus metrics to this file after the run.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&cfg.ConfigFile, "config", "", "TOML file of default settings.")
	fs.BoolVar(&cfg.Calibrate, "calibrate", false, "Time the engine threshold and exit; a number sets the modulus size.")
	fs.StringVar(&cfg.CalibrationProfile, "calibration-profile", "", "JSON file the calibrated threshold is saved to and loaded from.")

	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [flags] T*2^E+1\n\n", programName)
		fmt.Fprintf(errWriter, "Runs Proth's primality test on N = T*2^E+1.\n")
		fmt.Fprintf(errWriter, "Methods: %s, all\n\nFlags:\n", strings.Join(availableMethods, ", "))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	cfg.Number = strings.TrimSpace(strings.Join(fs.Args(), " "))

	envSet := applyEnvOverrides(&cfg, fs)
	if cfg.ConfigFile != "" {
		if err := applyConfigFile(&cfg, cfg.ConfigFile, func(flags []string) bool {
			return isFlagSetAny(fs, flags...) || envSet[flags[0]]
		}); err != nil {
			return AppConfig{}, err
		}
	}

	if err := cfg.Validate(availableMethods); err != nil {
		fmt.Fprintln(errWriter, err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c AppConfig) Validate(availableMethods []string) error {
	if c.Number == "" && !c.Calibrate {
		return apperrors.NewConfigError("missing Proth number (expected T*2^E+1)")
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.Verbose && c.Quiet {
		return apperrors.NewConfigError("--verbose and --quiet are mutually exclusive")
	}
	if c.Threshold != 0 && c.Threshold < ssmul.DefaultThreshold {
		return apperrors.NewConfigError("threshold must be 0 or at least %d bits, got %d", ssmul.DefaultThreshold, c.Threshold)
	}
	if c.MaxEngineBits < 0 {
		return apperrors.NewConfigError("max-engine-bits must not be negative, got %d", c.MaxEngineBits)
	}
	if !memory.ValidGCMode(c.GCMode) {
		return apperrors.NewConfigError("unknown gc mode %q (expected auto, aggressive or disabled)", c.GCMode)
	}
	if c.MemoryLimit != "" {
		if _, err := memory.ParseMemoryLimit(c.MemoryLimit); err != nil {
			return apperrors.NewConfigError("invalid memory limit: %v", err)
		}
	}
	if c.Method == "all" {
		return nil
	}
	for _, m := range strings.Split(c.Method, ",") {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if !slices.Contains(availableMethods, m) {
			return apperrors.NewConfigError("unknown method %q (available: %s)", m, strings.Join(availableMethods, ", "))
		}
	}
	return nil
}

// MemoryLimitBytes returns the parsed memory limit, or 0 when none is set.
// The value has been checked by Validate.
func (c AppConfig) MemoryLimitBytes() uint64 {
	limit, _ := memory.ParseMemoryLimit(c.MemoryLimit)
	return limit
}
