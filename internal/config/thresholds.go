package config

import (
	"runtime"

	"github.com/agbru/prothcalc/internal/ssmul"
)

// Resolution order for Threshold and MaxEngineBits, highest first:
//   1. --threshold / --max-engine-bits
//   2. PROTHCALC_THRESHOLD / PROTHCALC_MAX_ENGINE_BITS
//   3. the config file
//   4. ApplyAdaptiveDefaults

// ApplyAdaptiveDefaults fills the settings still at zero with values
// derived from the host.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.Threshold == 0 {
		cfg.Threshold = ssmul.DefaultThreshold
	}
	if cfg.MaxEngineBits == 0 {
		cfg.MaxEngineBits = EstimateMaxEngineBits(runtime.NumCPU())
	}
	return cfg
}

// EstimateMaxEngineBits scales the engine modulus limit with the core
// count, as a stand-in for how much time the host can afford to spend on
// a single single-threaded exponentiation.
func EstimateMaxEngineBits(numCPU int) int {
	switch {
	case numCPU <= 2:
		return 1 << 14
	case numCPU <= 8:
		return 1 << 16
	default:
		return 1 << 18
	}
}
