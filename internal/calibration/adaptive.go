package calibration

import (
	"github.com/agbru/prothcalc/internal/config"
	"github.com/agbru/prothcalc/internal/ssmul"
)

// DefaultCalibrationBits is the modulus width timed when no number is given.
const DefaultCalibrationBits = 1 << 14

// GenerateThresholds returns the cutoffs tried by a full calibration, from
// ssmul.DefaultThreshold upwards in powers of two. Wider moduli get wider
// candidates, since a cutoff above the product width never reaches the
// transform.
func GenerateThresholds(bits int) []int {
	thresholds := []int{ssmul.DefaultThreshold}
	limit := max(2*bits, 4*ssmul.DefaultThreshold)
	for t := 2 * ssmul.DefaultThreshold; t <= limit && t <= 1<<16; t *= 2 {
		thresholds = append(thresholds, t)
	}
	return thresholds
}

// GenerateQuickThresholds returns a reduced candidate set.
func GenerateQuickThresholds() []int {
	return []int{ssmul.DefaultThreshold, 2 * ssmul.DefaultThreshold, 8 * ssmul.DefaultThreshold}
}

// LoadCachedCalibration applies the threshold from a valid profile at path
// unless one was configured explicitly.
func LoadCachedCalibration(cfg config.AppConfig, path string) (config.AppConfig, bool) {
	if path == "" || cfg.Threshold != 0 {
		return cfg, false
	}
	profile, err := loadProfile(path)
	if err != nil || !profile.IsValid() || profile.OptimalThreshold < ssmul.DefaultThreshold {
		return cfg, false
	}
	cfg.Threshold = profile.OptimalThreshold
	return cfg, true
}
