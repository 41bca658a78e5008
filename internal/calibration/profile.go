package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const (
	// CurrentProfileVersion is bumped whenever the profile layout or the
	// meaning of a field changes.
	CurrentProfileVersion = 1
	// DefaultProfileFileName is the file name used under the user config
	// directory.
	DefaultProfileFileName = "prothcalc_calibration.json"
)

// CalibrationProfile records the measured engine threshold together with
// the host it was measured on.
type CalibrationProfile struct {
	ProfileVersion int       `json:"profile_version"`
	NumCPU         int       `json:"num_cpu"`
	GOARCH         string    `json:"goarch"`
	GOOS           string    `json:"goos"`
	GoVersion      string    `json:"go_version"`
	WordSize       int       `json:"word_size"`
	CalibratedAt   time.Time `json:"calibrated_at"`

	// OptimalThreshold is the fastest schoolbook/transform cutoff found.
	OptimalThreshold int `json:"optimal_threshold"`
	// CalibrationBits is the modulus width the timings were taken at.
	CalibrationBits int `json:"calibration_bits"`
	// CalibrationTime is the total wall time of the run.
	CalibrationTime string `json:"calibration_time"`
}

// NewProfile returns a profile stamped with the current host.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		ProfileVersion: CurrentProfileVersion,
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
		CalibratedAt:   time.Now(),
	}
}

// IsValid reports whether the profile was measured on a host like this one.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == 32<<(^uint(0)>>63)
}

// IsStale reports whether the profile is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

func (p *CalibrationProfile) String() string {
	return fmt.Sprintf("calibration v%d (%s/%s, %d CPUs, %s): threshold %d bits at %d-bit modulus, measured %s",
		p.ProfileVersion, p.GOOS, p.GOARCH, p.NumCPU, p.GoVersion,
		p.OptimalThreshold, p.CalibrationBits, p.CalibratedAt.Format(time.RFC3339))
}

// SaveProfile writes the profile as indented JSON, creating parent
// directories as needed.
func (p *CalibrationProfile) SaveProfile(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating profile directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", path, err)
	}
	return &p, nil
}

// LoadOrCreateProfile loads path, or returns a fresh profile and false when
// it cannot be read.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	p, err := loadProfile(path)
	if err != nil {
		return NewProfile(), false
	}
	return p, true
}

// GetDefaultProfilePath returns the profile path under the user config
// directory, or the working directory when there is none.
func GetDefaultProfilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(dir, "prothcalc", DefaultProfileFileName)
}
