package format

import (
	"fmt"
	"time"
)

const (
	// etaSmoothing weights the newest rate sample in the moving average.
	etaSmoothing = 0.3
	// maxETA caps the estimate shown to the user.
	maxETA = 24 * time.Hour
)

// ProgressWithETA extends ProgressState with a smoothed progress rate, from
// which it estimates the time remaining.
type ProgressWithETA struct {
	*ProgressState
	numTesters   int
	progressRate float64 // average progress per second
	startTime    time.Time
	lastUpdate   time.Time
	lastProgress float64
}

// NewProgressWithETA starts the clock for numTesters testers.
func NewProgressWithETA(numTesters int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(numTesters),
		numTesters:    numTesters,
		startTime:     now,
		lastUpdate:    now,
	}
}

// UpdateWithETA records value for tester index and returns the new average
// progress along with the estimated time remaining.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()

	now := time.Now()
	if elapsed := now.Sub(p.lastUpdate).Seconds(); elapsed > 0 && avg > p.lastProgress {
		rate := (avg - p.lastProgress) / elapsed
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = etaSmoothing*rate + (1-etaSmoothing)*p.progressRate
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	return avg, p.GetETA()
}

// GetETA returns the estimated time remaining, or zero while no rate is
// known.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	secs := remaining / p.progressRate
	if secs > maxETA.Seconds() {
		return maxETA
	}
	return time.Duration(secs * float64(time.Second))
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressWithETA) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

// FormatETA renders an estimate as "45s", "2m30s" or "1h15m".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m := int(eta.Minutes())
		s := int(eta.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		h := int(eta.Hours())
		m := int(eta.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// FormatProgressBarWithETA renders "[bar] 42.00% ETA: 1m".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	pct := min(max(progress, 0), 1) * 100
	return fmt.Sprintf("[%s] %6.2f%% ETA: %s", ProgressBar(progress, width), pct, FormatETA(eta))
}
