package orchestration

import (
	"time"

	"github.com/agbru/prothcalc/internal/format"
	"github.com/agbru/prothcalc/internal/proth"
)

// ProgressAggregator averages progress over several testers and tracks an
// ETA.
type ProgressAggregator struct {
	state      *format.ProgressWithETA
	numTesters int
}

// NewProgressAggregator returns nil if numTesters <= 0.
func NewProgressAggregator(numTesters int) *ProgressAggregator {
	if numTesters <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:      format.NewProgressWithETA(numTesters),
		numTesters: numTesters,
	}
}

// AggregatedProgress is the state after one update.
type AggregatedProgress struct {
	TesterIndex     int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// Update applies one progress update.
func (a *ProgressAggregator) Update(update proth.ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.TesterIndex, update.Value)
	return AggregatedProgress{
		TesterIndex:     update.TesterIndex,
		Value:           update.Value,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumTesters returns the number of testers tracked.
func (a *ProgressAggregator) NumTesters() int {
	return a.numTesters
}

// IsMultiTester reports whether more than one tester is tracked.
func (a *ProgressAggregator) IsMultiTester() bool {
	return a.numTesters > 1
}

// DrainChannel discards updates until the channel is closed.
func DrainChannel(progressChan <-chan proth.ProgressUpdate) {
	for range progressChan {
	}
}
