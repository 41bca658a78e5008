package proth

// ProgressUpdate carries the progress of one tester.
type ProgressUpdate struct {
	// TesterIndex identifies the tester among those running together.
	TesterIndex int
	// Value is the completed fraction, from 0.0 to 1.0.
	Value float64
}

// ProgressReportThreshold is the minimum progress change that triggers a
// new update.
const ProgressReportThreshold = 0.01

// stepReporter turns loop iterations into throttled progress updates.
type stepReporter struct {
	ch           chan<- ProgressUpdate
	idx          int
	total        float64
	lastReported float64
}

func newStepReporter(ch chan<- ProgressUpdate, idx int, totalSteps int) *stepReporter {
	return &stepReporter{ch: ch, idx: idx, total: float64(max(totalSteps, 1))}
}

// Step reports that done of the total steps are complete. Updates are
// dropped rather than blocking when the channel is full.
func (r *stepReporter) Step(done int) {
	if r == nil || r.ch == nil {
		return
	}
	v := min(float64(done)/r.total, 1.0)
	if v-r.lastReported < ProgressReportThreshold && v < 1.0 {
		return
	}
	r.lastReported = v
	select {
	case r.ch <- ProgressUpdate{TesterIndex: r.idx, Value: v}:
	default:
	}
}

// Done reports completion. The final update is delivered even when the
// channel is momentarily full.
func (r *stepReporter) Done() {
	if r == nil || r.ch == nil {
		return
	}
	r.lastReported = 1.0
	r.ch <- ProgressUpdate{TesterIndex: r.idx, Value: 1.0}
}
