package format

import "strings"

// ProgressState holds the latest progress of each tester and their average.
type ProgressState struct {
	progresses []float64
	numTesters int
}

// NewProgressState tracks numTesters testers, all starting at zero.
func NewProgressState(numTesters int) *ProgressState {
	return &ProgressState{
		progresses: make([]float64, max(numTesters, 0)),
		numTesters: numTesters,
	}
}

// Update records value for the tester at index. Out of range indices are
// ignored and the value is clamped to [0, 1].
func (ps *ProgressState) Update(index int, value float64) {
	if index < 0 || index >= len(ps.progresses) {
		return
	}
	ps.progresses[index] = min(max(value, 0), 1)
}

// CalculateAverage returns the mean progress over every tracked tester.
func (ps *ProgressState) CalculateAverage() float64 {
	if ps.numTesters <= 0 {
		return 0
	}
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	return total / float64(ps.numTesters)
}

// ProgressBar renders progress as length block characters.
func ProgressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(length))
	var b strings.Builder
	b.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < filled {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}
