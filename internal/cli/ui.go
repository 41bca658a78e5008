package cli

import (
	"time"

	"github.com/briandowns/spinner"
)

const (
	// HexDisplayEdges is how many hex digits are kept at each end of a
	// truncated residue.
	HexDisplayEdges = 32
	// HexTruncationLimit is the residue length in hex digits above which it
	// is truncated on screen.
	HexTruncationLimit = 96
	// ProgressRefreshRate is the spinner and progress bar refresh period.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts the terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	// Start begins the animation.
	Start()
	// Stop halts the animation and clears its line.
	Stop()
	// UpdateSuffix sets the text shown after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}
