package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/prothcalc/internal/proth"
)

// TestResult is the outcome of one tester, shared between orchestration
// and presentation.
type TestResult struct {
	// Name is the method name of the tester.
	Name string
	// Result holds the verdict and residue. It is zero if Err is set.
	Result proth.Result
	// Duration is the wall time of the whole Test call.
	Duration time.Duration
	// Err is the error returned by the tester, if any.
	Err error
}

// PresentationOptions configures how results are presented.
type PresentationOptions struct {
	Number  proth.Number
	Verbose bool
	Details bool
}

// ProgressReporter displays tester progress.
//
// DisplayProgress runs in its own goroutine until progressChan is closed,
// then calls wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan proth.ProgressUpdate, numTesters int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan proth.ProgressUpdate, numTesters int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan proth.ProgressUpdate, numTesters int, out io.Writer) {
	f(wg, progressChan, numTesters, out)
}

// NullProgressReporter drains the channel without output. Quiet mode and
// tests use it.
type NullProgressReporter struct{}

// DisplayProgress drains progressChan.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan proth.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders results.
type ResultPresenter interface {
	// PresentComparisonTable shows one row per tester.
	PresentComparisonTable(results []TestResult, out io.Writer)
	// PresentResult shows the verdict of a single successful tester.
	PresentResult(result TestResult, opts PresentationOptions, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler reports a failed run and returns its exit code.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
