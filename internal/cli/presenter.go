package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	apperrors "github.com/agbru/prothcalc/internal/errors"
	"github.com/agbru/prothcalc/internal/format"
	"github.com/agbru/prothcalc/internal/orchestration"
	"github.com/agbru/prothcalc/internal/proth"
	"github.com/agbru/prothcalc/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan proth.ProgressUpdate, numTesters int, out io.Writer) {
	DisplayProgress(wg, progressChan, numTesters, out)
}

// CLIResultPresenter renders results as colored terminal text.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

// PresentComparisonTable prints one row per tester: method, duration and
// verdict. Padding is computed on the uncolored text so escape codes do not
// break the alignment.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.TestResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	const methodHeader, durationHeader = "Method", "Duration"
	nameWidth, durationWidth := len(methodHeader), len(durationHeader)
	durations := make([]string, len(results))
	for i, res := range results {
		nameWidth = max(nameWidth, len(res.Name))
		durations[i] = tableDuration(res.Duration)
		durationWidth = max(durationWidth, len([]rune(durations[i])))
	}

	fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %sVerdict%s\n",
		ui.ColorUnderline(), methodHeader, ui.ColorReset(), padRight("", nameWidth-len(methodHeader)),
		ui.ColorUnderline(), durationHeader, ui.ColorReset(), padRight("", durationWidth-len(durationHeader)),
		ui.ColorUnderline(), ui.ColorReset())

	for i, res := range results {
		var status string
		switch {
		case res.Err != nil:
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		case res.Result.Prime:
			status = fmt.Sprintf("%s✅ prime%s", ui.ColorGreen(), ui.ColorReset())
		default:
			status = fmt.Sprintf("%s✅ not prime%s", ui.ColorYellow(), ui.ColorReset())
		}
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorCyan(), res.Name, ui.ColorReset(), padRight("", nameWidth-len(res.Name)),
			ui.ColorYellow(), durations[i], ui.ColorReset(), padRight("", durationWidth-len([]rune(durations[i]))),
			status)
	}
}

func tableDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatTestDuration(d)
}

// padRight appends length spaces to s.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentResult prints the verdict block of the fastest successful tester.
func (CLIResultPresenter) PresentResult(result orchestration.TestResult, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayResult(result, opts, out)
}

func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatTestDuration(d)
}

// HandleError prints a message for a failed run and returns its exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	code := apperrors.ExitCodeFor(err)
	elapsed := ""
	if duration > 0 {
		elapsed = fmt.Sprintf(" after %s", format.FormatTestDuration(duration))
	}
	switch code {
	case apperrors.ExitErrorTimeout:
		fmt.Fprintf(out, "%sStatus: Timeout%s. The test did not finish within the configured limit%s.\n", ui.ColorRed(), ui.ColorReset(), elapsed)
	case apperrors.ExitErrorCanceled:
		fmt.Fprintf(out, "%sStatus: Canceled%s%s.\n", ui.ColorYellow(), ui.ColorReset(), elapsed)
	case apperrors.ExitErrorConfig:
		fmt.Fprintf(out, "%sStatus: Invalid input%s. %v\n", ui.ColorRed(), ui.ColorReset(), err)
	default:
		fmt.Fprintf(out, "%sStatus: Failure%s. %v\n", ui.ColorRed(), ui.ColorReset(), err)
	}
	return code
}
