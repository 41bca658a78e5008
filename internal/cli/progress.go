package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/prothcalc/internal/format"
	"github.com/agbru/prothcalc/internal/orchestration"
	"github.com/agbru/prothcalc/internal/proth"
)

// DisplayProgress shows a spinner with the average progress of numTesters
// testers and an ETA, refreshed every ProgressRefreshRate, until
// progressChan is closed. It then prints the final bar on its own line.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan proth.ProgressUpdate, numTesters int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numTesters)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	label := "Testing"
	if agg.IsMultiTester() {
		label = fmt.Sprintf("Testing with %d methods", numTesters)
	}
	s := newSpinner(spinner.WithWriter(out))
	render := func(avg float64, eta time.Duration) {
		s.UpdateSuffix(fmt.Sprintf(" %s %s", label, format.FormatProgressBarWithETA(avg, eta, ProgressBarWidth)))
	}
	render(0, 0)
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()
	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				avg := agg.CalculateAverage()
				fmt.Fprintf(out, "%s [%s] %6.2f%%\n", label, format.ProgressBar(avg, ProgressBarWidth), avg*100)
				return
			}
			p := agg.Update(update)
			render(p.AverageProgress, p.ETA)
		case <-ticker.C:
			render(agg.CalculateAverage(), agg.GetETA())
		}
	}
}
