package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/prothcalc/internal/errors"
	"github.com/agbru/prothcalc/internal/proth"
)

// ProgressBufferMultiplier sizes the progress channel per tester, so slow
// rendering rarely makes a tester drop an update.
const ProgressBufferMultiplier = 5

// ExecuteTests runs every tester on n concurrently and collects their
// results in input order. Tester errors are recorded in the results, not
// returned, so one failing method never cancels the others.
//
// Parameters:
//   - ctx: Cancels every running tester.
//   - testers: The testers to run.
//   - n: The Proth number under test.
//   - progressReporter: Consumes progress updates; use NullProgressReporter
//     in quiet mode.
//   - out: Destination for progress output.
//
// Returns:
//   - []TestResult: One result per tester.
func ExecuteTests(ctx context.Context, testers []proth.Tester, n proth.Number, progressReporter ProgressReporter, out io.Writer) []TestResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]TestResult, len(testers))
	progressChan := make(chan proth.ProgressUpdate, len(testers)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(testers), out)

	for i, tester := range testers {
		g.Go(func() error {
			start := time.Now()
			res, err := tester.Test(ctx, n, progressChan, i)
			if err != nil {
				err = apperrors.CalculationError{Cause: err}
			}
			results[i] = TestResult{Name: tester.Name(), Result: res, Duration: time.Since(start), Err: err}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()
	return results
}

// SortResults orders successes first, each group by increasing duration.
func SortResults(results []TestResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})
}

// AnalyzeComparisonResults sorts the results, presents the comparison
// table and checks that every successful tester reached the same verdict
// and residue.
//
// Returns ExitSuccess when the successful testers agree, whatever the
// verdict, ExitErrorMismatch when they disagree, and the handler's code
// when every tester failed.
func AnalyzeComparisonResults(results []TestResult, opts PresentationOptions, presenter ResultPresenter, handler ErrorHandler, out io.Writer) int {
	SortResults(results)

	var first *TestResult
	var firstErr error
	for i := range results {
		if results[i].Err != nil {
			if firstErr == nil {
				firstErr = results[i].Err
			}
			continue
		}
		if first == nil {
			first = &results[i]
		}
	}

	presenter.PresentComparisonTable(results, out)

	if first == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No method completed the test.\n")
		return handler.HandleError(firstErr, 0, out)
	}

	for _, res := range results {
		if res.Err == nil && !sameVerdict(res.Result, first.Result) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %s and %s disagree.\n", first.Name, res.Name)
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	presenter.PresentResult(*first, opts, out)
	return apperrors.ExitSuccess
}

func sameVerdict(a, b proth.Result) bool {
	if a.Prime != b.Prime {
		return false
	}
	if a.Residue == nil || b.Residue == nil {
		return a.Residue == b.Residue
	}
	return a.Residue.Cmp(b.Residue) == 0
}
