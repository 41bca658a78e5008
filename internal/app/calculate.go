package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/prothcalc/internal/cli"
	apperrors "github.com/agbru/prothcalc/internal/errors"
	"github.com/agbru/prothcalc/internal/logging"
	"github.com/agbru/prothcalc/internal/memory"
	"github.com/agbru/prothcalc/internal/metrics"
	"github.com/agbru/prothcalc/internal/orchestration"
	"github.com/agbru/prothcalc/internal/proth"
	"github.com/agbru/prothcalc/internal/sysmon"
)

// runCalculate orchestrates the execution of the CLI test command.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	if a.Config.Number == "" {
		fmt.Fprintf(a.ErrWriter, "Error: no number given.\nUsage: prothcalc [flags] T*2^E+1\n")
		return apperrors.ExitErrorConfig
	}
	n, err := proth.Parse(a.Config.Number)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\nUsage: prothcalc [flags] T*2^E+1\n", err)
		return apperrors.ExitErrorConfig
	}

	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	selected, err := orchestration.GetTestersToRun(a.Config.Method, a.Factory)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}
	testers := make([]proth.Tester, len(selected))
	for i, t := range selected {
		testers[i] = a.Metrics.Instrument(t)
	}

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, n, out)
		cli.PrintExecutionMode(testers, out)
	}

	var progressReporter orchestration.ProgressReporter
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		progressReporter = orchestration.NullProgressReporter{}
	} else {
		progressReporter = cli.CLIProgressReporter{}
	}

	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()
	results := orchestration.ExecuteTests(ctx, testers, n, progressReporter, progressOut)
	usage := collector.Snapshot().Since(before)

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	}
	exitCode := a.analyzeResultsWithOutput(results, n, outputCfg, out)

	if a.Config.Verbose && !a.Config.Quiet {
		a.printEngineReport(testers, n, out)
		cli.DisplaySystemStats(sysmon.Sample(), usage, out)
	}
	if a.Config.MetricsFile != "" {
		if err := a.Metrics.WriteTextFile(a.Config.MetricsFile); err != nil {
			a.logger.Error("writing metrics", err, logging.String("path", a.Config.MetricsFile))
			if exitCode == apperrors.ExitSuccess {
				exitCode = apperrors.ExitErrorGeneric
			}
		}
	}
	return exitCode
}

// printEngineReport shows the workspace estimate and the chain used when
// the engine took part in the run.
func (a *Application) printEngineReport(testers []proth.Tester, n proth.Number, out io.Writer) {
	used := false
	for _, t := range testers {
		if t.Name() == "engine" {
			used = true
		}
	}
	if !used {
		return
	}
	est, err := memory.EstimateEngine(n.Bits(), a.Config.Threshold)
	if err != nil {
		return
	}
	cli.PrintEnginePlan(est, a.chainDescription(), out)
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.TestResult, n proth.Number, outputCfg cli.OutputConfig, out io.Writer) int {
	presOpts := orchestration.PresentationOptions{
		Number:  n,
		Verbose: a.Config.Verbose,
		Details: a.Config.Details,
	}

	analysisOut := out
	if outputCfg.Quiet {
		analysisOut = io.Discard
	}
	presenter := cli.CLIResultPresenter{}
	exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, presenter, presenter, analysisOut)

	// AnalyzeComparisonResults sorted the results; the first is the
	// fastest success when there is one.
	if exitCode != apperrors.ExitSuccess {
		if outputCfg.Quiet {
			fmt.Fprintf(a.ErrWriter, "Error: %s\n", failureReason(results, exitCode))
		}
		return exitCode
	}
	best := results[0]

	if outputCfg.Quiet {
		cli.DisplayQuietResult(out, n, best.Result)
	}
	if err := a.saveResultIfNeeded(best, n, outputCfg); err != nil {
		return apperrors.ExitErrorGeneric
	}
	if outputCfg.OutputFile != "" && !outputCfg.Quiet {
		cli.DisplaySaved(out, outputCfg.OutputFile)
	}
	return exitCode
}

// failureReason explains a failed run in one line for quiet mode.
func failureReason(results []orchestration.TestResult, code int) string {
	if code == apperrors.ExitErrorMismatch {
		return "methods disagree on the result"
	}
	for _, r := range results {
		if r.Err != nil {
			return r.Err.Error()
		}
	}
	return "no method completed the test"
}

func (a *Application) saveResultIfNeeded(res orchestration.TestResult, n proth.Number, cfg cli.OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}
	if err := cli.WriteResultToFile(res, n, cfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return err
	}
	return nil
}
