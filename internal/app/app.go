package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/prothcalc/internal/calibration"
	"github.com/agbru/prothcalc/internal/cli"
	"github.com/agbru/prothcalc/internal/config"
	apperrors "github.com/agbru/prothcalc/internal/errors"
	"github.com/agbru/prothcalc/internal/logging"
	"github.com/agbru/prothcalc/internal/metrics"
	"github.com/agbru/prothcalc/internal/proth"
	"github.com/agbru/prothcalc/internal/ssmul"
	"github.com/agbru/prothcalc/internal/ui"
)

// Application represents the prothcalc application instance.
type Application struct {
	Config    config.AppConfig
	Factory   proth.TesterFactory
	Metrics   *metrics.Metrics
	ErrWriter io.Writer

	logger *logging.ZerologAdapter

	chainMu   sync.Mutex
	lastChain string
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom TesterFactory. The engine settings from the
// configuration are then not applied.
func WithFactory(f proth.TesterFactory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{
		ErrWriter: errWriter,
		Metrics:   metrics.NewMetrics(),
		logger:    logging.NewLogger(errWriter, "engine"),
	}
	for _, opt := range opts {
		opt(app)
	}

	var availableMethods []string
	if app.Factory != nil {
		availableMethods = app.Factory.List()
	} else {
		availableMethods = proth.NewDefaultFactory().List()
	}

	programName := "prothcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, availableMethods)
	if err != nil {
		return nil, err
	}
	if cached, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
		cfg = cached
	}
	app.Config = config.ApplyAdaptiveDefaults(cfg)

	if app.Factory == nil {
		app.Factory = proth.NewDefaultFactory(app.engineOptions()...)
	}
	return app, nil
}

// engineOptions turns the configuration into engine tester options.
func (a *Application) engineOptions() []proth.EngineOption {
	return []proth.EngineOption{
		proth.WithEngineThreshold(a.Config.Threshold),
		proth.WithMaxEngineBits(a.Config.MaxEngineBits),
		proth.WithGCMode(a.Config.GCMode),
		proth.WithEngineMemoryLimit(a.Config.MemoryLimitBytes()),
		proth.WithEngineLogger(a.logger.Zerolog()),
		proth.WithChainObserver(a.observeChain),
	}
}

// observeChain feeds the chain gauges and keeps the description for the
// verbose report. The chain logs its own plan at debug level.
func (a *Application) observeChain(c *ssmul.Chain) {
	a.Metrics.ObserveChain(c)
	desc := c.Describe()
	a.chainMu.Lock()
	a.lastChain = desc
	a.chainMu.Unlock()
}

func (a *Application) chainDescription() string {
	a.chainMu.Lock()
	defer a.chainMu.Unlock()
	return a.lastChain
}

// Run executes the test described by the configuration and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	switch {
	case a.Config.Quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case a.Config.Verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	ui.InitTheme(a.Config.NoColor)

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}
	return a.runCalculate(ctx, out)
}

// runCalibration times the engine threshold for the size of the given
// number, or a default size without one, and saves the profile.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	bits := calibration.DefaultCalibrationBits
	if a.Config.Number != "" {
		n, err := proth.Parse(a.Config.Number)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		bits = n.Bits()
	}

	if _, err := calibration.RunCalibration(ctx, out, bits, a.Config.CalibrationProfile); err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, 0, out)
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
