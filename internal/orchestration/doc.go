// Package orchestration runs one or more Proth testers concurrently and
// compares their verdicts. It talks to the presentation layer only through
// the ProgressReporter and ResultPresenter interfaces.
package orchestration
