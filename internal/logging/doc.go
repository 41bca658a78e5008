// Package logging provides the structured logging interface used by
// prothcalc. The default backend is zerolog. A std log adapter exists for
// callers that already hold a *log.Logger.
package logging
