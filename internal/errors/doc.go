// Package apperrors defines the error classes shared across prothcalc
// (configuration, validation, hex parsing, calculation, timeout, memory) and
// the exit codes the CLI derives from them.
//
// All wrapping goes through fmt.Errorf with %w, so callers inspect chains
// with errors.Is and errors.As.
package apperrors
