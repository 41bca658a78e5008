package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Process exit codes reported by the prothcalc binary.
const (
	ExitSuccess       = 0   // Test completed.
	ExitErrorGeneric  = 1   // Unclassified failure.
	ExitErrorTimeout  = 2   // The configured timeout elapsed.
	ExitErrorMismatch = 3   // Two testers disagreed on a verdict or residue.
	ExitErrorConfig   = 4   // Bad flags, environment, config file or number.
	ExitErrorCanceled = 130 // Interrupted (SIGINT convention).
)

// ConfigError reports invalid user configuration: an unknown method, a
// malformed flag value, an unreadable config file.
type ConfigError struct {
	// Message explains what is wrong.
	Message string
}

// Error returns the message.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A ConfigError carrying the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError wraps a failure raised while a primality tester runs,
// keeping the original cause inspectable with errors.Is and errors.As.
type CalculationError struct {
	// Cause is the underlying error.
	Cause error
}

// Error returns the message of the cause.
func (e CalculationError) Error() string { return e.Cause.Error() }

// Unwrap returns the cause.
func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError reports that an operation exceeded its time limit.
type TimeoutError struct {
	// Operation names what timed out (usually a tester name).
	Operation string
	// Limit is the exceeded duration.
	Limit time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError reports an input that failed validation, such as a number
// that is not in Proth notation.
type ValidationError struct {
	// Field names the rejected input.
	Field string
	// Message explains the rejection.
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// ParseBigError reports a hexadecimal string that cannot be decoded into a
// fixed-capacity integer.
type ParseBigError struct {
	// Input is the rejected string.
	Input string
	// Pos is the byte offset of the offending character, or -1 when the
	// whole input is at fault (for example, it is too long).
	Pos int
	// Reason explains the rejection.
	Reason string
}

// Error returns a formatted message describing the parse failure.
//
// Returns:
//   - string: The error message string.
func (e ParseBigError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("cannot parse %q as hex: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("cannot parse %q as hex: %s at offset %d", e.Input, e.Reason, e.Pos)
}

// MemoryError reports that a workspace would exceed the configured memory
// limit.
type MemoryError struct {
	// Requested is the number of bytes the operation needed.
	Requested uint64
	// Available is the number of bytes that may still be used.
	Available uint64
	// Limit is the configured limit in bytes.
	Limit uint64
}

func (e MemoryError) Error() string {
	return fmt.Sprintf("memory error: requested %d bytes, available %d bytes (limit: %d)", e.Requested, e.Available, e.Limit)
}

// WrapError adds context to err with fmt.Errorf and %w. It returns nil when
// err is nil.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError reports whether err is a context cancellation or deadline
// error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the process exit code the CLI reports for it.
//
// Parameters:
//   - err: The error to classify; nil maps to ExitSuccess.
//
// Returns:
//   - int: One of the Exit* constants.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		configErr     ConfigError
		validationErr ValidationError
		parseErr      ParseBigError
		timeoutErr    TimeoutError
	)
	switch {
	case errors.As(err, &configErr), errors.As(err, &validationErr), errors.As(err, &parseErr):
		return ExitErrorConfig
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	default:
		return ExitErrorGeneric
	}
}
