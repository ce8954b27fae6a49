// Package poolerrors provides the typed error taxonomy returned and logged
// by the connection pool.
package poolerrors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lattice-db/connpool/logger"
)

// Error codes surfaced to or logged by pool operations.
const (
	// NullArgument is returned when a required argument is nil or empty.
	NullArgument = "null_argument"
	// NotInitialized is returned by Instance before the first Initialize call.
	NotInitialized = "not_initialized"
	// ConfigMissing is returned when a settings or credentials source is
	// missing a required key, or fails validation.
	ConfigMissing = "config_missing"
	// BackendUnavailable wraps a failure to open a new session.
	BackendUnavailable = "backend_unavailable"
	// AcquireTimeout is returned when Acquire cannot obtain a session
	// before its deadline.
	AcquireTimeout = "acquire_timeout"
	// Interrupted is returned when a blocking pool operation is cancelled
	// via its context.
	Interrupted = "interrupted"

	// ValidationFailed is never returned to a caller; it is logged when a
	// session fails liveness validation on handout or release.
	ValidationFailed = "validation_failed"
	// CloseFailed is never returned to a caller; it is logged when closing
	// a discarded session fails.
	CloseFailed = "close_failed"
	// LeakReclaimFailed is never returned to a caller; it is logged when
	// the leak detector fails to reclaim a session it has flagged.
	LeakReclaimFailed = "leak_reclaim_failed"
)

// PoolError is the error type returned and logged by every pool operation.
type PoolError struct {
	Code    string
	Message string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *PoolError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap implements the unwrap interface for error chaining.
func (e *PoolError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *PoolError with the same code.
func (e *PoolError) Is(target error) bool {
	t, ok := target.(*PoolError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Log logs the error at the given level, including any context fields the
// caller has attached via logger.WithContextValue.
func (e *PoolError) Log(ctx context.Context, logLevel slog.Level) {
	logFields := []any{
		"error_code", e.Code,
		"operation", e.Op,
		"message", e.Message,
	}

	if ctx != nil {
		logFields = append(logFields, logger.ExtractContextValues(ctx)...)
	}

	if e.Err != nil {
		logFields = append(logFields, "cause", e.Err.Error())
	}

	switch logLevel {
	case slog.LevelDebug:
		logger.DebugContext(ctx, "pool error occurred", logFields...)
	case slog.LevelInfo:
		logger.InfoContext(ctx, "pool error occurred", logFields...)
	case slog.LevelWarn:
		logger.WarnContext(ctx, "pool error occurred", logFields...)
	default:
		logger.ErrorContext(ctx, "pool error occurred", logFields...)
	}
}

// New creates a new PoolError.
func New(code, message string) *PoolError {
	return &PoolError{Code: code, Message: message}
}

// Errorf creates a new PoolError with a formatted message.
func Errorf(code, format string, args ...interface{}) *PoolError {
	return &PoolError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a code and operation name.
func Wrap(err error, code, op string) *PoolError {
	return &PoolError{Code: code, Message: err.Error(), Op: op, Err: err}
}

// Wrapf wraps an existing error with a code, operation name, and formatted
// message.
func Wrapf(err error, code, op, format string, args ...interface{}) *PoolError {
	return &PoolError{Code: code, Message: fmt.Sprintf(format, args...), Op: op, Err: err}
}

// NewNullArgument reports a required argument that was nil or empty.
func NewNullArgument(op, msg string) *PoolError {
	return &PoolError{Code: NullArgument, Message: msg, Op: op}
}

// NewConfigMissing reports a missing or invalid configuration key.
func NewConfigMissing(op, msg string) *PoolError {
	return &PoolError{Code: ConfigMissing, Message: msg, Op: op}
}

// NewConfigMissingf is NewConfigMissing with a formatted message.
func NewConfigMissingf(op, format string, args ...interface{}) *PoolError {
	return &PoolError{Code: ConfigMissing, Message: fmt.Sprintf(format, args...), Op: op}
}

// NewBackendUnavailable wraps a session-open failure.
func NewBackendUnavailable(op string, err error) *PoolError {
	return &PoolError{Code: BackendUnavailable, Message: err.Error(), Op: op, Err: err}
}

// NewAcquireTimeout reports Acquire exceeding its deadline.
func NewAcquireTimeout(op string) *PoolError {
	return &PoolError{Code: AcquireTimeout, Message: "timed out waiting for a session", Op: op}
}

// NewInterrupted wraps a context cancellation encountered during a blocking
// pool operation.
func NewInterrupted(op string, err error) *PoolError {
	return &PoolError{Code: Interrupted, Message: err.Error(), Op: op, Err: err}
}

// IsNullArgument reports whether err is a NullArgument PoolError.
func IsNullArgument(err error) bool {
	var e *PoolError
	return errors.As(err, &e) && e.Code == NullArgument
}

// IsNotInitialized reports whether err is a NotInitialized PoolError.
func IsNotInitialized(err error) bool {
	var e *PoolError
	return errors.As(err, &e) && e.Code == NotInitialized
}

// IsConfigMissing reports whether err is a ConfigMissing PoolError.
func IsConfigMissing(err error) bool {
	var e *PoolError
	return errors.As(err, &e) && e.Code == ConfigMissing
}

// IsBackendUnavailable reports whether err is a BackendUnavailable PoolError.
func IsBackendUnavailable(err error) bool {
	var e *PoolError
	return errors.As(err, &e) && e.Code == BackendUnavailable
}

// IsAcquireTimeout reports whether err is an AcquireTimeout PoolError.
func IsAcquireTimeout(err error) bool {
	var e *PoolError
	return errors.As(err, &e) && e.Code == AcquireTimeout
}

// IsInterrupted reports whether err is an Interrupted PoolError.
func IsInterrupted(err error) bool {
	var e *PoolError
	return errors.As(err, &e) && e.Code == Interrupted
}

// ErrNotInitialized is returned by Instance before the first successful
// Initialize call.
var ErrNotInitialized = &PoolError{Code: NotInitialized, Message: "pool has not been initialized"}

// LogError logs err at error level, falling back to a generic log line for
// errors that are not *PoolError.
func LogError(ctx context.Context, err error) {
	if e, ok := err.(*PoolError); ok {
		e.Log(ctx, slog.LevelError)
		return
	}
	logger.ErrorContext(ctx, "unexpected error occurred", "error", err.Error())
}

// LogWarning logs err at warn level.
func LogWarning(ctx context.Context, err error) {
	if e, ok := err.(*PoolError); ok {
		e.Log(ctx, slog.LevelWarn)
		return
	}
	logger.WarnContext(ctx, "unexpected error occurred", "error", err.Error())
}

// LogInfo logs err at info level.
func LogInfo(ctx context.Context, err error) {
	if e, ok := err.(*PoolError); ok {
		e.Log(ctx, slog.LevelInfo)
		return
	}
	logger.InfoContext(ctx, "error occurred", "error", err.Error())
}

// LogDebug logs err at debug level.
func LogDebug(ctx context.Context, err error) {
	if e, ok := err.(*PoolError); ok {
		e.Log(ctx, slog.LevelDebug)
		return
	}
	logger.DebugContext(ctx, "error occurred", "error", err.Error())
}
