// Package errors provides centralized error definitions and error handling utilities
// for folio. It defines sentinel errors for the boot orchestrator, typed errors
// carrying resource and transition context, and classification helpers.
//
// # Error Types
//
// Domain-specific errors:
//   - LoadError: a resource or module failed to settle successfully
//   - TransitionError: a fog transition could not be started or completed
//
// Semantic errors:
//   - ValidationError: invalid input or state
//   - TimeoutError: operation timed out
//
// # Usage
//
//	err := errors.NewLoadError("image fetch failed", cause).
//	    WithResource("logo", "image").
//	    WithLocator("https://example.com/logo.png")
//
//	if errors.Is(err, errors.ErrLoadTimeout) { ... }
//
//	var loadErr *errors.LoadError
//	if errors.As(err, &loadErr) { ... }
//
// Load failures never propagate to the user: the preloader records them as
// settled and logs them at the severity reported by [GetSeverity].
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Preloader sentinel errors
var (
	// ErrLoadTimeout indicates that a resource did not settle within its timeout.
	ErrLoadTimeout = New("resource load timed out")
	// ErrLoadFailed indicates that a resource or module reported a failure.
	ErrLoadFailed = New("resource load failed")
	// ErrRegistryClosed indicates a registration after the critical path completed.
	ErrRegistryClosed = New("preloader registry is closed")
	// ErrAlreadyStarted indicates that Start was called more than once.
	ErrAlreadyStarted = New("preloader already started")
	// ErrPreloadReset indicates that the preloader was reset while Start waited.
	ErrPreloadReset = New("preloader was reset")
)

// Transition sentinel errors
var (
	// ErrTransitionActive indicates a trigger while another transition is in flight.
	ErrTransitionActive = New("transition already in progress")
)

// Site and connectivity sentinel errors
var (
	// ErrManifestInvalid indicates that the site manifest failed validation.
	ErrManifestInvalid = New("site manifest is invalid")
	// ErrSectionNotFound indicates that a section id is not in the manifest.
	ErrSectionNotFound = New("section not found")
	// ErrOffline indicates that the reachability probe failed.
	ErrOffline = New("network is unreachable")
)

// General sentinel errors
var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// FolioError is the base interface for all folio errors.
type FolioError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error {
	return e.cause
}

func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

func (e *baseError) Severity() Severity {
	return e.severity
}

func (e *baseError) IsRetryable() bool {
	return e.retryable
}

func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// LoadError describes a resource or module that settled as failed.
//
// Example:
//
//	err := errors.NewLoadError("fetch failed", errors.ErrLoadTimeout).
//	    WithResource("logo", "image").WithDuration(10 * time.Second)
//	fmt.Println(err) // "load error [resource=logo, kind=image, after=10s]: fetch failed: resource load timed out"
type LoadError struct {
	baseError
	Resource string
	Kind     string
	Locator  string
	Critical bool
	Duration time.Duration
}

// NewLoadError creates a new LoadError. Load failures are never retried,
// so the error is not retryable and is only surfaced in logs.
func NewLoadError(message string, cause error) *LoadError {
	return &LoadError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: false,
		},
	}
}

// WithResource adds the resource name and kind to the error context.
func (e *LoadError) WithResource(name, kind string) *LoadError {
	e.Resource = name
	e.Kind = kind
	return e
}

// WithLocator adds the resource locator (URL or path).
func (e *LoadError) WithLocator(locator string) *LoadError {
	e.Locator = locator
	return e
}

// WithCritical marks the failed resource as part of the critical path.
// Critical failures are logged at error severity.
func (e *LoadError) WithCritical(critical bool) *LoadError {
	e.Critical = critical
	if critical {
		e.severity = SeverityError
	}
	return e
}

// WithDuration records how long the load ran before settling.
func (e *LoadError) WithDuration(d time.Duration) *LoadError {
	e.Duration = d
	return e
}

// Error returns the formatted error message.
func (e *LoadError) Error() string {
	var parts []string
	if e.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", e.Resource))
	}
	if e.Kind != "" {
		parts = append(parts, fmt.Sprintf("kind=%s", e.Kind))
	}
	if e.Duration > 0 {
		parts = append(parts, fmt.Sprintf("after=%s", e.Duration))
	}

	prefix := "load error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("load error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *LoadError) Is(target error) bool {
	if _, ok := target.(*LoadError); ok {
		return true
	}
	if errors.Is(target, ErrLoadFailed) {
		return true
	}
	return e.baseError.Is(target)
}

// TransitionError describes a fog transition that could not run.
type TransitionError struct {
	baseError
	TransitionID string
	Stage        string
}

// NewTransitionError creates a new TransitionError.
func NewTransitionError(message string, cause error) *TransitionError {
	return &TransitionError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityInfo,
			retryable:  true,
			userFacing: false,
		},
	}
}

// WithTransition records the id and stage of the in-flight transition.
func (e *TransitionError) WithTransition(id, stage string) *TransitionError {
	e.TransitionID = id
	e.Stage = stage
	return e
}

// Error returns the formatted error message.
func (e *TransitionError) Error() string {
	prefix := "transition error"
	if e.TransitionID != "" {
		prefix = fmt.Sprintf("transition error [active=%s, stage=%s]", e.TransitionID, e.Stage)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *TransitionError) Is(target error) bool {
	if _, ok := target.(*TransitionError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("section id cannot be empty").WithField("sections[2].id")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// TimeoutError represents an operation that timed out.
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:    operation,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: true,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	if errors.Is(target, ErrTimeout) || errors.Is(target, ErrLoadTimeout) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var folioErr FolioError
	if As(err, &folioErr) {
		return folioErr.IsRetryable()
	}

	return Is(err, ErrTimeout) || Is(err, ErrLoadTimeout) || Is(err, ErrOffline)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var folioErr FolioError
	if As(err, &folioErr) {
		return folioErr.IsUserFacing()
	}

	return Is(err, ErrOffline)
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement FolioError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var folioErr FolioError
	if As(err, &folioErr) {
		return folioErr.Severity()
	}

	return SeverityError
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
