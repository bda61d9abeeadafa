package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadError(t *testing.T) {
	err := NewLoadError("fetch failed", ErrLoadTimeout).
		WithResource("logo", "image").
		WithLocator("https://example.com/logo.png").
		WithDuration(10 * time.Second)

	want := "load error [resource=logo, kind=image, after=10s]: fetch failed: resource load timed out"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrLoadTimeout) {
		t.Error("expected errors.Is(err, ErrLoadTimeout)")
	}
	if !errors.Is(err, ErrLoadFailed) {
		t.Error("every LoadError should match ErrLoadFailed")
	}
	if err.IsRetryable() {
		t.Error("load errors are never retried")
	}
	if err.IsUserFacing() {
		t.Error("load errors should not be user facing")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want warning", err.Severity())
	}

	var target *LoadError
	wrapped := fmt.Errorf("outer: %w", err)
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As should find the LoadError")
	}
	if target.Locator != "https://example.com/logo.png" {
		t.Errorf("Locator = %q", target.Locator)
	}
}

func TestLoadError_Critical(t *testing.T) {
	err := NewLoadError("module panicked", nil).WithCritical(true)
	if err.Severity() != SeverityError {
		t.Errorf("critical load error severity = %v, want error", err.Severity())
	}
	if err.Error() != "load error: module panicked" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestTransitionError(t *testing.T) {
	err := NewTransitionError("trigger rejected", ErrTransitionActive).WithTransition("abc", "full")

	if !errors.Is(err, ErrTransitionActive) {
		t.Error("expected errors.Is(err, ErrTransitionActive)")
	}
	if !strings.Contains(err.Error(), "active=abc") || !strings.Contains(err.Error(), "stage=full") {
		t.Errorf("Error() = %q, missing context", err.Error())
	}
	if !IsRetryable(err) {
		t.Error("a rejected trigger can be retried once idle")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("must be positive").WithField("splash.min_duration").WithValue(-1)

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("validation errors should match ErrInvalidInput")
	}
	want := "validation error [field=splash.min_duration, value=-1]: must be positive"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !IsUserFacing(err) {
		t.Error("validation errors are user facing")
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("reachability probe", 3*time.Second)

	if !errors.Is(err, ErrTimeout) {
		t.Error("expected errors.Is(err, ErrTimeout)")
	}
	if !IsRetryable(err) {
		t.Error("timeouts should be retryable")
	}
	if err.Error() != "timeout error: reachability probe (timeout: 3s)" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestClassificationHelpers(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		retryable  bool
		userFacing bool
		severity   Severity
	}{
		{"nil", nil, false, false, SeverityDebug},
		{"plain", New("boom"), false, false, SeverityError},
		{"offline sentinel", ErrOffline, true, true, SeverityError},
		{"wrapped timeout", Wrap(ErrTimeout, "probe"), true, false, SeverityError},
		{"load timeout", ErrLoadTimeout, true, false, SeverityError},
		{"joined offline", Join(ErrOffline, New("dial tcp: refused")), true, true, SeverityError},
		{"load error", NewLoadError("x", nil), false, false, SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
			if got := IsUserFacing(tt.err); got != tt.userFacing {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.userFacing)
			}
			if got := GetSeverity(tt.err); got != tt.severity {
				t.Errorf("GetSeverity() = %v, want %v", got, tt.severity)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	err := Wrapf(ErrSectionNotFound, "render %s", "skills")
	if err.Error() != "render skills: section not found" {
		t.Errorf("Wrapf() = %q", err.Error())
	}
	if !Is(err, ErrSectionNotFound) {
		t.Error("wrapped error should match its sentinel")
	}
}
