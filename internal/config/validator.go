package config

import (
	"fmt"
	"net"
	"net/url"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "splash.min_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidStyles returns the glamour styles accepted by site.style
func ValidStyles() []string {
	return []string{"auto", "dark", "light", "notty", "dracula", "tokyo-night"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSplash()...)
	errors = append(errors, c.validatePreload()...)
	errors = append(errors, c.validateTransition()...)
	errors = append(errors, c.validateNetwork()...)
	errors = append(errors, c.validateSite()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateMetrics()...)

	return errors
}

func positive(field string, v int) []ValidationError {
	if v <= 0 {
		return []ValidationError{{Field: field, Value: v, Message: "must be positive"}}
	}
	return nil
}

func nonNegative(field string, v int) []ValidationError {
	if v < 0 {
		return []ValidationError{{Field: field, Value: v, Message: "must be non-negative"}}
	}
	return nil
}

// validateSplash validates the SplashConfig
func (c *Config) validateSplash() []ValidationError {
	var errors []ValidationError

	errors = append(errors, positive("splash.target_ms", c.Splash.TargetMs)...)
	errors = append(errors, nonNegative("splash.min_ms", c.Splash.MinMs)...)
	errors = append(errors, nonNegative("splash.reveal_ms", c.Splash.RevealMs)...)
	errors = append(errors, positive("splash.frame_ms", c.Splash.FrameMs)...)

	// The ceiling must leave room for the minimum duration
	if c.Splash.MaxMs < c.Splash.MinMs {
		errors = append(errors, ValidationError{
			Field:   "splash.max_ms",
			Value:   c.Splash.MaxMs,
			Message: fmt.Sprintf("must be at least splash.min_ms (%d)", c.Splash.MinMs),
		})
	}

	for i, route := range c.Splash.SkipRoutes {
		if !strings.HasPrefix(route, "/") {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("splash.skip_routes[%d]", i),
				Value:   route,
				Message: "must start with /",
			})
		}
	}

	return errors
}

// validatePreload validates the PreloadConfig
func (c *Config) validatePreload() []ValidationError {
	var errors []ValidationError

	const maxBatchSize = 64
	errors = append(errors, positive("preload.batch_size", c.Preload.BatchSize)...)
	if c.Preload.BatchSize > maxBatchSize {
		errors = append(errors, ValidationError{
			Field:   "preload.batch_size",
			Value:   c.Preload.BatchSize,
			Message: fmt.Sprintf("exceeds maximum of %d", maxBatchSize),
		})
	}
	errors = append(errors, positive("preload.timeout_ms", c.Preload.TimeoutMs)...)

	return errors
}

// validateTransition validates the TransitionConfig
func (c *Config) validateTransition() []ValidationError {
	var errors []ValidationError

	errors = append(errors, nonNegative("transition.enter_ms", c.Transition.EnterMs)...)
	errors = append(errors, nonNegative("transition.navigate_ms", c.Transition.NavigateMs)...)
	errors = append(errors, nonNegative("transition.hold_ms", c.Transition.HoldMs)...)
	errors = append(errors, nonNegative("transition.exit_ms", c.Transition.ExitMs)...)

	return errors
}

// validateNetwork validates the NetworkConfig
func (c *Config) validateNetwork() []ValidationError {
	var errors []ValidationError

	if !c.Network.Enabled {
		return nil
	}

	errors = append(errors, positive("network.interval_ms", c.Network.IntervalMs)...)
	errors = append(errors, positive("network.timeout_ms", c.Network.TimeoutMs)...)

	if c.Network.ProbeURL != "" {
		errors = append(errors, validateHTTPURL("network.probe_url", c.Network.ProbeURL)...)
	}

	return errors
}

// validateSite validates the SiteConfig
func (c *Config) validateSite() []ValidationError {
	var errors []ValidationError

	if c.Site.Origin != "" {
		errors = append(errors, validateHTTPURL("site.origin", c.Site.Origin)...)
	}

	if c.Site.Style != "" && !slices.Contains(ValidStyles(), c.Site.Style) {
		errors = append(errors, ValidationError{
			Field:   "site.style",
			Value:   c.Site.Style,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidStyles(), ", ")),
		})
	}

	if c.Site.Watch && c.Site.Manifest == "" {
		errors = append(errors, ValidationError{
			Field:   "site.watch",
			Value:   c.Site.Watch,
			Message: "requires site.manifest to be set",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	errors = append(errors, nonNegative("logging.max_size_mb", c.Logging.MaxSizeMB)...)
	errors = append(errors, nonNegative("logging.max_backups", c.Logging.MaxBackups)...)

	return errors
}

// validateMetrics validates the MetricsConfig
func (c *Config) validateMetrics() []ValidationError {
	if !c.Metrics.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
		return []ValidationError{{
			Field:   "metrics.addr",
			Value:   c.Metrics.Addr,
			Message: "must be a host:port listen address",
		}}
	}
	return nil
}

func validateHTTPURL(field, raw string) []ValidationError {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return []ValidationError{{
			Field:   field,
			Value:   raw,
			Message: "must be an absolute http(s) URL",
		}}
	}
	return nil
}
