package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete folio configuration
type Config struct {
	Splash     SplashConfig     `mapstructure:"splash"`
	Preload    PreloadConfig    `mapstructure:"preload"`
	Transition TransitionConfig `mapstructure:"transition"`
	Network    NetworkConfig    `mapstructure:"network"`
	Site       SiteConfig       `mapstructure:"site"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// SplashConfig controls the boot splash timing
type SplashConfig struct {
	// TargetMs is the nominal time for the counter to climb from 1 to 100 (default: 3000)
	TargetMs int `mapstructure:"target_ms"`
	// MinMs is the minimum time the splash stays in the loading phase (default: 2000)
	MinMs int `mapstructure:"min_ms"`
	// MaxMs forces the reveal even if critical resources are still pending (default: 10000)
	MaxMs int `mapstructure:"max_ms"`
	// RevealMs is the length of the reveal animation (default: 1200)
	RevealMs int `mapstructure:"reveal_ms"`
	// FrameMs is the animation frame interval (default: 16)
	FrameMs int `mapstructure:"frame_ms"`
	// SkipRoutes are routes that never show the splash
	SkipRoutes []string `mapstructure:"skip_routes"`
}

// PreloadConfig controls the resource preloader
type PreloadConfig struct {
	// BatchSize is the number of loads dispatched concurrently per batch (default: 6)
	BatchSize int `mapstructure:"batch_size"`
	// TimeoutMs bounds every network-backed or signal resource (default: 10000)
	TimeoutMs int `mapstructure:"timeout_ms"`
	// UserAgent is sent with asset requests
	UserAgent string `mapstructure:"user_agent"`
}

// TransitionConfig controls the fog cover timing between pages
type TransitionConfig struct {
	// EnterMs is how long the fog takes to become opaque (default: 600)
	EnterMs int `mapstructure:"enter_ms"`
	// NavigateMs is the delay after the fog is opaque before the route swaps (default: 100)
	NavigateMs int `mapstructure:"navigate_ms"`
	// HoldMs keeps the fog opaque after navigation (default: 500)
	HoldMs int `mapstructure:"hold_ms"`
	// ExitMs is how long the fog takes to lift (default: 800)
	ExitMs int `mapstructure:"exit_ms"`
}

// NetworkConfig controls the connectivity monitor
type NetworkConfig struct {
	// Enabled turns on periodic reachability probes (default: true)
	Enabled bool `mapstructure:"enabled"`
	// ProbeURL is the URL probed with HEAD. Empty uses site.origin.
	ProbeURL string `mapstructure:"probe_url"`
	// IntervalMs is the time between probes (default: 10000)
	IntervalMs int `mapstructure:"interval_ms"`
	// TimeoutMs bounds a single probe (default: 3000)
	TimeoutMs int `mapstructure:"timeout_ms"`
}

// SiteConfig controls where the portfolio content comes from
type SiteConfig struct {
	// Manifest is the path to a site manifest YAML file.
	// Empty uses the manifest compiled into the binary.
	Manifest string `mapstructure:"manifest"`
	// Origin is prepended to relative asset locators
	Origin string `mapstructure:"origin"`
	// Watch reloads the manifest on change and registers new assets late
	Watch bool `mapstructure:"watch"`
	// Style is the glamour style used for section bodies: "dark", "light", "notty", "auto"
	Style string `mapstructure:"style"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the directory holding folio.log. Empty uses DataDir().
	Dir string `mapstructure:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 5)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 2)
	MaxBackups int `mapstructure:"max_backups"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	// Enabled serves /metrics and /healthz while folio runs (default: false)
	Enabled bool `mapstructure:"enabled"`
	// Addr is the listen address (default: "127.0.0.1:9464")
	Addr string `mapstructure:"addr"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Splash: SplashConfig{
			TargetMs:   3000,
			MinMs:      2000,
			MaxMs:      10000,
			RevealMs:   1200,
			FrameMs:    16,
			SkipRoutes: []string{"/privacy", "/terms", "/sitemap"},
		},
		Preload: PreloadConfig{
			BatchSize: 6,
			TimeoutMs: 10000,
			UserAgent: "folio",
		},
		Transition: TransitionConfig{
			EnterMs:    600,
			NavigateMs: 100,
			HoldMs:     500,
			ExitMs:     800,
		},
		Network: NetworkConfig{
			Enabled:    true,
			ProbeURL:   "",
			IntervalMs: 10000,
			TimeoutMs:  3000,
		},
		Site: SiteConfig{
			Manifest: "",
			Origin:   "",
			Watch:    false,
			Style:    "dark",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  5,
			MaxBackups: 2,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9464",
		},
	}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// Target returns the nominal counter duration
func (c *SplashConfig) Target() time.Duration { return ms(c.TargetMs) }

// Min returns the minimum loading duration
func (c *SplashConfig) Min() time.Duration { return ms(c.MinMs) }

// Max returns the forced-reveal ceiling
func (c *SplashConfig) Max() time.Duration { return ms(c.MaxMs) }

// Reveal returns the reveal animation duration
func (c *SplashConfig) Reveal() time.Duration { return ms(c.RevealMs) }

// Frame returns the animation frame interval
func (c *SplashConfig) Frame() time.Duration { return ms(c.FrameMs) }

// Timeout returns the per-resource load timeout
func (c *PreloadConfig) Timeout() time.Duration { return ms(c.TimeoutMs) }

// Enter returns the fog enter duration
func (c *TransitionConfig) Enter() time.Duration { return ms(c.EnterMs) }

// Navigate returns the delay between full cover and navigation
func (c *TransitionConfig) Navigate() time.Duration { return ms(c.NavigateMs) }

// Hold returns how long the cover stays after navigation
func (c *TransitionConfig) Hold() time.Duration { return ms(c.HoldMs) }

// Exit returns the fog exit duration
func (c *TransitionConfig) Exit() time.Duration { return ms(c.ExitMs) }

// Interval returns the probe interval
func (c *NetworkConfig) Interval() time.Duration { return ms(c.IntervalMs) }

// Timeout returns the single-probe timeout
func (c *NetworkConfig) Timeout() time.Duration { return ms(c.TimeoutMs) }

// ResolveProbeURL returns ProbeURL, falling back to the site origin.
func (c *Config) ResolveProbeURL() string {
	if c.Network.ProbeURL != "" {
		return c.Network.ProbeURL
	}
	return c.Site.Origin
}

// ResolveLogDir returns the logging directory, defaulting to DataDir().
func (c *LoggingConfig) ResolveLogDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return DataDir()
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Splash defaults
	viper.SetDefault("splash.target_ms", defaults.Splash.TargetMs)
	viper.SetDefault("splash.min_ms", defaults.Splash.MinMs)
	viper.SetDefault("splash.max_ms", defaults.Splash.MaxMs)
	viper.SetDefault("splash.reveal_ms", defaults.Splash.RevealMs)
	viper.SetDefault("splash.frame_ms", defaults.Splash.FrameMs)
	viper.SetDefault("splash.skip_routes", defaults.Splash.SkipRoutes)

	// Preload defaults
	viper.SetDefault("preload.batch_size", defaults.Preload.BatchSize)
	viper.SetDefault("preload.timeout_ms", defaults.Preload.TimeoutMs)
	viper.SetDefault("preload.user_agent", defaults.Preload.UserAgent)

	// Transition defaults
	viper.SetDefault("transition.enter_ms", defaults.Transition.EnterMs)
	viper.SetDefault("transition.navigate_ms", defaults.Transition.NavigateMs)
	viper.SetDefault("transition.hold_ms", defaults.Transition.HoldMs)
	viper.SetDefault("transition.exit_ms", defaults.Transition.ExitMs)

	// Network defaults
	viper.SetDefault("network.enabled", defaults.Network.Enabled)
	viper.SetDefault("network.probe_url", defaults.Network.ProbeURL)
	viper.SetDefault("network.interval_ms", defaults.Network.IntervalMs)
	viper.SetDefault("network.timeout_ms", defaults.Network.TimeoutMs)

	// Site defaults
	viper.SetDefault("site.manifest", defaults.Site.Manifest)
	viper.SetDefault("site.origin", defaults.Site.Origin)
	viper.SetDefault("site.watch", defaults.Site.Watch)
	viper.SetDefault("site.style", defaults.Site.Style)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	// Metrics defaults
	viper.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	viper.SetDefault("metrics.addr", defaults.Metrics.Addr)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults
// if it cannot be loaded.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "folio")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".folio"
	}
	return filepath.Join(home, ".config", "folio")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the directory for logs and other runtime state
func DataDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "folio")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".folio"
	}
	return filepath.Join(home, ".local", "state", "folio")
}
