package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/folio/internal/config"
	"github.com/Iron-Ham/folio/internal/site"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or check folio configuration",
	Long: `View or check folio configuration.

Without arguments, displays the current configuration.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and the site manifest",
	Long: `Validate the configuration file and the site manifest it points at.

Every problem is reported, not just the first one. The command exits
non-zero when anything is invalid.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	writeConfig(out, cfg)
	return nil
}

func writeConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "splash:")
	fmt.Fprintf(out, "  target_ms: %d\n", cfg.Splash.TargetMs)
	fmt.Fprintf(out, "  min_ms: %d\n", cfg.Splash.MinMs)
	fmt.Fprintf(out, "  max_ms: %d\n", cfg.Splash.MaxMs)
	fmt.Fprintf(out, "  reveal_ms: %d\n", cfg.Splash.RevealMs)
	fmt.Fprintf(out, "  frame_ms: %d\n", cfg.Splash.FrameMs)
	fmt.Fprintf(out, "  skip_routes: [%s]\n", strings.Join(cfg.Splash.SkipRoutes, ", "))

	fmt.Fprintln(out, "preload:")
	fmt.Fprintf(out, "  batch_size: %d\n", cfg.Preload.BatchSize)
	fmt.Fprintf(out, "  timeout_ms: %d\n", cfg.Preload.TimeoutMs)
	fmt.Fprintf(out, "  user_agent: %s\n", cfg.Preload.UserAgent)

	fmt.Fprintln(out, "transition:")
	fmt.Fprintf(out, "  enter_ms: %d\n", cfg.Transition.EnterMs)
	fmt.Fprintf(out, "  navigate_ms: %d\n", cfg.Transition.NavigateMs)
	fmt.Fprintf(out, "  hold_ms: %d\n", cfg.Transition.HoldMs)
	fmt.Fprintf(out, "  exit_ms: %d\n", cfg.Transition.ExitMs)

	fmt.Fprintln(out, "network:")
	fmt.Fprintf(out, "  enabled: %v\n", cfg.Network.Enabled)
	fmt.Fprintf(out, "  probe_url: %s\n", valueOr(cfg.Network.ProbeURL, "(site.origin)"))
	fmt.Fprintf(out, "  interval_ms: %d\n", cfg.Network.IntervalMs)
	fmt.Fprintf(out, "  timeout_ms: %d\n", cfg.Network.TimeoutMs)

	fmt.Fprintln(out, "site:")
	fmt.Fprintf(out, "  manifest: %s\n", valueOr(cfg.Site.Manifest, "(built in)"))
	fmt.Fprintf(out, "  origin: %s\n", valueOr(cfg.Site.Origin, "(none)"))
	fmt.Fprintf(out, "  watch: %v\n", cfg.Site.Watch)
	fmt.Fprintf(out, "  style: %s\n", cfg.Site.Style)

	fmt.Fprintln(out, "logging:")
	fmt.Fprintf(out, "  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Fprintf(out, "  level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  dir: %s\n", cfg.Logging.ResolveLogDir())
	fmt.Fprintf(out, "  max_size_mb: %d\n", cfg.Logging.MaxSizeMB)
	fmt.Fprintf(out, "  max_backups: %d\n", cfg.Logging.MaxBackups)

	fmt.Fprintln(out, "metrics:")
	fmt.Fprintf(out, "  enabled: %v\n", cfg.Metrics.Enabled)
	fmt.Fprintf(out, "  addr: %s\n", cfg.Metrics.Addr)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "config: %v\n", err)
		return fmt.Errorf("configuration is invalid")
	}
	fmt.Fprintln(out, "config: ok")

	m, err := site.Load(cfg.Site.Manifest)
	if err != nil {
		fmt.Fprintf(out, "manifest: %v\n", err)
		return fmt.Errorf("site manifest is invalid")
	}
	fmt.Fprintf(out, "manifest: ok (%d sections, %d projects, %d assets)\n",
		len(m.Sections), len(m.Projects), len(m.Assets))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", configFile)
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: FOLIO_* (e.g., FOLIO_SPLASH_MIN_MS)")

	return nil
}
