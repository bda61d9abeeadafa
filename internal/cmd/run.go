package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/folio/internal/boot"
	"github.com/Iron-Ham/folio/internal/config"
	"github.com/Iron-Ham/folio/internal/logging"
	"github.com/Iron-Ham/folio/internal/nav"
	"github.com/Iron-Ham/folio/internal/site"
	"github.com/Iron-Ham/folio/internal/tui"
)

var rootRoute string

func runRoot(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("folio needs an interactive terminal; use 'folio warmup' for a headless run")
	}

	env, closeEnv, err := buildEnv(boot.WithInitialRoute(nav.Clean(rootRoute)))
	if err != nil {
		return err
	}
	defer closeEnv()

	return tui.New(env).Run(cmd.Context())
}

// buildEnv loads the config and manifest and composes a runtime. The
// returned func closes the logger and detaches metrics.
func buildEnv(opts ...boot.BuildOption) (*boot.Env, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	manifest, err := site.Load(cfg.Site.Manifest)
	if err != nil {
		_ = logger.Close()
		return nil, nil, err
	}

	env, err := boot.Build(cfg, manifest, logger, opts...)
	if err != nil {
		_ = logger.Close()
		return nil, nil, err
	}
	logger.Info("folio started",
		"manifest", manifest.Path,
		"sections", len(manifest.Sections),
		"assets", len(manifest.Assets),
	)

	return env, func() {
		env.Close()
		_ = logger.Close()
	}, nil
}

// newLogger returns a file logger in the configured directory, or a no-op
// logger when logging is disabled.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	logger, err := logging.NewLogger(cfg.Logging.ResolveLogDir(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, nil
}
