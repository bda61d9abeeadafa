package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/folio/internal/boot"
	"github.com/Iron-Ham/folio/internal/errors"
	"github.com/Iron-Ham/folio/internal/nav"
)

var warmupCmd = &cobra.Command{
	Use:   "warmup",
	Short: "Preload the site without a terminal UI",
	Long: `Preload every asset and section of the site and play the splash
headlessly, printing progress as it goes.

Useful to check a manifest before publishing it: failed resources are listed
at the end and, with --strict, make the command exit non-zero. Failures that
may pass on a later run (timeouts, no network) are marked transient.`,
	Args: cobra.NoArgs,
	RunE: runWarmup,
}

var (
	warmupRoute  string
	warmupStrict bool
	warmupQuiet  bool
)

func init() {
	rootCmd.AddCommand(warmupCmd)

	warmupCmd.Flags().StringVarP(&warmupRoute, "route", "r", "/", "route to warm up")
	warmupCmd.Flags().BoolVar(&warmupStrict, "strict", false, "exit non-zero when any resource fails")
	warmupCmd.Flags().BoolVarP(&warmupQuiet, "quiet", "q", false, "only print the summary")
}

func runWarmup(cmd *cobra.Command, args []string) error {
	route := nav.Clean(warmupRoute)
	env, closeEnv, err := buildEnv(boot.WithInitialRoute(route))
	if err != nil {
		return err
	}
	defer closeEnv()

	out := cmd.OutOrStdout()
	progress := out
	if warmupQuiet {
		progress = io.Discard
	}

	report, err := boot.NewSequence(env, route).Run(cmd.Context(), progress)
	if err != nil {
		return err
	}
	// Let background work settle so the summary covers every resource.
	env.Preloader.Wait()

	fmt.Fprintf(out, "\nwarmup of %s finished in %s\n", report.Route, report.Elapsed.Round(time.Millisecond))
	var failed int
	for _, r := range env.Preloader.Resources() {
		if !r.Failed {
			continue
		}
		failed++
		var notes string
		if r.Critical {
			notes += " (critical)"
		}
		if errors.IsRetryable(r.Err) {
			notes += " (transient)"
		}
		fmt.Fprintf(out, "  failed %s %s%s: %v\n", r.Kind, r.Name, notes, r.Err)
	}
	total := len(env.Preloader.Resources())
	fmt.Fprintf(out, "%d/%d resources loaded\n", total-failed, total)

	if warmupStrict && failed > 0 {
		return fmt.Errorf("%d of %d resources failed", failed, total)
	}
	return nil
}
