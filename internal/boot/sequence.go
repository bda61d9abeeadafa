package boot

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Iron-Ham/folio/internal/preload"
	"github.com/Iron-Ham/folio/internal/splash"
)

// Report summarizes a headless splash run.
type Report struct {
	Route    string
	Elapsed  time.Duration
	Progress int
	Phases   []string
	Status   preload.Status
	Skipped  bool // Route was on the skip list
}

// Sequence drives the splash without a terminal UI. It starts the
// preloader, advances the splash controller on a frame ticker and prints
// progress lines.
type Sequence struct {
	env   *Env
	route string
	now   func() time.Time
}

// NewSequence creates a headless driver for route.
func NewSequence(env *Env, route string) *Sequence {
	return &Sequence{env: env, route: route, now: time.Now}
}

// Run plays the splash until it is done or ctx ends. Progress is written to
// out every ten percent and on each phase change. The preloader keeps
// loading in the background after Run returns; call env.Preloader.Wait to
// join it.
func (s *Sequence) Run(ctx context.Context, out io.Writer) (Report, error) {
	env := s.env
	ctl := env.NewSplash(s.route)
	report := Report{Route: s.route, Skipped: ctl.Phase().IsTerminal()}

	ctl.OnPhaseChange(func(_, to splash.Phase) {
		report.Phases = append(report.Phases, to.String())
		fmt.Fprintf(out, "phase %-7s %3d%%\n", to, ctl.Progress())
	})

	// Headless runs have no terminal to wait for.
	env.SignalTerminalReady()

	startCtx, cancelStart := context.WithCancel(ctx)
	startDone := make(chan error, 1)
	go func() {
		startDone <- env.Preloader.Start(startCtx)
	}()
	defer func() {
		cancelStart()
		<-startDone
	}()

	start := s.now()
	finish := func() (Report, error) {
		report.Elapsed = s.now().Sub(start)
		report.Progress = ctl.Progress()
		report.Status = env.Preloader.Status()
		return report, nil
	}

	if report.Skipped {
		fmt.Fprintf(out, "route %s skips the splash\n", s.route)
		return finish()
	}

	timing := ctl.Timing()
	ctl.Start(start)

	ticker := time.NewTicker(timing.Frame)
	defer ticker.Stop()
	ceiling := time.NewTimer(timing.Max)
	defer ceiling.Stop()

	lastDecile := -1
	for {
		var now time.Time
		select {
		case <-ctx.Done():
			report.Elapsed = s.now().Sub(start)
			report.Progress = ctl.Progress()
			report.Status = env.Preloader.Status()
			return report, ctx.Err()
		case now = <-ticker.C:
		case now = <-ceiling.C:
		}

		phase := ctl.Advance(now, env.Preloader.Status().Complete)
		if p := ctl.Progress(); p/10 != lastDecile && phase == splash.PhaseLoading {
			lastDecile = p / 10
			st := env.Preloader.Status()
			fmt.Fprintf(out, "loading %3d%%  resources %d/%d\n", p, st.Loaded, st.Total)
		}
		if phase.IsTerminal() {
			return finish()
		}
	}
}
