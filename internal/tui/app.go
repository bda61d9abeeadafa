// Package tui is the terminal front end: the boot splash, the portfolio
// pages and the fog cover between them.
package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/Iron-Ham/folio/internal/boot"
	"github.com/Iron-Ham/folio/internal/errors"
	"github.com/Iron-Ham/folio/internal/event"
	"github.com/Iron-Ham/folio/internal/tui/msg"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	env     *boot.Env
}

// New creates a new TUI application starting on the env's initial route.
func New(env *boot.Env) *App {
	return &App{
		model: NewModel(env),
		env:   env,
	}
}

// Run starts the preloader and the background services, then runs the TUI
// until the user quits or the process is signalled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			a.program.Send(tea.Quit())
		case <-ctx.Done():
		}
	}()

	// Forward bus events into the event loop
	subs := []string{
		a.env.Bus.Subscribe(event.TypeNetworkChanged, func(e event.Event) {
			if ne, ok := e.(event.NetworkChangeEvent); ok {
				a.program.Send(msg.NetworkMsg{Online: ne.Online, Cause: ne.Error})
			}
		}),
		a.env.Bus.Subscribe(event.TypeManifestReloaded, func(e event.Event) {
			if me, ok := e.(event.ManifestReloadedEvent); ok {
				a.program.Send(msg.ManifestMsg{Path: me.Path, Added: me.Added, Rejected: me.Rejected})
			}
		}),
	}
	defer func() {
		for _, id := range subs {
			a.env.Bus.Unsubscribe(id)
		}
	}()

	var g errgroup.Group
	g.Go(func() error {
		if err := a.env.Preloader.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// A failed service degrades the session; the pages stay usable.
		if err := a.env.RunServices(ctx); err != nil {
			a.env.Logger.Error("background services stopped", "error", err)
			a.program.Send(msg.ErrMsg{Err: err})
		}
		return nil
	})

	_, err := a.program.Run()
	a.env.Transition.Cancel()
	cancel()
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	if werr := g.Wait(); werr != nil && err == nil {
		err = werr
	}
	return err
}
