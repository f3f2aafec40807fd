package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"controlui/internal/app"
	"controlui/internal/logging"
	"controlui/internal/polling"
	"controlui/internal/types"
)

type UICommand struct {
	stderr       io.Writer
	newScheduler func() polling.Scheduler
	runUI        func(ctx context.Context, polls *polling.Controller, opts app.Options) error
	newLogger    loggerFactory
	isTerminal   func() bool
	version      string
}

func NewUICommand(stderr io.Writer, newScheduler func() polling.Scheduler, runUI func(context.Context, *polling.Controller, app.Options) error, version string) *UICommand {
	return &UICommand{
		stderr:       stderr,
		newScheduler: newScheduler,
		runUI:        runUI,
		newLogger:    fileLogger,
		isTerminal:   stdoutIsTerminal,
		version:      version,
	}
}

func (c *UICommand) Run(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	rawURL := fs.String("url", "", "share link to bootstrap from (token, sessionKey, tab path)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.isTerminal != nil && !c.isTerminal() {
		return errors.New("ui needs an interactive terminal; use open or link instead")
	}

	env, err := openEnvironment(c.newLogger, c.newScheduler())
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host, tab, err := env.bootstrap(ctx, *rawURL)
	if err != nil {
		return err
	}
	env.logger.Info("ui_start",
		logging.F("version", c.version),
		logging.F("tab", tab),
		logging.F("session", host.SessionKey()),
		logging.F("settings", env.store.Path()),
	)
	opts := app.Options{
		Host:       host,
		Reconciler: env.reconciler,
		NewGateway: func(record types.Settings) (app.Gateway, error) {
			gateway, err := newGatewayClient(record)
			if err != nil {
				return nil, err
			}
			return gateway, nil
		},
		InitialTab: tab,
		Origin:     shareOrigin(host.Settings()),
		BasePath:   env.uiConfig.BasePath(),
		Logger:     env.logger.With(logging.F("component", "ui")),
	}
	return c.runUI(ctx, env.polls, opts)
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
