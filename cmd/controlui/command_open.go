package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"controlui/internal/polling"
	"controlui/internal/urlparams"
)

// OpenCommand applies a share link to the saved settings without starting
// the terminal UI.
type OpenCommand struct {
	stdout       io.Writer
	stderr       io.Writer
	newScheduler func() polling.Scheduler
}

func NewOpenCommand(stdout, stderr io.Writer, newScheduler func() polling.Scheduler) *OpenCommand {
	return &OpenCommand{
		stdout:       stdout,
		stderr:       stderr,
		newScheduler: newScheduler,
	}
}

func (c *OpenCommand) Run(args []string) error {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	acceptGateway := fs.Bool("accept-gateway", false, "adopt a gatewayUrl carried by the link")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: controlui open [--accept-gateway] URL")
	}
	rawURL := fs.Arg(0)

	env, err := openEnvironment(stderrLogger(c.stderr), c.newScheduler())
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := context.Background()
	host, tab, err := env.bootstrap(ctx, rawURL)
	if err != nil {
		return err
	}
	defer env.reconciler.Shutdown(host)
	if err := env.reconciler.SetTabFromRoute(ctx, host, tab); err != nil {
		return err
	}

	if pending := host.PendingGatewayURL(); pending != "" {
		if *acceptGateway {
			next := host.Settings()
			next.GatewayURL = pending
			host.ClearPendingGatewayURL()
			if err := env.reconciler.ApplySettings(ctx, host, next); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(c.stderr, "link asks to switch the gateway to %s; rerun with --accept-gateway to adopt it\n", pending)
		}
	}

	keys := urlparams.Parse(rawURL).Keys()
	applied := "none"
	if len(keys) > 0 {
		applied = strings.Join(keys, ",")
	}
	record := host.Settings()
	fmt.Fprintf(c.stdout, "applied: %s\n", applied)
	fmt.Fprintf(c.stdout, "tab: %s\n", tab)
	fmt.Fprintf(c.stdout, "session: %s\n", host.SessionKey())
	fmt.Fprintf(c.stdout, "gateway: %s\n", record.GatewayURL)
	fmt.Fprintf(c.stdout, "token: %s\n", tokenState(record.HasToken()))
	fmt.Fprintf(c.stdout, "url: %s\n", urlparams.Strip(rawURL))
	return nil
}

func tokenState(present bool) string {
	if present {
		return "set"
	}
	return "unset"
}
