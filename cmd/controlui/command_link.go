package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"controlui/internal/app"
	"controlui/internal/polling"
	"controlui/internal/settings"
	"controlui/internal/types"
)

// LinkCommand prints a share link that reproduces the saved session.
type LinkCommand struct {
	stdout       io.Writer
	stderr       io.Writer
	newScheduler func() polling.Scheduler
	copyText     func(string) (app.ClipboardMethod, error)
}

func NewLinkCommand(stdout, stderr io.Writer, newScheduler func() polling.Scheduler, copyText func(string) (app.ClipboardMethod, error)) *LinkCommand {
	return &LinkCommand{
		stdout:       stdout,
		stderr:       stderr,
		newScheduler: newScheduler,
		copyText:     copyText,
	}
}

func (c *LinkCommand) Run(args []string) error {
	fs := flag.NewFlagSet("link", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	tabName := fs.String("tab", string(types.TabChat), "tab the link opens")
	withToken := fs.Bool("with-token", false, "include the saved token in the link")
	copyLink := fs.Bool("copy", false, "copy the link to the clipboard")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tab, ok := types.ParseTab(*tabName)
	if !ok {
		return fmt.Errorf("unknown tab %q", strings.TrimSpace(*tabName))
	}

	env, err := openEnvironment(stderrLogger(c.stderr), c.newScheduler())
	if err != nil {
		return err
	}
	defer env.Close()

	host, _, err := env.bootstrap(context.Background(), "")
	if err != nil {
		return err
	}
	host.SetActiveTab(tab)
	includeToken := *withToken && host.Settings().HasToken()
	origin := shareOrigin(host.Settings())
	if origin == "" {
		return errors.New("saved gateway URL has no usable HTTP origin")
	}
	link := settings.ShareLink(host, origin, env.uiConfig.BasePath(), includeToken)
	fmt.Fprintln(c.stdout, link)

	if *copyLink {
		method, err := c.copyText(link)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stderr, "copied via %s\n", method)
	}
	return nil
}
