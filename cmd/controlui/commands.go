package main

import (
	"context"
	"io"
	"os"

	"controlui/internal/app"
	"controlui/internal/polling"
)

type commandRunner interface {
	Run(args []string) error
}

type commandWiring struct {
	stdout       io.Writer
	stderr       io.Writer
	newScheduler func() polling.Scheduler
	runUI        func(ctx context.Context, polls *polling.Controller, opts app.Options) error
	copyText     func(text string) (app.ClipboardMethod, error)
	version      string
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout: stdout,
		stderr: stderr,
		newScheduler: func() polling.Scheduler {
			return polling.NewTickerScheduler()
		},
		runUI:    app.Run,
		copyText: app.CopyText,
		version:  buildVersion(),
	}
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"ui":     NewUICommand(wiring.stderr, wiring.newScheduler, wiring.runUI, wiring.version),
		"open":   NewOpenCommand(wiring.stdout, wiring.stderr, wiring.newScheduler),
		"config": NewConfigCommand(wiring.stdout, wiring.stderr),
		"link":   NewLinkCommand(wiring.stdout, wiring.stderr, wiring.newScheduler, wiring.copyText),
	}
}
