package main

import (
	"fmt"
	"os"
)

const usageText = `controlui is a terminal control UI for an agent gateway.

Usage:
  controlui <command> [flags]

Commands:
  ui       run terminal UI
  open     apply a share link to the saved settings
  config   print settings and UI options (effective or defaults)
  link     print a share link for the saved settings
  help     show help

Flags:
  -h, --help   show help

Examples:
  controlui ui --url 'https://gateway.local/logs#token=abc&sessionKey=main'
  controlui open 'https://gateway.local/chat#session=agent:ops'
  controlui config --format toml
  controlui link --tab logs --with-token --copy
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}
