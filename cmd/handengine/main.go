package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Debug   bool             `help:"Enable debug logging"`

	Replay   ReplayCmd   `cmd:"" help:"Rebuild hand state from event logs and report the outcome"`
	Validate ValidateCmd `cmd:"" help:"Structurally validate event log files without replaying"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("handengine"),
		kong.Description("Tools for the event-sourced No-Limit Hold'em hand engine"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

func newLogger(debug bool) *log.Logger {
	logger := log.New(os.Stderr)
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
