package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Makepad-fr/tada/internal/cli"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Root flags (apply to every subcommand)
	groupPending := flag.Bool("group", false, "group ls output by pending/done")
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		ui.Fail("config: " + err.Error())
		return 2
	}
	ui.SetColorMode(cfg.UI.Color)
	ui.SetTheme(cfg.UI.Theme)

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		return 2
	}

	logger, closer, err := logging.Open(cfg.Log, cli.Interactive(args))
	if err != nil {
		ui.Fail("log: " + err.Error())
		return 1
	}
	defer closer.Close()
	logger.Debug("config loaded", "files", cfg.Files, "endpoint", cfg.API.Endpoint, "data", cfg.Todo.DataFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := cli.Run(ctx, args, cli.Options{
		Group:  *groupPending,
		Config: cfg,
		Logger: logger,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	return code
}
