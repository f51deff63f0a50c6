package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/specialistvlad/cmtgen/internal/app"
	"github.com/specialistvlad/cmtgen/internal/cli"
	"github.com/specialistvlad/cmtgen/internal/configurator"
	"github.com/specialistvlad/cmtgen/internal/request"
)

// main is the entrypoint for the cmtgen application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			stop()
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(cli.ExitRuntime)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	appConfig, overrides, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	cmtApp, err := app.NewApp(ctx, outW, errW, appConfig)
	if err != nil {
		return err
	}
	return exitCode(cmtApp.Run(ctx, overrides))
}

// exitCode maps application errors to process exit codes.
func exitCode(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, app.ErrNoConfiguration):
		return &cli.ExitError{Code: cli.ExitNotFound, Message: err.Error()}
	case errors.Is(err, request.ErrInvalidRequest),
		errors.Is(err, configurator.ErrInvalidTarget),
		errors.Is(err, configurator.ErrTooManyOutputs):
		return &cli.ExitError{Code: cli.ExitUsage, Message: err.Error()}
	}
	return err
}
