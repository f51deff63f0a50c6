package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/cmtgen/internal/ctxlog"
	"github.com/specialistvlad/cmtgen/internal/fpga"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logW   io.Writer
	logger *slog.Logger
	config *Config
	models *fpga.Registry
}

// NewApp builds an App. Results go to outW, logs and the human-readable
// summary go to logW. The built-in FPGA models are extended with the models
// found under Config.ModelsPath.
func NewApp(ctx context.Context, outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	models, err := fpga.Builtin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in models: %w", err)
	}
	logger.Debug("Built-in models loaded.", "count", models.Len())

	if cfg.ModelsPath != "" {
		extra, err := fpga.LoadDir(ctx, cfg.ModelsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load models: %w", err)
		}
		more, err := fpga.NewRegistry(extra...)
		if err != nil {
			return nil, fmt.Errorf("failed to load models: %w", err)
		}
		if models, err = models.Merge(more); err != nil {
			return nil, fmt.Errorf("failed to load models: %w", err)
		}
		logger.Debug("Additional models loaded.", "path", cfg.ModelsPath, "count", more.Len())
	}

	return &App{
		outW:   outW,
		logW:   logW,
		logger: logger,
		config: cfg,
		models: models,
	}, nil
}

// Models returns the model registry. This is primarily for testing.
func (a *App) Models() *fpga.Registry {
	return a.models
}
