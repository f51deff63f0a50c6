package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/cmtgen/internal/render"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RequestPath string // request .hcl file, optional
	ModelsPath  string // extra model .hcl files, optional
	OutputPath  string // result file, optional

	Format           render.Format
	Quiet            bool
	ShowModels       bool
	ScoreByDeviation bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Format == "" {
		cfg.Format = render.FormatInstance
	}
	f, err := render.ParseFormat(string(cfg.Format))
	if err != nil {
		return nil, err
	}
	cfg.Format = f

	if cfg.Quiet && cfg.OutputPath == "" && !cfg.ShowModels {
		return nil, errors.New("quiet mode needs an output file, the result would be discarded")
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	return &cfg, nil
}
