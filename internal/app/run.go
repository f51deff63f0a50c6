package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/specialistvlad/cmtgen/internal/configurator"
	"github.com/specialistvlad/cmtgen/internal/ctxlog"
	"github.com/specialistvlad/cmtgen/internal/primitive"
	"github.com/specialistvlad/cmtgen/internal/render"
	"github.com/specialistvlad/cmtgen/internal/request"
)

// ErrNoConfiguration is returned by Run when no candidate satisfies the
// request.
var ErrNoConfiguration = errors.New("no configuration found")

// Run executes one request: the request file, if any, overlaid with
// overrides.
func (a *App) Run(ctx context.Context, overrides request.Overrides) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.ShowModels {
		return a.showModels()
	}

	req := &request.Request{}
	if a.config.RequestPath != "" {
		var err error
		if req, err = request.Load(ctx, a.config.RequestPath); err != nil {
			return err
		}
	}
	req.Apply(overrides)

	targets, err := req.Targets()
	if err != nil {
		return err
	}
	model, err := a.models.Lookup(req.Model, req.SpeedGrade, req.Voltage)
	if err != nil {
		return err
	}
	kind, err := primitive.ParseKind(req.Primitive)
	if err != nil {
		return err
	}
	tmpl, err := primitive.New(kind)
	if err != nil {
		return err
	}

	session, err := configurator.NewSession(model, tmpl, configurator.Options{
		ScoreByDeviation: a.config.ScoreByDeviation,
	})
	if err != nil {
		return err
	}
	a.logger.Info("Searching configuration.", "model", model.Name, "primitive", tmpl.Name(), "f_in", targets.InputFrequency)

	res, err := session.Configure(ctx, targets)
	if err != nil {
		return err
	}
	if !res.Found {
		a.logger.Info("No configuration satisfies the request.", "m_ideal", res.MIdeal)
		return ErrNoConfiguration
	}
	a.logger.Info("Configuration found.", "candidates", res.Candidates, "m_ideal", res.MIdeal)

	if err := a.writeResult(res.Selected); err != nil {
		return err
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) writeResult(p primitive.Primitive) error {
	var buf bytes.Buffer
	if err := render.Write(&buf, a.config.Format, p); err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}

	if a.config.OutputPath != "" {
		if err := os.WriteFile(a.config.OutputPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		a.logger.Info("Result written.", "path", a.config.OutputPath, "format", a.config.Format)
	}
	if a.config.Quiet {
		return nil
	}
	if _, err := a.outW.Write(buf.Bytes()); err != nil {
		return err
	}
	return render.Summary(a.logW, p)
}

func (a *App) showModels() error {
	fmt.Fprintln(a.outW, "Supported FPGA models:")
	for _, k := range a.models.Keys() {
		if _, err := fmt.Fprintf(a.outW, "\t%s\n", k); err != nil {
			return err
		}
	}
	return nil
}
