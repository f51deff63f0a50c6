package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/cmtgen/internal/app"
	"github.com/specialistvlad/cmtgen/internal/render"
	"github.com/specialistvlad/cmtgen/internal/request"
)

// Exit codes.
const (
	ExitRuntime  = 1
	ExitUsage    = 2
	ExitNotFound = 3
)

// maxOutputs is the largest output count of any primitive.
const maxOutputs = 7

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: ExitUsage, Message: fmt.Sprintf(format, args...)}
}

// outputFlags are the per-output flag values.
type outputFlags struct {
	freq, freqDelta float64
	ps, psDelta     float64
	dc, dcDelta     float64
}

// Parse processes command-line arguments. It returns the app configuration,
// the request overrides taken from flags, a boolean indicating if the
// program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, request.Overrides, bool, error) {
	slog.Debug("CLI parser started.")
	var none request.Overrides

	flagSet := flag.NewFlagSet("cmtgen", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
cmtgen - clock management tile configuration for 7-series FPGAs.

Searches PLLE2_BASE and MMCME2_BASE settings that produce the requested
output clocks and prints the Verilog parameters.

Usage:
  cmtgen [options]
  cmtgen -request clocks.hcl [options]

Example:
  cmtgen -model artix-7 -speed-grade -1 -primitive mmcm -fin 100 -fout0 250 -fdelta0 0.01

Options:
`)
		flagSet.PrintDefaults()
	}

	model := flagSet.String("model", "", "FPGA model, e.g. 'artix-7'.")
	speedGrade := flagSet.String("speed-grade", "", "FPGA speed grade, e.g. '-1'.")
	voltage := flagSet.String("voltage", "", "FPGA core voltage, e.g. '1.0V'. Needed only when a speed grade exists for several voltages.")
	prim := flagSet.String("primitive", "", "Clock primitive. Options: 'pll' or 'mmcm'.")
	fin := flagSet.Float64("fin", 0, "Input clock frequency in MHz.")
	cascade := flagSet.Bool("cascade", false, "Allow chaining output 6 into output 4 (MMCM only).")
	bandwidth := flagSet.String("bandwidth", "", "Bandwidth setting. Options: 'OPTIMIZED', 'HIGH', 'LOW'.")
	refJitter := flagSet.Float64("ref-jitter", 0, "Expected input clock jitter in UI, 0.000 to 0.999.")
	startupWait := flagSet.Bool("startup-wait", false, "Wait for the primitive to lock before configuration completes.")

	var outs [maxOutputs]outputFlags
	for i := range outs {
		flagSet.Float64Var(&outs[i].freq, fmt.Sprintf("fout%d", i), 0, fmt.Sprintf("Output %d frequency in MHz.", i))
		flagSet.Float64Var(&outs[i].freqDelta, fmt.Sprintf("fdelta%d", i), 0, fmt.Sprintf("Output %d accepted relative frequency error.", i))
		flagSet.Float64Var(&outs[i].ps, fmt.Sprintf("ps%d", i), 0, fmt.Sprintf("Output %d phase shift in degrees, -360 to 360.", i))
		flagSet.Float64Var(&outs[i].psDelta, fmt.Sprintf("psdelta%d", i), 0, fmt.Sprintf("Output %d accepted relative phase shift error.", i))
		flagSet.Float64Var(&outs[i].dc, fmt.Sprintf("dc%d", i), 0, fmt.Sprintf("Output %d duty cycle, between 0 and 1.", i))
		flagSet.Float64Var(&outs[i].dcDelta, fmt.Sprintf("dcdelta%d", i), 0, fmt.Sprintf("Output %d accepted relative duty cycle error.", i))
	}

	requestPath := flagSet.String("request", "", "Path to a request .hcl file. Flags override its values.")
	modelsPath := flagSet.String("models-path", "", "Path to a .hcl file or directory with additional FPGA models.")
	showModels := flagSet.Bool("show-models", false, "List the supported FPGA models and exit.")
	format := flagSet.String("format", string(render.FormatInstance), "Output format. Options: 'instance', 'module', 'hcl', 'yaml'.")
	outPath := flagSet.String("o", "", "Write the result to this file.")
	quiet := flagSet.Bool("quiet", false, "Do not print the result to stdout.")
	scoreDeviation := flagSet.Bool("score-deviation", false, "Prefer candidates closest to the requested values over the vendor multiplier rule.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, none, true, nil
		}
		return nil, none, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 0 {
		return nil, none, false, usageError("unexpected arguments: %v", flagSet.Args())
	}
	if flagSet.NFlag() == 0 {
		slog.Debug("No flags provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, none, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, none, false, usageError("invalid log-format: must be 'text' or 'json'")
	}
	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, none, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	set := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	overrides := request.Overrides{
		Model:      *model,
		SpeedGrade: *speedGrade,
		Voltage:    *voltage,
		Primitive:  *prim,
	}
	if set["fin"] {
		overrides.InputFrequency = fin
	}
	if set["cascade"] {
		overrides.Cascade = cascade
	}
	if set["bandwidth"] {
		overrides.Bandwidth = *bandwidth
	}
	if set["ref-jitter"] {
		overrides.RefJitter = *refJitter
	}
	if set["startup-wait"] {
		overrides.StartupWait = *startupWait
	}
	for i := range outs {
		o := &outs[i]
		out := &request.Output{}
		used := false
		for _, f := range []struct {
			name string
			src  *float64
			dst  **float64
		}{
			{"fout", &o.freq, &out.Frequency},
			{"fdelta", &o.freqDelta, &out.FrequencyDelta},
			{"ps", &o.ps, &out.PhaseShift},
			{"psdelta", &o.psDelta, &out.PhaseShiftDelta},
			{"dc", &o.dc, &out.DutyCycle},
			{"dcdelta", &o.dcDelta, &out.DutyCycleDelta},
		} {
			if set[fmt.Sprintf("%s%d", f.name, i)] {
				*f.dst = f.src
				used = true
			}
		}
		if !used {
			continue
		}
		if overrides.Outputs == nil {
			overrides.Outputs = make(map[int]*request.Output)
		}
		overrides.Outputs[i] = out
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		RequestPath:      *requestPath,
		ModelsPath:       *modelsPath,
		OutputPath:       *outPath,
		Format:           render.Format(*format),
		Quiet:            *quiet,
		ShowModels:       *showModels,
		ScoreByDeviation: *scoreDeviation,
		LogFormat:        logFormat,
		LogLevel:         logLevel,
	})
	if err != nil {
		return nil, none, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, overrides, false, nil
}
