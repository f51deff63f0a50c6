package cli

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/cmtgen/internal/app"
	"github.com/specialistvlad/cmtgen/internal/render"
	"github.com/specialistvlad/cmtgen/internal/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestParse(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cfg, over, exit, err := Parse([]string{
		"-model", "artix-7", "-speed-grade", "-3", "-voltage", "1.0V",
		"-primitive", "mmcm", "-fin", "500",
		"-fout0", "700", "-fdelta0", "0.1",
		"-ps0", "45",
		"-dc2", "0.25", "-dcdelta2", "0",
		"-cascade", "-bandwidth", "high", "-startup-wait",
		"-format", "module", "-o", "clk.v", "-quiet", "-score-deviation",
		"-log-level", "DEBUG",
	}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	want := &app.Config{
		OutputPath:       "clk.v",
		Format:           render.FormatModule,
		Quiet:            true,
		ScoreByDeviation: true,
		LogFormat:        "text",
		LogLevel:         "debug",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	cascade := true
	wantOver := request.Overrides{
		Model:          "artix-7",
		SpeedGrade:     "-3",
		Voltage:        "1.0V",
		Primitive:      "mmcm",
		InputFrequency: f64(500),
		Cascade:        &cascade,
		Outputs: map[int]*request.Output{
			0: {Frequency: f64(700), FrequencyDelta: f64(0.1), PhaseShift: f64(45)},
			2: {DutyCycle: f64(0.25), DutyCycleDelta: f64(0)},
		},
		Bandwidth:   "high",
		StartupWait: true,
	}
	if diff := cmp.Diff(wantOver, over); diff != "" {
		t.Errorf("overrides mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUnsetFlagsStayUnset(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	_, over, _, err := Parse([]string{"-request", "clocks.hcl"}, &out)
	require.NoError(t, err)
	assert.Nil(t, over.InputFrequency)
	assert.Nil(t, over.Cascade)
	assert.Nil(t, over.Outputs)
	assert.Nil(t, over.Bandwidth)
	assert.Nil(t, over.RefJitter)
	assert.Nil(t, over.StartupWait)
}

func TestParseExit(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{{"-h"}, {}} {
		var out bytes.Buffer
		cfg, _, exit, err := Parse(args, &out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"unknown flag", []string{"-frequency", "1"}, "flag provided but not defined"},
		{"bad number", []string{"-fin", "fast"}, "invalid value"},
		{"no seventh index", []string{"-fout7", "1"}, "flag provided but not defined"},
		{"positional", []string{"-fin", "1", "extra"}, "unexpected arguments"},
		{"log format", []string{"-fin", "1", "-log-format", "xml"}, "invalid log-format"},
		{"log level", []string{"-fin", "1", "-log-level", "trace"}, "invalid log-level"},
		{"format", []string{"-fin", "1", "-format", "vhdl"}, "unknown output format"},
		{"quiet without file", []string{"-fin", "1", "-quiet"}, "quiet mode"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			_, _, _, err := Parse(tc.args, &out)
			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, ExitUsage, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}
