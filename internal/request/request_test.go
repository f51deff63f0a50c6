package request

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/cmtgen/internal/configurator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullRequest = `
fpga {
  model       = "artix-7"
  speed_grade = "-3"
  voltage     = "1.0V"
}
primitive       = "mmcm"
input_frequency = 500
cascade         = true

output "0" {
  frequency         = 700
  frequency_delta   = 0.1
  phase_shift       = 45
  phase_shift_delta = 0.05
  duty_cycle        = 0.5
}

output "4" {
  frequency = 4.69
}

bandwidth    = "high"
ref_jitter   = 0.01
startup_wait = true
`

func ptr(v float64) *float64 { return &v }

func TestParse(t *testing.T) {
	t.Parallel()

	r, err := Parse([]byte(fullRequest), "request.hcl")
	require.NoError(t, err)

	want := &Request{
		Model:          "artix-7",
		SpeedGrade:     "-3",
		Voltage:        "1.0V",
		Primitive:      "mmcm",
		InputFrequency: 500,
		Cascade:        true,
		Outputs: map[int]*Output{
			0: {
				Frequency:       ptr(700),
				FrequencyDelta:  ptr(0.1),
				PhaseShift:      ptr(45),
				PhaseShiftDelta: ptr(0.05),
				DutyCycle:       ptr(0.5),
			},
			4: {Frequency: ptr(4.69)},
		},
		Bandwidth:   "high",
		RefJitter:   0.01,
		StartupWait: true,
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOtherKeepsType(t *testing.T) {
	t.Parallel()

	r, err := Parse([]byte(`
ref_jitter   = "0.02"
startup_wait = 1
`), "request.hcl")
	require.NoError(t, err)
	assert.Equal(t, "0.02", r.RefJitter)
	assert.Equal(t, 1.0, r.StartupWait)
	assert.Nil(t, r.Bandwidth)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{name: "syntax", src: `primitive = `, wantErr: "failed to parse HCL file"},
		{name: "unknown argument", src: `clock = 1`, wantErr: "Unsupported argument"},
		{name: "missing model", src: "fpga {\n  speed_grade = \"-1\"\n}\n", wantErr: "Missing required argument"},
		{name: "wrong type", src: `input_frequency = "fast"`, wantErr: "failed to decode HCL file"},
		{name: "bad index", src: "output x {\n  frequency = 1\n}\n", wantErr: "Invalid output index"},
		{name: "negative index", src: "output \"-1\" {\n  frequency = 1\n}\n", wantErr: "Invalid output index"},
		{name: "duplicate output", src: "output \"1\" {\n  frequency = 1\n}\noutput \"1\" {\n  frequency = 2\n}\n", wantErr: "Duplicate output"},
		{name: "list value", src: `bandwidth = ["HIGH"]`, wantErr: "Unsupported value type"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tc.src), "bad.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.Contains(t, err.Error(), "bad.hcl")
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "request.hcl")
	require.NoError(t, os.WriteFile(path, []byte(fullRequest), 0o644))

	r, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "mmcm", r.Primitive)

	_, err = Load(context.Background(), filepath.Join(dir, "missing.hcl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApply(t *testing.T) {
	t.Parallel()

	r, err := Parse([]byte(fullRequest), "request.hcl")
	require.NoError(t, err)

	fin := 400.0
	cascade := false
	r.Apply(Overrides{
		Primitive:      "pll",
		InputFrequency: &fin,
		Cascade:        &cascade,
		Outputs: map[int]*Output{
			0: {Frequency: ptr(200)},
			2: {DutyCycle: ptr(0.25)},
		},
		StartupWait: false,
	})

	assert.Equal(t, "artix-7", r.Model)
	assert.Equal(t, "pll", r.Primitive)
	assert.Equal(t, 400.0, r.InputFrequency)
	assert.False(t, r.Cascade)
	assert.Equal(t, 200.0, *r.Outputs[0].Frequency)
	assert.Equal(t, 0.1, *r.Outputs[0].FrequencyDelta, "untouched fields survive")
	assert.Equal(t, 0.25, *r.Outputs[2].DutyCycle)
	assert.Equal(t, false, r.StartupWait)
	assert.Equal(t, "high", r.Bandwidth)
}

func TestApplyToEmpty(t *testing.T) {
	t.Parallel()

	var r Request
	r.Apply(Overrides{Model: "kintex-7", Outputs: map[int]*Output{1: {Frequency: ptr(100)}}})
	assert.Equal(t, "kintex-7", r.Model)
	require.Contains(t, r.Outputs, 1)
	assert.Equal(t, 100.0, *r.Outputs[1].Frequency)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	var r Request
	err := r.Validate()
	require.ErrorIs(t, err, ErrInvalidRequest)
	for _, msg := range []string{"no FPGA model", "no speed grade", "no primitive", "no input frequency", "no output frequency"} {
		assert.Contains(t, err.Error(), msg)
	}

	r = Request{
		Model: "artix-7", SpeedGrade: "-1", Primitive: "pll", InputFrequency: 100,
		Outputs: map[int]*Output{
			0: {Frequency: ptr(100)},
			1: {FrequencyDelta: ptr(0.1), PhaseShiftDelta: ptr(0.1), DutyCycleDelta: ptr(0.1)},
		},
	}
	err = r.Validate()
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "output 1 has a frequency tolerance")
	assert.Contains(t, err.Error(), "output 1 has a phase shift tolerance")
	assert.Contains(t, err.Error(), "output 1 has a duty cycle tolerance")
}

func TestTargets(t *testing.T) {
	t.Parallel()

	r, err := Parse([]byte(fullRequest), "request.hcl")
	require.NoError(t, err)

	got, err := r.Targets()
	require.NoError(t, err)

	want := configurator.Request{
		FrequencyRequest: configurator.FrequencyRequest{
			InputFrequency: 500,
			Outputs: map[int]configurator.Target{
				0: {Value: 700, Delta: 0.1},
				4: {Value: 4.69, Delta: configurator.DefaultFrequencyDelta},
			},
			Cascade: true,
		},
		PhaseShifts: map[int]configurator.Target{0: {Value: 45, Delta: 0.05}},
		DutyCycles:  map[int]configurator.Target{0: {Value: 0.5, Delta: configurator.DefaultDutyCycleDelta}},
		Other:       configurator.Other{Bandwidth: "HIGH", RefJitter: 0.01, StartupWait: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Targets() mismatch (-want +got):\n%s", diff)
	}

	_, err = (&Request{}).Targets()
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
