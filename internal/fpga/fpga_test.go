package fpga

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/cmtgen/internal/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	t.Parallel()

	reg, err := Builtin(context.Background())
	require.NoError(t, err)
	require.Greater(t, reg.Len(), 10)

	m, err := reg.Lookup("Artix-7", "-3", "1.0V")
	require.NoError(t, err)

	mmcm, err := m.Bounds(primitive.MMCM)
	require.NoError(t, err)
	want := Bounds{InMin: 10, InMax: 800, OutMin: 4.69, OutMax: 800, VCOMin: 600, VCOMax: 1600, PFDMin: 10, PFDMax: 550}
	if diff := cmp.Diff(want, mmcm); diff != "" {
		t.Errorf("artix-7 -3 mmcm bounds mismatch (-want +got):\n%s", diff)
	}

	pll, err := m.Bounds(primitive.PLL)
	require.NoError(t, err)
	want = Bounds{InMin: 19, InMax: 800, OutMin: 6.25, OutMax: 800, VCOMin: 800, VCOMax: 2133, PFDMin: 19, PFDMax: 550}
	if diff := cmp.Diff(want, pll); diff != "" {
		t.Errorf("artix-7 -3 pll bounds mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, m.ValidateInput(primitive.PLL, 19))
	assert.False(t, m.ValidateInput(primitive.PLL, 18.9))
	assert.True(t, m.ValidateOutput(primitive.MMCM, 4.69))
	assert.False(t, m.ValidateOutput(primitive.MMCM, 800.1))

	dummy, err := reg.Lookup("dummy", "-0", "")
	require.NoError(t, err)
	assert.Empty(t, dummy.Voltage)
}

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	reg, err := Builtin(context.Background())
	require.NoError(t, err)

	t.Run("voltage is optional when unambiguous", func(t *testing.T) {
		t.Parallel()
		m, err := reg.Lookup("artix-7", "-1", "")
		require.NoError(t, err)
		assert.Equal(t, "1.0V", m.Voltage)
	})

	t.Run("ambiguous without voltage", func(t *testing.T) {
		t.Parallel()
		_, err := reg.Lookup("artix-7", "-2L", "")
		assert.ErrorIs(t, err, ErrUnknownModel)
		assert.ErrorContains(t, err, "ambiguous")

		m, err := reg.Lookup("artix-7", "-2L", "0.9V")
		require.NoError(t, err)
		assert.Equal(t, "0.9V", m.Voltage)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		_, err := reg.Lookup("spartan-3", "-4", "")
		assert.ErrorIs(t, err, ErrUnknownModel)
		_, err = reg.Lookup("artix-7", "-3", "1.2V")
		assert.ErrorIs(t, err, ErrUnknownModel)
	})

	t.Run("keys are sorted", func(t *testing.T) {
		t.Parallel()
		keys := reg.Keys()
		require.NotEmpty(t, keys)
		for i := 1; i < len(keys); i++ {
			assert.Negative(t, compareKeys(keys[i-1], keys[i]))
		}
	})
}

func TestRegistryDuplicates(t *testing.T) {
	t.Parallel()

	a := &Model{Name: "x", SpeedGrades: []string{"-1"}}
	b := &Model{Name: "x", SpeedGrades: []string{"-2", "-1"}}
	_, err := NewRegistry(a, b)
	assert.ErrorIs(t, err, ErrDuplicateModel)

	ra, err := NewRegistry(a)
	require.NoError(t, err)
	rb, err := NewRegistry(&Model{Name: "y", SpeedGrades: []string{"-1"}})
	require.NoError(t, err)
	merged, err := ra.Merge(rb)
	require.NoError(t, err)
	assert.Equal(t, 2, merged.Len())

	_, err = merged.Merge(ra)
	assert.ErrorIs(t, err, ErrDuplicateModel)
}

func TestParseModelsErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax",
			src:     `model "x" {`,
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "top level argument",
			src:     `foo = 1`,
			wantErr: "Unsupported argument",
		},
		{
			name:    "unknown block",
			src:     `device "x" {}`,
			wantErr: "Unsupported block type",
		},
		{
			name:    "missing attribute",
			src:     "model \"x\" {\n  speed_grades = [\"-1\"]\n  block \"pll\" {\n    f_in_min = 1\n  }\n}\n",
			wantErr: "Missing required argument",
		},
		{
			name: "bad kind",
			src: `model "x" {
  speed_grades = ["-1"]
  block "dcm" {
    f_in_min = 1
    f_in_max = 2
    f_out_min = 1
    f_out_max = 2
    f_vco_min = 1
    f_vco_max = 2
    f_pfd_min = 1
    f_pfd_max = 2
  }
}`,
			wantErr: "Invalid block kind",
		},
		{
			name: "inverted range",
			src: `model "x" {
  speed_grades = ["-1"]
  block "pll" {
    f_in_min = 10
    f_in_max = 2
    f_out_min = 1
    f_out_max = 2
    f_vco_min = 1
    f_vco_max = 2
    f_pfd_min = 1
    f_pfd_max = 2
  }
}`,
			wantErr: "invalid f_in range",
		},
		{
			name:    "no speed grades",
			src:     `model "x" { speed_grades = [] }`,
			wantErr: "No speed grades",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseModels([]byte(tc.src), "test.hcl")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
			assert.ErrorContains(t, err, "test.hcl")

			var diags hcl.Diagnostics
			assert.ErrorAs(t, err, &diags)
		})
	}
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := `model "custom" {
  speed_grades = ["-9"]
  voltage      = "1.1V"

  block "mmcm" {
    f_in_min  = 10
    f_in_max  = 100
    f_out_min = 5
    f_out_max = 100
    f_vco_min = 400
    f_vco_max = 800
    f_pfd_min = 10
    f_pfd_max = 100
  }
}
`
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "custom.hcl"), []byte(src), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	models, err := LoadDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "custom", models[0].Name)
	assert.Equal(t, []Key{{Name: "custom", SpeedGrade: "-9", Voltage: "1.1V"}}, models[0].Keys())

	_, err = models[0].Bounds(primitive.PLL)
	assert.ErrorIs(t, err, ErrNoBlock)

	single, err := LoadDir(context.Background(), filepath.Join(dir, "sub", "custom.hcl"))
	require.NoError(t, err)
	assert.Len(t, single, 1)

	_, err = LoadDir(context.Background(), filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
