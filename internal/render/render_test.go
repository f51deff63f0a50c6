package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/cmtgen/internal/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v2"
)

// configuredPLL is 500 MHz in, M=30, D=10, outputs 750, 375 and 11.71875 MHz.
func configuredPLL(t *testing.T) primitive.Primitive {
	t.Helper()
	p := primitive.NewPLLE2()
	p.SetInputPeriodFromFrequency(500)
	ok := p.ConfigureApproximatedDividers(30, 10, 500,
		map[int]float64{0: 800, 1: 400.5, 3: 6.25},
		map[int]float64{0: 1, 1: 1, 3: 1},
		6.25, 800)
	require.True(t, ok)
	return p
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range Formats {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFormat("vhdl")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestInstance(t *testing.T) {
	t.Parallel()

	want := "\tPLLE2_BASE #(\n" +
		"\t\t.CLKFBOUT_MULT(30),\n" +
		"\t\t.CLKIN1_PERIOD(2.000),\n" +
		"\t\t.DIVCLK_DIVIDE(10),\n" +
		"\t\t.CLKOUT0_DIVIDE(2),\n" +
		"\t\t.CLKOUT1_DIVIDE(4),\n" +
		"\t\t.CLKOUT3_DIVIDE(128)\n" +
		"\t)\n"
	assert.Equal(t, want, Instance(configuredPLL(t)))
}

func TestModule(t *testing.T) {
	t.Parallel()

	t.Run("pll", func(t *testing.T) {
		t.Parallel()
		p := configuredPLL(t)
		got, err := Module(p)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(got, "`timescale 1ps/1ps\nmodule clk\n\t(\n\t\tinput\tclkin1,\n"))
		assert.Contains(t, got, "\t\toutput\tclkout5,\n\t\toutput\tclkfbout,\n\t\toutput\tlocked\n\t);\n")
		assert.Contains(t, got, Instance(p)+"\tPLLE2_BASE_inst(\n\t\t.CLKOUT0\t(clkout0),\n")
		assert.Contains(t, got, "\t\t.RST\t(rst),\n\t\t.CLKFBIN\t(clkfbin)\n\t);\n")
		assert.NotContains(t, got, "clkout6")
		assert.True(t, strings.HasSuffix(got, "endmodule\n"))
	})

	t.Run("mmcm", func(t *testing.T) {
		t.Parallel()
		got, err := Module(primitive.NewMMCME2())
		require.NoError(t, err)

		assert.Contains(t, got, "\t\toutput\tclkout3b,\n\t\toutput\tclkout4,\n")
		assert.NotContains(t, got, "clkout4b")
		assert.Contains(t, got, ".CLKOUT6\t(clkout6),")
		assert.Contains(t, got, ".CLKFBOUTB\t(clkfboutb),")
		assert.Contains(t, got, "MMCME2_BASE_inst(")
		_, pins, ok := strings.Cut(got, "MMCME2_BASE_inst(")
		require.True(t, ok)
		assert.Equal(t, 18, strings.Count(pins, "\t\t."), "one connection per port")
	})
}

func TestHCL(t *testing.T) {
	t.Parallel()

	src, err := HCL(configuredPLL(t))
	require.NoError(t, err)

	file, diags := hclparse.NewParser().ParseHCL(src, "export.hcl")
	require.False(t, diags.HasErrors(), diags.Error())

	var doc struct {
		Primitive  string `hcl:"primitive"`
		Attributes []struct {
			Name  string    `hcl:"name,label"`
			Value cty.Value `hcl:"value"`
		} `hcl:"attribute,block"`
	}
	diags = gohcl.DecodeBody(file.Body, nil, &doc)
	require.False(t, diags.HasErrors(), diags.Error())

	assert.Equal(t, "PLLE2_BASE", doc.Primitive)
	got := make(map[string]float64)
	var names []string
	for _, a := range doc.Attributes {
		f, _ := a.Value.AsBigFloat().Float64()
		got[a.Name] = f
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{
		"CLKFBOUT_MULT", "CLKIN1_PERIOD", "DIVCLK_DIVIDE",
		"CLKOUT0_DIVIDE", "CLKOUT1_DIVIDE", "CLKOUT3_DIVIDE",
	}, names)
	assert.Equal(t, 2.0, got["CLKIN1_PERIOD"])
	assert.Equal(t, 128.0, got["CLKOUT3_DIVIDE"])
}

func TestHCLListAndBool(t *testing.T) {
	t.Parallel()

	p := primitive.NewMMCME2()
	require.NoError(t, p.Bandwidth().Set("LOW"))
	require.NoError(t, p.StartupWait().Set(true))

	src, err := HCL(p)
	require.NoError(t, err)
	assert.Contains(t, string(src), `value = "LOW"`)
	assert.Contains(t, string(src), `value = true`)
}

func TestYAML(t *testing.T) {
	t.Parallel()

	src, err := YAML(configuredPLL(t))
	require.NoError(t, err)

	var doc struct {
		Primitive  string        `yaml:"primitive"`
		Properties yaml.MapSlice `yaml:"properties"`
		Outputs    []OutputValue `yaml:"outputs"`
	}
	require.NoError(t, yaml.Unmarshal(src, &doc))

	assert.Equal(t, "PLLE2_BASE", doc.Primitive)
	var keys []any
	for _, item := range doc.Properties {
		keys = append(keys, item.Key)
	}
	assert.Equal(t, []any{
		"CLKFBOUT_MULT", "CLKIN1_PERIOD", "DIVCLK_DIVIDE",
		"CLKOUT0_DIVIDE", "CLKOUT1_DIVIDE", "CLKOUT3_DIVIDE",
	}, keys)

	want := []OutputValue{
		{Index: 0, Frequency: 750, DutyCycle: 0.5},
		{Index: 1, Frequency: 375, DutyCycle: 0.5},
		{Index: 3, Frequency: 11.71875, DutyCycle: 0.5},
	}
	if diff := cmp.Diff(want, doc.Outputs, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("outputs mismatch (-want +got):\n%s", diff)
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, configuredPLL(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "PLLE2_BASE: M=30 D=10 f_vco=1500.000 MHz", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "OUTPUT"))
	assert.Equal(t, []string{"0", "750.000000", "0.000", "0.500"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"3", "11.718750", "0.000", "0.500"}, strings.Fields(lines[4]))
}

func TestWrite(t *testing.T) {
	t.Parallel()

	p := configuredPLL(t)
	for _, f := range Formats {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, f, p), f)
		assert.NotEmpty(t, buf.String(), f)
	}

	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, Format("svg"), p), ErrUnknownFormat)
}
