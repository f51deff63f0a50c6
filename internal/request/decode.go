package request

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/cmtgen/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// fileRoot is the top level of a request file.
type fileRoot struct {
	FPGA           *fpgaBlock     `hcl:"fpga,block"`
	Primitive      *string        `hcl:"primitive,optional"`
	InputFrequency *float64       `hcl:"input_frequency,optional"`
	Cascade        *bool          `hcl:"cascade,optional"`
	Outputs        []*outputBlock `hcl:"output,block"`
	Bandwidth      hcl.Expression `hcl:"bandwidth,optional"`
	RefJitter      hcl.Expression `hcl:"ref_jitter,optional"`
	StartupWait    hcl.Expression `hcl:"startup_wait,optional"`
}

type fpgaBlock struct {
	Model      string  `hcl:"model"`
	SpeedGrade string  `hcl:"speed_grade"`
	Voltage    *string `hcl:"voltage,optional"`
}

type outputBlock struct {
	Index           string   `hcl:"index,label"`
	Frequency       *float64 `hcl:"frequency,optional"`
	FrequencyDelta  *float64 `hcl:"frequency_delta,optional"`
	PhaseShift      *float64 `hcl:"phase_shift,optional"`
	PhaseShiftDelta *float64 `hcl:"phase_shift_delta,optional"`
	DutyCycle       *float64 `hcl:"duty_cycle,optional"`
	DutyCycleDelta  *float64 `hcl:"duty_cycle_delta,optional"`

	Body hcl.Body `hcl:",body"`
}

// subject is the best source range for diagnostics about the block.
func (ob *outputBlock) subject() *hcl.Range {
	if b, ok := ob.Body.(*hclsyntax.Body); ok {
		return b.SrcRange.Ptr()
	}
	return nil
}

// Load reads and decodes the request file at path.
func Load(ctx context.Context, path string) (*Request, error) {
	logger := ctxlog.FromContext(ctx)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file %s: %w", path, err)
	}
	r, err := Parse(src, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Request file loaded.", "path", path, "outputs", len(r.Outputs))
	return r, nil
}

// Parse decodes one HCL request document.
func Parse(src []byte, filename string) (*Request, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	r, diags := translate(&root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	return r, nil
}

func translate(root *fileRoot) (*Request, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	r := &Request{}

	if root.FPGA != nil {
		r.Model = root.FPGA.Model
		r.SpeedGrade = root.FPGA.SpeedGrade
		if root.FPGA.Voltage != nil {
			r.Voltage = *root.FPGA.Voltage
		}
	}
	if root.Primitive != nil {
		r.Primitive = *root.Primitive
	}
	if root.InputFrequency != nil {
		r.InputFrequency = *root.InputFrequency
	}
	if root.Cascade != nil {
		r.Cascade = *root.Cascade
	}

	if len(root.Outputs) > 0 {
		r.Outputs = make(map[int]*Output, len(root.Outputs))
	}
	for _, ob := range root.Outputs {
		i, err := strconv.Atoi(ob.Index)
		if err != nil || i < 0 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid output index",
				Detail:   fmt.Sprintf("Output labels must be non-negative integers, got %q.", ob.Index),
				Subject:  ob.subject(),
			})
			continue
		}
		if _, dup := r.Outputs[i]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate output",
				Detail:   fmt.Sprintf("Output %d is defined more than once.", i),
				Subject:  ob.subject(),
			})
			continue
		}
		r.Outputs[i] = &Output{
			Frequency:       ob.Frequency,
			FrequencyDelta:  ob.FrequencyDelta,
			PhaseShift:      ob.PhaseShift,
			PhaseShiftDelta: ob.PhaseShiftDelta,
			DutyCycle:       ob.DutyCycle,
			DutyCycleDelta:  ob.DutyCycleDelta,
		}
	}

	for _, p := range []struct {
		name string
		expr hcl.Expression
		dst  *any
	}{
		{"bandwidth", root.Bandwidth, &r.Bandwidth},
		{"ref_jitter", root.RefJitter, &r.RefJitter},
		{"startup_wait", root.StartupWait, &r.StartupWait},
	} {
		if !isExprDefined(p.expr) {
			continue
		}
		v, moreDiags := nativeValue(p.name, p.expr)
		diags = append(diags, moreDiags...)
		*p.dst = v
	}
	return r, diags
}

// isExprDefined reports whether an optional expression was written in the
// file. gohcl fills omitted optional expressions with a zero-width
// placeholder.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	return rng.End.Byte > rng.Start.Byte
}

// nativeValue evaluates expr to a string, float64 or bool. Other types are
// reported as diagnostics.
func nativeValue(name string, expr hcl.Expression) (any, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unknown value",
			Detail:   fmt.Sprintf("The value of %q must be known.", name),
			Subject:  expr.Range().Ptr(),
		}}
	}

	switch val.Type() {
	case cty.String:
		return val.AsString(), nil
	case cty.Bool:
		return val.True(), nil
	case cty.Number:
		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid number",
				Detail:   fmt.Sprintf("The value of %q: %s.", name, err),
				Subject:  expr.Range().Ptr(),
			}}
		}
		return f, nil
	}
	return nil, hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Unsupported value type",
		Detail:   fmt.Sprintf("The value of %q must be a string, number or bool, got %s.", name, val.Type().FriendlyName()),
		Subject:  expr.Range().Ptr(),
	}}
}
