package render

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/cmtgen/internal/primitive"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	"gopkg.in/yaml.v2"
)

// OutputValue is the expected behaviour of one active output clock.
type OutputValue struct {
	Index      int     `yaml:"index"`
	Frequency  float64 `yaml:"frequency"`
	PhaseShift float64 `yaml:"phase_shift"`
	DutyCycle  float64 `yaml:"duty_cycle"`
}

// Expected lists the active outputs of p in index order.
func Expected(p primitive.Primitive) []OutputValue {
	freqs := p.OutputFrequencies()
	out := make([]OutputValue, 0, len(freqs))
	for _, i := range slices.Sorted(maps.Keys(freqs)) {
		v := OutputValue{Index: i, Frequency: freqs[i], DutyCycle: 0.5}
		if ps, err := p.PhaseShift(i); err == nil {
			v.PhaseShift = ps.Float()
		}
		if dc, err := p.DutyCycle(i); err == nil {
			v.DutyCycle = dc.Float()
		}
		out = append(out, v)
	}
	return out
}

func toCtyValue(v any) (cty.Value, error) {
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}

// HCL exports the active attributes of p as an HCL document:
//
//	primitive = "MMCME2_BASE"
//
//	attribute "CLKFBOUT_MULT_F" {
//	  value = 8
//	}
func HCL(p primitive.Primitive) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.SetAttributeValue("primitive", cty.StringVal(p.Name()))

	for _, a := range p.Attributes() {
		if !a.On() {
			continue
		}
		val, err := toCtyValue(exportValue(a))
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", a.Name(), err)
		}
		body.AppendNewline()
		block := body.AppendNewBlock("attribute", []string{a.Name()})
		block.Body().SetAttributeValue("value", val)
	}
	return f.Bytes(), nil
}

type yamlDocument struct {
	Primitive  string        `yaml:"primitive"`
	Properties yaml.MapSlice `yaml:"properties"`
	Outputs    []OutputValue `yaml:"outputs"`
}

// YAML exports the active attributes of p in rendering order together with
// the expected output clocks.
func YAML(p primitive.Primitive) ([]byte, error) {
	doc := yamlDocument{Primitive: p.Name(), Outputs: Expected(p)}
	for _, a := range p.Attributes() {
		if a.On() {
			doc.Properties = append(doc.Properties, yaml.MapItem{Key: a.Name(), Value: exportValue(a)})
		}
	}
	b, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return b, nil
}
