package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/specialistvlad/cmtgen/internal/primitive"
)

// Instance renders the parameter block of p:
//
//	PLLE2_BASE #(
//		.CLKFBOUT_MULT(30),
//		...
//	)
func Instance(p primitive.Primitive) string {
	return "\t" + p.Name() + " #(\n\t\t" + strings.Join(p.Rendered(), ",\n\t\t") + "\n\t)\n"
}

type port struct {
	Dir  string
	Name string
}

type moduleData struct {
	Instance string
	Cell     string
	Ports    []port
	Pins     []string
}

const moduleText = "`timescale 1ps/1ps\n" +
	"module clk\n" +
	"\t(\n" +
	"{{- range $i, $p := .Ports}}{{if $i}},{{end}}\n\t\t{{$p.Dir}}\t{{$p.Name}}{{end}}\n" +
	"\t);\n\n" +
	"\t// wires and input buffers\n\n" +
	"{{.Instance}}" +
	"\t{{.Cell}}_inst(\n" +
	"{{- range $i, $pin := .Pins}}{{if $i}},{{end}}\n\t\t.{{$pin}}\t({{lower $pin}}){{end}}\n" +
	"\t);\n\n" +
	"\t// wires and output buffers\n\n" +
	"endmodule\n"

var moduleTpl = template.Must(template.New("module").
	Funcs(template.FuncMap{"lower": strings.ToLower}).
	Parse(moduleText))

// Module renders a complete Verilog module wrapping p.
func Module(p primitive.Primitive) (string, error) {
	data := moduleData{Instance: Instance(p), Cell: p.Name()}

	var outs []string
	switch p.Kind() {
	case primitive.PLL:
		for i := range p.Outputs() {
			outs = append(outs, fmt.Sprintf("CLKOUT%d", i))
		}
		outs = append(outs, "CLKFBOUT")
	case primitive.MMCM:
		for i := range p.Outputs() {
			outs = append(outs, fmt.Sprintf("CLKOUT%d", i))
			if i < 4 {
				outs = append(outs, fmt.Sprintf("CLKOUT%dB", i))
			}
		}
		outs = append(outs, "CLKFBOUT", "CLKFBOUTB")
	default:
		return "", fmt.Errorf("%w: %s", primitive.ErrUnknownKind, p.Kind())
	}
	outs = append(outs, "LOCKED")
	ins := []string{"CLKIN1", "PWRDWN", "RST", "CLKFBIN"}

	for _, in := range ins {
		data.Ports = append(data.Ports, port{"input", strings.ToLower(in)})
	}
	for _, out := range outs {
		data.Ports = append(data.Ports, port{"output", strings.ToLower(out)})
	}
	data.Pins = append(outs, ins...)

	var buf bytes.Buffer
	if err := moduleTpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render module: %w", err)
	}
	return buf.String(), nil
}
