package fpga

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/cmtgen/internal/ctxlog"
	"github.com/specialistvlad/cmtgen/internal/fsutil"
	"github.com/specialistvlad/cmtgen/internal/primitive"
)

//go:embed models/*.hcl
var builtinFS embed.FS

// modelBody is the content of a `model "<name>" { ... }` block.
type modelBody struct {
	SpeedGrades []string      `hcl:"speed_grades"`
	Voltage     *string       `hcl:"voltage,optional"`
	Blocks      []*boundsBody `hcl:"block,block"`
}

// boundsBody is the content of a `block "<kind>" { ... }` block.
type boundsBody struct {
	Kind   string  `hcl:"kind,label"`
	InMin  float64 `hcl:"f_in_min"`
	InMax  float64 `hcl:"f_in_max"`
	OutMin float64 `hcl:"f_out_min"`
	OutMax float64 `hcl:"f_out_max"`
	VCOMin float64 `hcl:"f_vco_min"`
	VCOMax float64 `hcl:"f_vco_max"`
	PFDMin float64 `hcl:"f_pfd_min"`
	PFDMax float64 `hcl:"f_pfd_max"`
}

// Builtin returns a registry of the models shipped with the binary.
func Builtin(ctx context.Context) (*Registry, error) {
	models, err := LoadFS(ctx, builtinFS, "models")
	if err != nil {
		return nil, err
	}
	return NewRegistry(models...)
}

// LoadDir loads every .hcl model file below dir.
func LoadDir(ctx context.Context, dir string) ([]*Model, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("error accessing models path %s: %w", dir, err)
	}
	if !info.IsDir() {
		src, err := os.ReadFile(dir)
		if err != nil {
			return nil, err
		}
		return ParseModels(src, dir)
	}
	return LoadFS(ctx, os.DirFS(dir), ".")
}

// LoadFS loads every .hcl model file below root inside fsys.
func LoadFS(ctx context.Context, fsys fs.FS, root string) ([]*Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(fsys, root, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to list model files: %w", err)
	}
	logger.Debug("Discovered model files.", "count", len(files))

	var models []*Model
	for _, file := range files {
		src, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read model file %s: %w", file, err)
		}
		fileModels, err := ParseModels(src, file)
		if err != nil {
			return nil, err
		}
		models = append(models, fileModels...)
	}

	logger.Debug("Model loading complete.", "models", len(models))
	return models, nil
}

// ParseModels decodes the model blocks of one HCL document.
func ParseModels(src []byte, filename string) ([]*Model, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("failed to parse HCL file %s: unexpected body type %T", filename, file.Body)
	}

	for _, a := range body.Attributes {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported argument",
			Detail:   fmt.Sprintf("An argument named %q is not expected at the top level of a model file.", a.Name),
			Subject:  a.NameRange.Ptr(),
		})
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	var models []*Model
	for _, block := range body.Blocks {
		if block.Type != "model" {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Unsupported block type",
				Detail:   fmt.Sprintf("Blocks of type %q are not expected here, only \"model\" blocks are.", block.Type),
				Subject:  block.DefRange().Ptr(),
			}})
		}
		m, diags := decodeModel(block)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
		}
		models = append(models, m)
	}
	return models, nil
}

func decodeModel(block *hclsyntax.Block) (*Model, hcl.Diagnostics) {
	if len(block.Labels) != 1 {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Missing model name",
			Detail:   "A model block needs exactly one label, its name.",
			Subject:  block.DefRange().Ptr(),
		}}
	}

	var mb modelBody
	if diags := gohcl.DecodeBody(block.Body, nil, &mb); diags.HasErrors() {
		return nil, diags
	}

	m := &Model{
		Name:        strings.ToLower(block.Labels[0]),
		SpeedGrades: mb.SpeedGrades,
		Blocks:      make(map[primitive.Kind]Bounds, len(mb.Blocks)),
	}
	if mb.Voltage != nil {
		m.Voltage = *mb.Voltage
	}
	if len(m.SpeedGrades) == 0 {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "No speed grades",
			Detail:   fmt.Sprintf("Model %q must list at least one speed grade.", m.Name),
			Subject:  block.DefRange().Ptr(),
		}}
	}

	for _, bb := range mb.Blocks {
		kind, err := primitive.ParseKind(bb.Kind)
		if err != nil {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid block kind",
				Detail:   err.Error(),
				Subject:  block.DefRange().Ptr(),
			}}
		}
		if _, dup := m.Blocks[kind]; dup {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Duplicate block",
				Detail:   fmt.Sprintf("Model %q defines the %s block twice.", m.Name, kind),
				Subject:  block.DefRange().Ptr(),
			}}
		}
		b := Bounds{
			InMin: bb.InMin, InMax: bb.InMax,
			OutMin: bb.OutMin, OutMax: bb.OutMax,
			VCOMin: bb.VCOMin, VCOMax: bb.VCOMax,
			PFDMin: bb.PFDMin, PFDMax: bb.PFDMax,
		}
		if err := b.Validate(); err != nil {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid frequency limits",
				Detail:   fmt.Sprintf("Model %q, %s block: %s.", m.Name, kind, err),
				Subject:  block.DefRange().Ptr(),
			}}
		}
		m.Blocks[kind] = b
	}
	return m, nil
}
