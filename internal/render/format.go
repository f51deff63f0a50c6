package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/specialistvlad/cmtgen/internal/attr"
	"github.com/specialistvlad/cmtgen/internal/primitive"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects the output representation.
type Format string

const (
	FormatInstance Format = "instance"
	FormatModule   Format = "module"
	FormatHCL      Format = "hcl"
	FormatYAML     Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{FormatInstance, FormatModule, FormatHCL, FormatYAML}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q, valid formats are %v", ErrUnknownFormat, s, Formats)
}

// Write renders p in format f to w.
func Write(w io.Writer, f Format, p primitive.Primitive) error {
	var out []byte
	switch f {
	case FormatInstance:
		out = []byte(Instance(p))
	case FormatModule:
		s, err := Module(p)
		if err != nil {
			return err
		}
		out = []byte(s)
	case FormatHCL:
		b, err := HCL(p)
		if err != nil {
			return err
		}
		out = b
	case FormatYAML:
		b, err := YAML(p)
		if err != nil {
			return err
		}
		out = b
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	_, err := w.Write(out)
	return err
}

// exportValue is the value of a as it is rendered: numbers carry only the
// attribute's decimal places.
func exportValue(a *attr.Attribute) any {
	switch a.Kind() {
	case attr.List, attr.Bool:
		return a.Value()
	}
	f, err := strconv.ParseFloat(a.FormatValue(), 64)
	if err != nil {
		return a.Float()
	}
	return f
}
