// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package attr

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Placeholder is replaced by the rendered value in an attribute template.
const Placeholder = "@value@"

// Kind tags the variant of an Attribute.
type Kind int

const (
	Range Kind = iota
	IncrementRange
	OutputDivider
	List
	Bool
)

func (k Kind) String() string {
	switch k {
	case Range:
		return "range"
	case IncrementRange:
		return "increment_range"
	case OutputDivider:
		return "output_divider"
	case List:
		return "list"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Attribute is a named primitive attribute. The fields used depend on Kind;
// the zero value is not usable, build attributes with the New* constructors.
type Attribute struct {
	name     string
	template string
	kind     Kind
	on       bool

	// Range, IncrementRange, OutputDivider
	num, defNum float64
	start, end  float64
	step        float64
	places      int
	extra       []float64

	// List
	str, defStr string
	choices     []string

	// Bool
	flag, defFlag bool
}

// NewRange returns a numeric attribute bounded by [start, end] and rendered
// with the given number of decimal places.
func NewRange(name string, def float64, template string, start, end float64, places int) *Attribute {
	return &Attribute{
		name: name, template: template, kind: Range,
		num: def, defNum: def, start: start, end: end, places: places,
	}
}

// NewIncrementRange returns a Range whose legal values are start + k*step.
// A step of zero means the increment is decided later (see SetStep).
func NewIncrementRange(name string, def float64, template string, start, end float64, places int, step float64) *Attribute {
	a := NewRange(name, def, template, start, end, places)
	a.kind = IncrementRange
	a.step = step
	return a
}

// NewOutputDivider returns a divider attribute whose legal values are
// start + k*step plus any extra values outside that range.
func NewOutputDivider(name string, def float64, template string, start, end float64, places int, step float64, extra ...float64) *Attribute {
	a := NewRange(name, def, template, start, end, places)
	a.kind = OutputDivider
	a.step = step
	a.extra = slices.Clone(extra)
	return a
}

// NewList returns an attribute restricted to the given tokens.
func NewList(name, def, template string, choices ...string) *Attribute {
	return &Attribute{
		name: name, template: template, kind: List,
		str: def, defStr: def, choices: slices.Clone(choices),
	}
}

// NewBool returns a boolean attribute.
func NewBool(name string, def bool, template string) *Attribute {
	return &Attribute{
		name: name, template: template, kind: Bool,
		flag: def, defFlag: def,
	}
}

func (a *Attribute) Name() string     { return a.name }
func (a *Attribute) Kind() Kind       { return a.kind }
func (a *Attribute) Template() string { return a.template }
func (a *Attribute) On() bool         { return a.on }
func (a *Attribute) Start() float64   { return a.start }
func (a *Attribute) End() float64     { return a.end }
func (a *Attribute) Step() float64    { return a.step }
func (a *Attribute) Places() int      { return a.places }

// Choices returns the allowed tokens of a List attribute.
func (a *Attribute) Choices() []string { return slices.Clone(a.choices) }

// Activate marks the attribute as targeted so that it gets rendered.
func (a *Attribute) Activate() { a.on = true }

// Reset restores the default value and deactivates the attribute.
func (a *Attribute) Reset() {
	a.num, a.str, a.flag = a.defNum, a.defStr, a.defFlag
	a.on = false
}

// Float returns the current value of a numeric attribute.
func (a *Attribute) Float() float64 { return a.num }

// Value returns the current value as float64, string or bool.
func (a *Attribute) Value() any {
	switch a.kind {
	case List:
		return a.str
	case Bool:
		return a.flag
	default:
		return a.num
	}
}

// Default returns the default value as float64, string or bool.
func (a *Attribute) Default() any {
	switch a.kind {
	case List:
		return a.defStr
	case Bool:
		return a.defFlag
	default:
		return a.defNum
	}
}

// IsDefault reports whether the current value equals the default value.
func (a *Attribute) IsDefault() bool {
	return a.Value() == a.Default()
}

// SetStep changes the increment of a numeric attribute. The phase-shift and
// duty-cycle passes derive the step from the selected output divider.
func (a *Attribute) SetStep(step float64) { a.step = step }

// SetBounds changes the legal range of a numeric attribute.
func (a *Attribute) SetBounds(start, end float64) {
	a.start, a.end = start, end
}

// SetUnchecked assigns a number without validation. It is used by the search
// for values that are legal by construction.
func (a *Attribute) SetUnchecked(v float64) { a.num = v }

// Set validates and assigns v. Numbers go to Range and IncrementRange
// attributes, strings to List and bools to Bool attributes. List and Bool
// attributes are activated by a successful Set. Set on an OutputDivider is a
// no-op: dividers are only chosen through Bracket.
func (a *Attribute) Set(v any) error {
	switch a.kind {
	case Range, IncrementRange:
		f, ok := toFloat(v)
		if !ok {
			return fmt.Errorf("%w: %s expects a number, got %T", ErrType, a.name, v)
		}
		if math.IsNaN(f) || f < a.start || f > a.end {
			return fmt.Errorf("%w: %s value %v is not within [%v; %v]", ErrRange, a.name, f, a.start, a.end)
		}
		a.num = f
	case OutputDivider:
	case List:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: %s expects a string, got %T", ErrType, a.name, v)
		}
		if !slices.Contains(a.choices, s) {
			return fmt.Errorf("%w: %s value %q, valid values are %v", ErrValue, a.name, s, a.choices)
		}
		a.str = s
		a.on = true
	case Bool:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: %s expects a bool, got %T", ErrType, a.name, v)
		}
		a.flag = b
		a.on = true
	}
	return nil
}

// Render substitutes the current value into the attribute template.
func (a *Attribute) Render() string {
	return strings.ReplaceAll(a.template, Placeholder, a.FormatValue())
}

// FormatValue returns the value as it appears in Verilog. Numbers are
// truncated, not rounded, to the attribute's decimal places.
func (a *Attribute) FormatValue() string {
	switch a.kind {
	case List:
		return strconv.Quote(a.str)
	case Bool:
		if a.flag {
			return `"TRUE"`
		}
		return `"FALSE"`
	default:
		return formatTruncated(a.num, a.places)
	}
}

// Equal reports whether both attributes have the same kind, name, value and
// activation state.
func (a *Attribute) Equal(o *Attribute) bool {
	if a == nil || o == nil {
		return a == o
	}
	return a.kind == o.kind && a.name == o.name && a.on == o.on && a.Value() == o.Value()
}

func (a *Attribute) String() string {
	return fmt.Sprintf("%s=%s", a.name, a.FormatValue())
}

func formatTruncated(v float64, places int) string {
	p := math.Pow10(places)
	// The epsilon keeps 0.3 from truncating to 0.299.
	t := math.Trunc(v*p+math.Copysign(1e-9, v)) / p
	if t == 0 {
		t = 0
	}
	return strconv.FormatFloat(t, 'f', places, 64)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
