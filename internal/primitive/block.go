package primitive

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/specialistvlad/cmtgen/internal/attr"
)

// CascadeOutput is the output whose divider can be chained with output 6.
const CascadeOutput = 4

// cascadeSource is the output whose divider multiplies into CascadeOutput.
const cascadeSource = 6

// block holds the attributes shared by both primitive kinds.
type block struct {
	kind Kind
	name string
	// skipDefaults drops active attributes still at their default from
	// the rendered instance.
	skipDefaults bool

	mult, div, period, fbPhase *attr.Attribute
	bandwidth, jitter, startup *attr.Attribute
	cascade                    *attr.Attribute

	dividers, duties, phases []*attr.Attribute
	attrs                    []*attr.Attribute
}

func (b *block) sealed() {}

func (b *block) Kind() Kind   { return b.kind }
func (b *block) Name() string { return b.name }
func (b *block) Outputs() int { return len(b.dividers) }

// SupportsCascade reports whether output 6 can be chained into output 4.
func (b *block) SupportsCascade() bool { return b.cascade != nil }

func (b *block) Multiplier() *attr.Attribute    { return b.mult }
func (b *block) PreDivider() *attr.Attribute    { return b.div }
func (b *block) InputPeriod() *attr.Attribute   { return b.period }
func (b *block) FeedbackPhase() *attr.Attribute { return b.fbPhase }
func (b *block) Bandwidth() *attr.Attribute     { return b.bandwidth }
func (b *block) RefJitter() *attr.Attribute     { return b.jitter }
func (b *block) StartupWait() *attr.Attribute   { return b.startup }
func (b *block) Cascade() *attr.Attribute       { return b.cascade }

func (b *block) index(i int) error {
	if i < 0 || i >= len(b.dividers) {
		return fmt.Errorf("%w: %s has no output %d", ErrOutputIndex, b.name, i)
	}
	return nil
}

func (b *block) OutputDivider(i int) (*attr.Attribute, error) {
	if err := b.index(i); err != nil {
		return nil, err
	}
	return b.dividers[i], nil
}

func (b *block) DutyCycle(i int) (*attr.Attribute, error) {
	if err := b.index(i); err != nil {
		return nil, err
	}
	return b.duties[i], nil
}

func (b *block) PhaseShift(i int) (*attr.Attribute, error) {
	if err := b.index(i); err != nil {
		return nil, err
	}
	return b.phases[i], nil
}

// InputFrequency is the input clock frequency in MHz derived from the
// quantized input period, or 0 while the period is unset.
func (b *block) InputFrequency() float64 {
	if b.period.Float() <= 0 {
		return 0
	}
	return 1000 / b.period.Float()
}

// VCOFrequency is M * f_in / D.
func (b *block) VCOFrequency() float64 {
	return b.mult.Float() * b.InputFrequency() / b.div.Float()
}

func (b *block) cascaded() bool {
	return b.cascade != nil && b.cascade.Value() == true
}

// OutputFrequency returns the frequency of output i in MHz. It is defined
// only for active dividers.
func (b *block) OutputFrequency(i int) (float64, bool) {
	if b.index(i) != nil || !b.dividers[i].On() {
		return 0, false
	}
	o := b.dividers[i].Float()
	if i == CascadeOutput && b.cascaded() {
		o *= b.dividers[cascadeSource].Float()
	}
	return b.VCOFrequency() / o, true
}

// OutputFrequencies maps every active output to its frequency.
func (b *block) OutputFrequencies() map[int]float64 {
	out := make(map[int]float64)
	for i := range b.dividers {
		if f, ok := b.OutputFrequency(i); ok {
			out[i] = f
		}
	}
	return out
}

// SetInputPeriodFromFrequency stores the period of f (MHz) in nanoseconds,
// snapped to the nearest legal period, and activates it.
func (b *block) SetInputPeriodFromFrequency(f float64) {
	b.period.SetNearest(1000 / f)
	b.period.Activate()
}

// ApproximateDivider picks the legal divider for output i that brings the
// output closest to target without leaving [fOutMin, fOutMax] where
// possible. It does not modify the primitive.
func (b *block) ApproximateDivider(i int, m, d, fIn, target, fOutMin, fOutMax float64) (float64, error) {
	if err := b.index(i); err != nil {
		return 0, err
	}
	lower, upper := b.dividers[i].Bracket((fIn * m) / (d * target))
	lowerF := (m * fIn) / (lower * d)
	upperF := (m * fIn) / (upper * d)

	switch {
	case lowerF > fOutMax:
		return upper, nil
	case upperF < fOutMin:
		return lower, nil
	case attr.RelativeError(target, upperF) > attr.RelativeError(target, lowerF):
		return lower, nil
	default:
		return upper, nil
	}
}

// ConfigureApproximatedDividers sets M and D, then approximates the divider
// of every requested output. It reports whether every requested output is
// within its relative tolerance; a missing tolerance is treated as zero.
// Invalid output indexes make the configuration fail.
func (b *block) ConfigureApproximatedDividers(m, d, fIn float64, desired, deltas map[int]float64, fOutMin, fOutMax float64) bool {
	b.mult.SetUnchecked(m)
	b.mult.Activate()
	b.div.SetUnchecked(d)
	b.div.Activate()

	for _, i := range slices.Sorted(maps.Keys(desired)) {
		o, err := b.ApproximateDivider(i, m, d, fIn, desired[i], fOutMin, fOutMax)
		if err != nil {
			return false
		}
		b.dividers[i].SetUnchecked(o)
		b.dividers[i].Activate()
	}

	actual := b.OutputFrequencies()
	for i, target := range desired {
		if attr.RelativeError(target, actual[i]) > deltas[i] {
			return false
		}
	}
	return true
}

func (b *block) LegalMultiplierValues(from, to float64) iter.Seq[float64] {
	return b.mult.Values(from, to)
}

func (b *block) LegalDividerValues(from, to float64) iter.Seq[float64] {
	return b.div.Values(from, to)
}

// EnableCascade chains divider 6 into divider 4.
func (b *block) EnableCascade(o4, o6 float64) error {
	if b.cascade == nil {
		return fmt.Errorf("%w: %s", ErrCascadeUnsupported, b.name)
	}
	b.dividers[CascadeOutput].SetUnchecked(o4)
	b.dividers[CascadeOutput].Activate()
	b.dividers[cascadeSource].SetUnchecked(o6)
	b.dividers[cascadeSource].Activate()
	return b.cascade.Set(true)
}

// Attributes returns all attributes in rendering order.
func (b *block) Attributes() []*attr.Attribute {
	return slices.Clone(b.attrs)
}

// Properties maps the name of every active attribute to its value.
func (b *block) Properties() map[string]any {
	props := make(map[string]any)
	for _, a := range b.attrs {
		if a.On() {
			props[a.Name()] = a.Value()
		}
	}
	return props
}

// Rendered returns the Verilog parameter assignments of the active
// attributes in order.
func (b *block) Rendered() []string {
	var out []string
	for _, a := range b.attrs {
		if !a.On() || (b.skipDefaults && a.IsDefault()) {
			continue
		}
		out = append(out, a.Render())
	}
	return out
}
