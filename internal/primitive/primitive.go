package primitive

import (
	"iter"

	"github.com/specialistvlad/cmtgen/internal/attr"
)

// Primitive is a PLL or MMCM configuration. The set of implementations is
// closed: *PLLE2 and *MMCME2.
type Primitive interface {
	Kind() Kind
	// Name is the Verilog primitive name, e.g. PLLE2_BASE.
	Name() string
	// Outputs is the number of output clocks.
	Outputs() int
	// New returns a fresh primitive of the same kind.
	New() Primitive

	Multiplier() *attr.Attribute
	PreDivider() *attr.Attribute
	InputPeriod() *attr.Attribute
	FeedbackPhase() *attr.Attribute
	Bandwidth() *attr.Attribute
	RefJitter() *attr.Attribute
	StartupWait() *attr.Attribute
	// Cascade is nil for primitives without output 4 cascading.
	Cascade() *attr.Attribute

	OutputDivider(i int) (*attr.Attribute, error)
	DutyCycle(i int) (*attr.Attribute, error)
	PhaseShift(i int) (*attr.Attribute, error)

	InputFrequency() float64
	VCOFrequency() float64
	OutputFrequency(i int) (float64, bool)
	OutputFrequencies() map[int]float64
	SetInputPeriodFromFrequency(f float64)

	ApproximateDivider(i int, m, d, fIn, target, fOutMin, fOutMax float64) (float64, error)
	ConfigureApproximatedDividers(m, d, fIn float64, desired, deltas map[int]float64, fOutMin, fOutMax float64) bool

	LegalMultiplierValues(from, to float64) iter.Seq[float64]
	LegalDividerValues(from, to float64) iter.Seq[float64]

	SupportsCascade() bool
	EnableCascade(o4, o6 float64) error

	Attributes() []*attr.Attribute
	Properties() map[string]any
	Rendered() []string

	sealed()
}

// PLLE2 is a PLLE2_BASE configuration.
type PLLE2 struct{ block }

// NewPLLE2 returns a PLLE2 with every attribute at its default and inactive.
func NewPLLE2() *PLLE2 { return &PLLE2{block: pllSchema()} }

func (p *PLLE2) New() Primitive { return NewPLLE2() }

// MMCME2 is an MMCME2_BASE configuration.
type MMCME2 struct{ block }

// NewMMCME2 returns an MMCME2 with every attribute at its default and inactive.
func NewMMCME2() *MMCME2 { return &MMCME2{block: mmcmSchema()} }

func (p *MMCME2) New() Primitive { return NewMMCME2() }

var (
	_ Primitive = (*PLLE2)(nil)
	_ Primitive = (*MMCME2)(nil)
)
