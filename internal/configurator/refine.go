package configurator

import (
	"math"

	"github.com/specialistvlad/cmtgen/internal/attr"
	"github.com/specialistvlad/cmtgen/internal/primitive"
)

// phaseStepDegrees is the phase resolution of one VCO period fraction.
const phaseStepDegrees = 45.0

// ConfigurePhaseShifts snaps the requested phase shifts on every candidate
// and keeps those within tolerance. Phase steps are 45/O degrees for an
// output divider O. Dividers above 64 cannot reach the full positive range.
// Frequencies are left untouched.
func (s *Session) ConfigurePhaseShifts(targets map[int]Target) ([]primitive.Primitive, error) {
	if err := s.validatePhaseShifts(targets); err != nil {
		return nil, err
	}
	s.phaseShifts = targets
	s.selected = nil

	indexes := sortedIndexes(targets)
	kept := make([]primitive.Primitive, 0, len(s.candidates))
	for _, p := range s.candidates {
		p.FeedbackPhase().SetStep(phaseStepDegrees / p.PreDivider().Float())
		if s.fitPhases(p, indexes, targets) {
			kept = append(kept, p)
		}
	}
	s.candidates = kept
	return append([]primitive.Primitive(nil), kept...), nil
}

func (s *Session) fitPhases(p primitive.Primitive, indexes []int, targets map[int]Target) bool {
	for _, i := range indexes {
		ps, err := p.PhaseShift(i)
		if err != nil {
			return false
		}
		div, err := p.OutputDivider(i)
		if err != nil {
			return false
		}
		o := div.Float()
		ps.SetStep(phaseStepDegrees / o)
		if o > 64 {
			ps.SetBounds(ps.Start(), (63/o)*360+7*(phaseStepDegrees/o))
		}

		t := targets[i]
		ps.SetNearest(t.Value)
		ps.Activate()
		if attr.RelativeError(t.Value, ps.Float()) > t.Delta {
			return false
		}
	}
	return true
}

// ConfigureDutyCycles snaps the requested duty cycles on every candidate and
// keeps those within tolerance. Duty steps are 1/(2*O) for an output divider
// O. The smallest duty cycle is 1/O, or 0.5-(128-O)*(0.5/O) from O=64 on.
// A divider of 1 or a fractional divider can only produce 0.5.
func (s *Session) ConfigureDutyCycles(targets map[int]Target) ([]primitive.Primitive, error) {
	if err := s.validateDutyCycles(targets); err != nil {
		return nil, err
	}
	s.selected = nil

	indexes := sortedIndexes(targets)
	kept := make([]primitive.Primitive, 0, len(s.candidates))
	for _, p := range s.candidates {
		if s.fitDutyCycles(p, indexes, targets) {
			kept = append(kept, p)
		}
	}
	s.candidates = kept
	return append([]primitive.Primitive(nil), kept...), nil
}

func (s *Session) fitDutyCycles(p primitive.Primitive, indexes []int, targets map[int]Target) bool {
	for _, i := range indexes {
		dc, err := p.DutyCycle(i)
		if err != nil {
			return false
		}
		div, err := p.OutputDivider(i)
		if err != nil {
			return false
		}
		o := div.Float()

		switch {
		// Fractional divides only produce a 50% duty cycle. O=1 leaves
		// the range [1/O, 1-1/O] empty.
		case o == 1 || o != math.Trunc(o):
			dc.SetBounds(0.5, 0.5)
		case o >= 64:
			dc.SetStep(1 / (2 * o))
			dc.SetBounds(0.5-(128-o)*(0.5/o), dc.End())
		default:
			dc.SetStep(1 / (2 * o))
			dc.SetBounds(1/o, dc.End())
		}

		t := targets[i]
		dc.SetNearest(t.Value)
		dc.Activate()
		if attr.RelativeError(t.Value, dc.Float()) > t.Delta {
			return false
		}
	}
	return true
}
