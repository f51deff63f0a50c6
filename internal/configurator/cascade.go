package configurator

import (
	"maps"

	"github.com/specialistvlad/cmtgen/internal/attr"
	"github.com/specialistvlad/cmtgen/internal/primitive"
)

const (
	cascadeOut = primitive.CascadeOutput
	cascadeSrc = 6
)

// cascade retries a pair with divider 6 chained into divider 4.
//
// When output 6 is requested above output 4, divider 6 is approximated for
// its own target first and output 4 is configured for its target times that
// divider. When output 6 is not requested, both dividers are picked by
// precomputeCascade and the remaining outputs are configured directly.
func (s *Session) cascade(m, d float64, desired, deltas map[int]float64) primitive.Primitive {
	f4 := desired[cascadeOut]
	f6, has6 := desired[cascadeSrc]

	switch {
	case has6 && f6 > f4:
		p := s.newCandidate()
		o6, err := p.ApproximateDivider(cascadeSrc, m, d, s.fIn, f6, s.bounds.OutMin, s.bounds.OutMax)
		if err != nil {
			return nil
		}
		if attr.RelativeError(f6, s.fIn*m/(d*o6)) > deltas[cascadeSrc] {
			return nil
		}
		scaled := maps.Clone(desired)
		scaled[cascadeOut] = f4 * o6
		if !p.ConfigureApproximatedDividers(m, d, s.fIn, scaled, deltas, s.bounds.OutMin, s.bounds.OutMax) {
			return nil
		}
		div4, _ := p.OutputDivider(cascadeOut)
		if err := p.EnableCascade(div4.Float(), o6); err != nil {
			return nil
		}
		return p

	case !has6:
		o4, o6, ok := s.precomputeCascade(s.fIn*m/d, f4, deltas[cascadeOut])
		if !ok {
			return nil
		}
		rest := maps.Clone(desired)
		delete(rest, cascadeOut)
		p := s.newCandidate()
		if !p.ConfigureApproximatedDividers(m, d, s.fIn, rest, deltas, s.bounds.OutMin, s.bounds.OutMax) {
			return nil
		}
		if err := p.EnableCascade(o4, o6); err != nil {
			return nil
		}
		return p
	}
	return nil
}

// precomputeCascade picks integer dividers o4 in [2, 128] and o6 in [1, 127]
// so that vco/(o4*o6) is within tolerance of target while every involved
// frequency stays inside the output limits. The smallest relative error
// wins; ties go to the larger o4, which leaves finer phase and duty steps.
func (s *Session) precomputeCascade(vco, target, delta float64) (o4, o6 float64, ok bool) {
	fMin, fMax := s.bounds.OutMin, s.bounds.OutMax
	best := 0.0

	for a := 128; a >= 2; a-- {
		if vco/float64(a) < fMin {
			continue
		}
		for b := 1; b < 128; b++ {
			if vco/float64(b) > fMax {
				continue
			}
			if vco/float64(b) < fMin {
				break
			}
			f := vco / float64(a*b)
			if f < fMin || f > fMax {
				continue
			}
			e := attr.RelativeError(target, f)
			if e > delta {
				continue
			}
			if !ok || e < best {
				o4, o6, best, ok = float64(a), float64(b), e, true
			}
		}
	}
	return o4, o6, ok
}
