package configurator

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/specialistvlad/cmtgen/internal/attr"
	"github.com/specialistvlad/cmtgen/internal/primitive"
)

// SelectCandidate orders the candidates and selects the first one. The
// order is: multiplier closest to MIdeal, then smallest pre-divider, then
// smallest multiplier. With ScoreByDeviation the summed deviation from the
// requested frequencies and phase shifts comes first. It reports false when
// there is no candidate.
func (s *Session) SelectCandidate() (primitive.Primitive, bool) {
	if len(s.candidates) == 0 {
		s.selected = nil
		return nil, false
	}

	mIdeal := s.MIdeal()
	sorted := slices.Clone(s.candidates)

	// Least significant key first; stable sorts keep earlier orderings as
	// tie-breakers.
	slices.SortStableFunc(sorted, func(a, b primitive.Primitive) int {
		return cmp.Or(
			cmp.Compare(a.PreDivider().Float(), b.PreDivider().Float()),
			cmp.Compare(a.Multiplier().Float(), b.Multiplier().Float()),
		)
	})
	slices.SortStableFunc(sorted, func(a, b primitive.Primitive) int {
		return cmp.Compare(
			attr.RelativeError(mIdeal, a.Multiplier().Float()),
			attr.RelativeError(mIdeal, b.Multiplier().Float()),
		)
	})
	if s.opts.ScoreByDeviation {
		slices.SortStableFunc(sorted, func(a, b primitive.Primitive) int {
			return cmp.Compare(s.Deviation(a), s.Deviation(b))
		})
	}

	s.candidates = sorted
	s.selected = sorted[0]
	return s.selected, true
}

// Deviation sums the relative errors of the requested frequencies and phase
// shifts of p.
func (s *Session) Deviation(p primitive.Primitive) float64 {
	total := 0.0
	for _, i := range sortedIndexes(s.frequencies) {
		f, _ := p.OutputFrequency(i)
		total += attr.RelativeError(s.frequencies[i].Value, f)
	}
	for _, i := range sortedIndexes(s.phaseShifts) {
		if ps, err := p.PhaseShift(i); err == nil {
			total += attr.RelativeError(s.phaseShifts[i].Value, ps.Float())
		}
	}
	return total
}

// ConfigureOther applies bandwidth, reference jitter and startup wait to
// the selected candidate. Unset values are skipped.
func (s *Session) ConfigureOther(o Other) error {
	if s.selected == nil {
		return ErrNoSelection
	}
	if o.Bandwidth != nil {
		if err := s.selected.Bandwidth().Set(o.Bandwidth); err != nil {
			return fmt.Errorf("bandwidth: %w", err)
		}
	}
	if o.RefJitter != nil {
		if err := s.selected.RefJitter().Set(o.RefJitter); err != nil {
			return fmt.Errorf("ref_jitter: %w", err)
		}
		s.selected.RefJitter().Activate()
	}
	if o.StartupWait != nil {
		if err := s.selected.StartupWait().Set(o.StartupWait); err != nil {
			return fmt.Errorf("startup_wait: %w", err)
		}
	}
	return nil
}
