package configurator

import (
	"context"
	"math"
	"slices"

	"github.com/specialistvlad/cmtgen/internal/attr"
	"github.com/specialistvlad/cmtgen/internal/ctxlog"
	"github.com/specialistvlad/cmtgen/internal/primitive"
)

// searchBounds are the pre-divider and multiplier ranges for one input
// frequency.
type searchBounds struct {
	dMin, dMax float64
	mMin, mMax float64
}

func (s *Session) searchBounds(fIn float64) searchBounds {
	b := s.bounds
	dMin := math.Ceil(fIn / b.PFDMax)
	dMax := math.Floor(fIn / b.PFDMin)
	return searchBounds{
		dMin: dMin,
		dMax: dMax,
		mMin: math.Ceil(b.VCOMin * dMin / fIn),
		mMax: math.Floor(b.VCOMax * dMax / fIn),
	}
}

// ConfigureFrequencies enumerates the legal (M, D) pairs and returns the
// configurations whose requested outputs are all within tolerance. The
// result replaces the session's candidate list. An empty list is not an
// error. The context is checked between multipliers.
func (s *Session) ConfigureFrequencies(ctx context.Context, req FrequencyRequest) ([]primitive.Primitive, error) {
	if err := s.validateFrequencies(req); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)

	s.fIn = req.InputFrequency
	s.frequencies = req.Outputs
	s.selected = nil

	sb := s.searchBounds(s.fIn)
	s.dMin = sb.dMin
	logger.Debug("Frequency search bounds.",
		"primitive", s.template.Name(),
		"f_in", s.fIn,
		"d_min", sb.dMin, "d_max", sb.dMax,
		"m_min", sb.mMin, "m_max", sb.mMax,
	)

	desired := make(map[int]float64, len(req.Outputs))
	deltas := make(map[int]float64, len(req.Outputs))
	for i, t := range req.Outputs {
		desired[i] = t.Value
		deltas[i] = t.Delta
	}

	cascade := req.Cascade && s.template.SupportsCascade()
	if req.Cascade && !cascade {
		logger.Debug("Cascade requested but not supported, ignoring.", "primitive", s.template.Name())
	}

	// Ratios already evaluated. Pairs sharing a ratio give the same VCO.
	seen := make(map[float64]struct{})
	var candidates []primitive.Primitive
	evaluated := 0

	for m := range s.template.LegalMultiplierValues(sb.mMin, sb.mMax) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for d := range s.template.LegalDividerValues(sb.dMin, sb.dMax) {
			vco := s.fIn * m / d
			if vco < s.bounds.VCOMin || vco > s.bounds.VCOMax {
				continue
			}
			ratio := m / d
			if _, ok := seen[ratio]; ok {
				continue
			}
			seen[ratio] = struct{}{}
			evaluated++

			if p := s.tryPair(m, d, desired, deltas, cascade); p != nil {
				candidates = append(candidates, p)
			}
		}
	}

	logger.Debug("Frequency search complete.", "pairs", evaluated, "candidates", len(candidates))
	s.candidates = candidates
	return slices.Clone(candidates), nil
}

func (s *Session) newCandidate() primitive.Primitive {
	p := s.template.New()
	p.SetInputPeriodFromFrequency(s.fIn)
	return p
}

// tryPair configures one (M, D) pair. The cascade is only attempted when the
// direct configuration fails because of the cascade output.
func (s *Session) tryPair(m, d float64, desired, deltas map[int]float64, cascade bool) primitive.Primitive {
	p := s.newCandidate()
	if p.ConfigureApproximatedDividers(m, d, s.fIn, desired, deltas, s.bounds.OutMin, s.bounds.OutMax) {
		return p
	}
	if !cascade {
		return nil
	}
	target, ok := desired[primitive.CascadeOutput]
	if !ok {
		return nil
	}
	if f, _ := p.OutputFrequency(primitive.CascadeOutput); attr.RelativeError(target, f) <= deltas[primitive.CascadeOutput] {
		return nil
	}
	return s.cascade(m, d, desired, deltas)
}
