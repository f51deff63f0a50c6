package configurator

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/cmtgen/internal/ctxlog"
	"github.com/specialistvlad/cmtgen/internal/fpga"
	"github.com/specialistvlad/cmtgen/internal/primitive"
)

// Options tune the selection.
type Options struct {
	// ScoreByDeviation ranks candidates by the summed relative deviation of
	// their frequencies and phase shifts before the multiplier rules.
	ScoreByDeviation bool
}

// Session holds the state of one configuration request.
type Session struct {
	model    *fpga.Model
	bounds   fpga.Bounds
	template primitive.Primitive
	opts     Options

	candidates []primitive.Primitive
	selected   primitive.Primitive

	fIn  float64
	dMin float64

	// kept for deviation scoring
	frequencies map[int]Target
	phaseShifts map[int]Target
}

// NewSession prepares a search for the primitive kind of template on model.
// The template is never modified; candidates are fresh instances of its
// kind.
func NewSession(model *fpga.Model, template primitive.Primitive, opts Options) (*Session, error) {
	bounds, err := model.Bounds(template.Kind())
	if err != nil {
		return nil, err
	}
	return &Session{model: model, bounds: bounds, template: template, opts: opts}, nil
}

// Bounds are the model limits for the session's primitive kind.
func (s *Session) Bounds() fpga.Bounds { return s.bounds }

// Candidates returns the current candidate list.
func (s *Session) Candidates() []primitive.Primitive { return slices.Clone(s.candidates) }

// Selected returns the candidate chosen by SelectCandidate, or nil.
func (s *Session) Selected() primitive.Primitive { return s.selected }

// MIdeal is the multiplier the vendor recommends, d_min * vco_max / f_in.
// It is zero before ConfigureFrequencies ran.
func (s *Session) MIdeal() float64 {
	if s.fIn == 0 {
		return 0
	}
	return s.dMin * s.bounds.VCOMax / s.fIn
}

// Result is the outcome of Configure.
type Result struct {
	Selected   primitive.Primitive
	Found      bool
	Candidates int
	MIdeal     float64
}

// Configure validates the whole request, runs every pass and selects a
// candidate. When nothing satisfies the request Result.Found is false and
// the error is nil.
func (s *Session) Configure(ctx context.Context, req Request) (Result, error) {
	logger := ctxlog.FromContext(ctx)

	if err := s.validateFrequencies(req.FrequencyRequest); err != nil {
		return Result{}, err
	}
	if err := s.validatePhaseShifts(req.PhaseShifts); err != nil {
		return Result{}, err
	}
	if err := s.validateDutyCycles(req.DutyCycles); err != nil {
		return Result{}, err
	}

	candidates, err := s.ConfigureFrequencies(ctx, req.FrequencyRequest)
	if err != nil {
		return Result{}, err
	}

	if len(req.PhaseShifts) > 0 {
		before := len(candidates)
		if candidates, err = s.ConfigurePhaseShifts(req.PhaseShifts); err != nil {
			return Result{}, err
		}
		logger.Debug("Phase-shift pass complete.", "before", before, "after", len(candidates))
	}

	if len(req.DutyCycles) > 0 {
		before := len(candidates)
		if candidates, err = s.ConfigureDutyCycles(req.DutyCycles); err != nil {
			return Result{}, err
		}
		logger.Debug("Duty-cycle pass complete.", "before", before, "after", len(candidates))
	}

	selected, ok := s.SelectCandidate()
	res := Result{Selected: selected, Found: ok, Candidates: len(candidates), MIdeal: s.MIdeal()}
	if !ok {
		logger.Debug("No configuration found.")
		return res, nil
	}

	if err := s.ConfigureOther(req.Other); err != nil {
		return res, fmt.Errorf("failed to apply other parameters: %w", err)
	}
	logger.Debug("Candidate selected.",
		"m", selected.Multiplier().Float(),
		"d", selected.PreDivider().Float(),
		"m_ideal", res.MIdeal,
	)
	return res, nil
}
