package configurator

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
)

// Default relative tolerances used when a target does not carry its own.
const (
	DefaultFrequencyDelta  = 0.5
	DefaultPhaseShiftDelta = 0.5
	DefaultDutyCycleDelta  = 0.15
)

var (
	// ErrTooManyOutputs is returned when a target names an output the
	// primitive does not have.
	ErrTooManyOutputs = errors.New("too many outputs for primitive")
	// ErrInvalidTarget is returned for targets outside their domain.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrNoSelection is returned by passes that need a selected candidate.
	ErrNoSelection = errors.New("no candidate selected")
)

// Target is a requested value and the accepted relative error.
type Target struct {
	Value float64
	Delta float64
}

// Frequency returns a frequency target with the default tolerance.
func Frequency(mhz float64) Target { return Target{Value: mhz, Delta: DefaultFrequencyDelta} }

// PhaseShift returns a phase-shift target with the default tolerance.
func PhaseShift(deg float64) Target { return Target{Value: deg, Delta: DefaultPhaseShiftDelta} }

// DutyCycle returns a duty-cycle target with the default tolerance.
func DutyCycle(ratio float64) Target { return Target{Value: ratio, Delta: DefaultDutyCycleDelta} }

// FrequencyRequest holds the inputs of the frequency search.
type FrequencyRequest struct {
	// InputFrequency is f_in in MHz.
	InputFrequency float64
	// Outputs maps output indexes to frequency targets in MHz.
	Outputs map[int]Target
	// Cascade allows chaining output 6 into output 4 when output 4 cannot
	// be reached directly. Ignored by primitives without a cascade.
	Cascade bool
}

// Other holds the parameters applied to the selected candidate only. Values
// are passed through to attribute validation untouched, nil means unset.
type Other struct {
	Bandwidth   any
	RefJitter   any
	StartupWait any
}

// Request is a complete configuration request.
type Request struct {
	FrequencyRequest
	PhaseShifts map[int]Target
	DutyCycles  map[int]Target
	Other       Other
}

func sortedIndexes(targets map[int]Target) []int {
	return slices.Sorted(maps.Keys(targets))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (s *Session) checkIndexes(what string, targets map[int]Target) error {
	for _, i := range sortedIndexes(targets) {
		if i < 0 {
			return fmt.Errorf("%w: %s for output %d", ErrInvalidTarget, what, i)
		}
		if i >= s.template.Outputs() {
			return fmt.Errorf("%w: %s requested for output %d, %s has %d outputs",
				ErrTooManyOutputs, what, i, s.template.Name(), s.template.Outputs())
		}
		if d := targets[i].Delta; d < 0 || !finite(d) {
			return fmt.Errorf("%w: %s tolerance %v for output %d", ErrInvalidTarget, what, d, i)
		}
	}
	return nil
}

func (s *Session) validateFrequencies(req FrequencyRequest) error {
	fIn := req.InputFrequency
	if fIn <= 0 || !finite(fIn) {
		return fmt.Errorf("%w: input frequency %v", ErrInvalidTarget, fIn)
	}
	if fIn < s.bounds.InMin || fIn > s.bounds.InMax {
		return fmt.Errorf("%w: input frequency %v MHz is not within [%v; %v] for %s",
			ErrInvalidTarget, fIn, s.bounds.InMin, s.bounds.InMax, s.template.Kind())
	}
	if len(req.Outputs) == 0 {
		return fmt.Errorf("%w: no output frequency requested", ErrInvalidTarget)
	}
	if err := s.checkIndexes("frequency", req.Outputs); err != nil {
		return err
	}
	for _, i := range sortedIndexes(req.Outputs) {
		if v := req.Outputs[i].Value; v <= 0 || !finite(v) {
			return fmt.Errorf("%w: frequency %v for output %d", ErrInvalidTarget, v, i)
		}
	}
	return nil
}

func (s *Session) validatePhaseShifts(targets map[int]Target) error {
	if err := s.checkIndexes("phase shift", targets); err != nil {
		return err
	}
	for _, i := range sortedIndexes(targets) {
		if v := targets[i].Value; v < -360 || v > 360 || !finite(v) {
			return fmt.Errorf("%w: phase shift %v for output %d is not within [-360; 360]", ErrInvalidTarget, v, i)
		}
	}
	return nil
}

func (s *Session) validateDutyCycles(targets map[int]Target) error {
	if err := s.checkIndexes("duty cycle", targets); err != nil {
		return err
	}
	for _, i := range sortedIndexes(targets) {
		if v := targets[i].Value; v <= 0 || v >= 1 || !finite(v) {
			return fmt.Errorf("%w: duty cycle %v for output %d is not within (0; 1)", ErrInvalidTarget, v, i)
		}
	}
	return nil
}
