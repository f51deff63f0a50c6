package request

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/specialistvlad/cmtgen/internal/configurator"
)

// ErrInvalidRequest is returned for requests that are incomplete or
// inconsistent before any model lookup happens.
var ErrInvalidRequest = errors.New("invalid request")

// Output holds the targets of one output. Nil fields are unset.
type Output struct {
	Frequency       *float64
	FrequencyDelta  *float64
	PhaseShift      *float64
	PhaseShiftDelta *float64
	DutyCycle       *float64
	DutyCycleDelta  *float64
}

func (o *Output) merge(other *Output) {
	if other == nil {
		return
	}
	for _, p := range []struct{ dst, src **float64 }{
		{&o.Frequency, &other.Frequency},
		{&o.FrequencyDelta, &other.FrequencyDelta},
		{&o.PhaseShift, &other.PhaseShift},
		{&o.PhaseShiftDelta, &other.PhaseShiftDelta},
		{&o.DutyCycle, &other.DutyCycle},
		{&o.DutyCycleDelta, &other.DutyCycleDelta},
	} {
		if *p.src != nil {
			*p.dst = *p.src
		}
	}
}

// Request is a configuration request as written by the user.
type Request struct {
	Model      string
	SpeedGrade string
	Voltage    string
	Primitive  string

	// InputFrequency is f_in in MHz, zero when unset.
	InputFrequency float64
	Cascade        bool

	Outputs map[int]*Output

	// Other parameters keep the Go value of whatever was written so that
	// attribute validation can report type mismatches. Nil is unset.
	Bandwidth   any
	RefJitter   any
	StartupWait any
}

// Overrides are values layered over a request, typically from flags. Zero
// values and nil pointers leave the request untouched.
type Overrides struct {
	Model          string
	SpeedGrade     string
	Voltage        string
	Primitive      string
	InputFrequency *float64
	Cascade        *bool
	Outputs        map[int]*Output
	Bandwidth      any
	RefJitter      any
	StartupWait    any
}

// Apply layers o over r.
func (r *Request) Apply(o Overrides) {
	for _, p := range []struct{ dst, src *string }{
		{&r.Model, &o.Model},
		{&r.SpeedGrade, &o.SpeedGrade},
		{&r.Voltage, &o.Voltage},
		{&r.Primitive, &o.Primitive},
	} {
		if *p.src != "" {
			*p.dst = *p.src
		}
	}
	if o.InputFrequency != nil {
		r.InputFrequency = *o.InputFrequency
	}
	if o.Cascade != nil {
		r.Cascade = *o.Cascade
	}
	if len(o.Outputs) > 0 && r.Outputs == nil {
		r.Outputs = make(map[int]*Output, len(o.Outputs))
	}
	for i, out := range o.Outputs {
		if r.Outputs[i] == nil {
			r.Outputs[i] = &Output{}
		}
		r.Outputs[i].merge(out)
	}
	if o.Bandwidth != nil {
		r.Bandwidth = o.Bandwidth
	}
	if o.RefJitter != nil {
		r.RefJitter = o.RefJitter
	}
	if o.StartupWait != nil {
		r.StartupWait = o.StartupWait
	}
}

// Validate checks that the request names everything a search needs.
func (r *Request) Validate() error {
	var errs []error
	if r.Model == "" {
		errs = append(errs, fmt.Errorf("%w: no FPGA model given", ErrInvalidRequest))
	}
	if r.SpeedGrade == "" {
		errs = append(errs, fmt.Errorf("%w: no speed grade given", ErrInvalidRequest))
	}
	if r.Primitive == "" {
		errs = append(errs, fmt.Errorf("%w: no primitive given", ErrInvalidRequest))
	}
	if r.InputFrequency == 0 {
		errs = append(errs, fmt.Errorf("%w: no input frequency given", ErrInvalidRequest))
	}
	hasFrequency := false
	for _, i := range slices.Sorted(maps.Keys(r.Outputs)) {
		out := r.Outputs[i]
		if out == nil {
			continue
		}
		if out.Frequency != nil {
			hasFrequency = true
		} else if out.FrequencyDelta != nil {
			errs = append(errs, fmt.Errorf("%w: output %d has a frequency tolerance but no frequency", ErrInvalidRequest, i))
		}
		if out.PhaseShift == nil && out.PhaseShiftDelta != nil {
			errs = append(errs, fmt.Errorf("%w: output %d has a phase shift tolerance but no phase shift", ErrInvalidRequest, i))
		}
		if out.DutyCycle == nil && out.DutyCycleDelta != nil {
			errs = append(errs, fmt.Errorf("%w: output %d has a duty cycle tolerance but no duty cycle", ErrInvalidRequest, i))
		}
	}
	if !hasFrequency {
		errs = append(errs, fmt.Errorf("%w: no output frequency given", ErrInvalidRequest))
	}
	return errors.Join(errs...)
}

// Targets converts a validated request into configurator targets. Missing
// tolerances take the configurator defaults and list values are upper-cased.
func (r *Request) Targets() (configurator.Request, error) {
	if err := r.Validate(); err != nil {
		return configurator.Request{}, err
	}

	req := configurator.Request{
		FrequencyRequest: configurator.FrequencyRequest{
			InputFrequency: r.InputFrequency,
			Outputs:        make(map[int]configurator.Target),
			Cascade:        r.Cascade,
		},
		PhaseShifts: make(map[int]configurator.Target),
		DutyCycles:  make(map[int]configurator.Target),
		Other: configurator.Other{
			Bandwidth:   upper(r.Bandwidth),
			RefJitter:   r.RefJitter,
			StartupWait: r.StartupWait,
		},
	}
	for i, out := range r.Outputs {
		if out == nil {
			continue
		}
		if t, ok := target(out.Frequency, out.FrequencyDelta, configurator.DefaultFrequencyDelta); ok {
			req.Outputs[i] = t
		}
		if t, ok := target(out.PhaseShift, out.PhaseShiftDelta, configurator.DefaultPhaseShiftDelta); ok {
			req.PhaseShifts[i] = t
		}
		if t, ok := target(out.DutyCycle, out.DutyCycleDelta, configurator.DefaultDutyCycleDelta); ok {
			req.DutyCycles[i] = t
		}
	}
	return req, nil
}

func target(value, delta *float64, def float64) (configurator.Target, bool) {
	if value == nil {
		return configurator.Target{}, false
	}
	t := configurator.Target{Value: *value, Delta: def}
	if delta != nil {
		t.Delta = *delta
	}
	return t, true
}

func upper(v any) any {
	if s, ok := v.(string); ok {
		return strings.ToUpper(s)
	}
	return v
}
