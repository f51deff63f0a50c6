package primitive

import (
	"fmt"

	"github.com/specialistvlad/cmtgen/internal/attr"
)

// Every function here builds a new attribute graph. Primitives never share
// attribute objects.

func tmpl(name string) string {
	return "." + name + "(" + attr.Placeholder + ")"
}

func newBandwidth() *attr.Attribute {
	return attr.NewList("BANDWIDTH", "OPTIMIZED", tmpl("BANDWIDTH"), "OPTIMIZED", "HIGH", "LOW")
}

func newRefJitter() *attr.Attribute {
	return attr.NewRange("REF_JITTER1", 0.010, tmpl("REF_JITTER1"), 0, 0.999, 3)
}

func newStartupWait() *attr.Attribute {
	return attr.NewBool("STARTUP_WAIT", false, tmpl("STARTUP_WAIT"))
}

func newFeedbackPhase() *attr.Attribute {
	return attr.NewIncrementRange("CLKFBOUT_PHASE", 0, tmpl("CLKFBOUT_PHASE"), 0, 360, 3, 0)
}

func newDivider(i int) *attr.Attribute {
	name := fmt.Sprintf("CLKOUT%d_DIVIDE", i)
	return attr.NewOutputDivider(name, 1, tmpl(name), 1, 128, 0, 1)
}

func newDutyCycle(i int) *attr.Attribute {
	name := fmt.Sprintf("CLKOUT%d_DUTY_CYCLE", i)
	return attr.NewIncrementRange(name, 0.5, tmpl(name), 0.001, 0.999, 3, 0)
}

func newPhase(i int) *attr.Attribute {
	name := fmt.Sprintf("CLKOUT%d_PHASE", i)
	return attr.NewIncrementRange(name, 0, tmpl(name), -360, 360, 3, 0)
}

func newOutputs(n int, first *attr.Attribute) (dividers, duties, phases []*attr.Attribute) {
	dividers = make([]*attr.Attribute, n)
	duties = make([]*attr.Attribute, n)
	phases = make([]*attr.Attribute, n)
	for i := range n {
		if i == 0 && first != nil {
			dividers[i] = first
		} else {
			dividers[i] = newDivider(i)
		}
		duties[i] = newDutyCycle(i)
		phases[i] = newPhase(i)
	}
	return dividers, duties, phases
}

func pllSchema() block {
	b := block{
		kind:      PLL,
		name:      "PLLE2_BASE",
		bandwidth: newBandwidth(),
		jitter:    newRefJitter(),
		startup:   newStartupWait(),
		fbPhase:   newFeedbackPhase(),
		mult:      attr.NewIncrementRange("CLKFBOUT_MULT", 5, tmpl("CLKFBOUT_MULT"), 2, 64, 0, 1),
		div:       attr.NewIncrementRange("DIVCLK_DIVIDE", 1, tmpl("DIVCLK_DIVIDE"), 1, 56, 0, 1),
		period:    attr.NewIncrementRange("CLKIN1_PERIOD", 0, tmpl("CLKIN1_PERIOD"), 0, 1000.0/19, 3, 0.001),
	}
	b.dividers, b.duties, b.phases = newOutputs(6, nil)

	b.attrs = []*attr.Attribute{b.bandwidth, b.mult, b.fbPhase, b.period, b.div, b.jitter, b.startup}
	b.attrs = append(b.attrs, b.dividers...)
	b.attrs = append(b.attrs, b.duties...)
	b.attrs = append(b.attrs, b.phases...)
	return b
}

func mmcmSchema() block {
	b := block{
		kind:         MMCM,
		name:         "MMCME2_BASE",
		skipDefaults: true,
		bandwidth:    newBandwidth(),
		jitter:       newRefJitter(),
		startup:      newStartupWait(),
		fbPhase:      newFeedbackPhase(),
		mult:         attr.NewIncrementRange("CLKFBOUT_MULT_F", 5, tmpl("CLKFBOUT_MULT_F"), 2, 64, 3, 0.125),
		div:          attr.NewIncrementRange("DIVCLK_DIVIDE", 1, tmpl("DIVCLK_DIVIDE"), 1, 106, 0, 1),
		period:       attr.NewIncrementRange("CLKIN1_PERIOD", 0, tmpl("CLKIN1_PERIOD"), 0, 100, 3, 0.001),
		cascade:      attr.NewBool("CLKOUT4_CASCADE", false, tmpl("CLKOUT4_CASCADE")),
	}
	divideF := attr.NewOutputDivider("CLKOUT0_DIVIDE_F", 1, tmpl("CLKOUT0_DIVIDE_F"), 2, 128, 3, 0.125, 1)
	b.dividers, b.duties, b.phases = newOutputs(7, divideF)

	b.attrs = []*attr.Attribute{b.bandwidth, b.jitter, b.startup, b.mult, b.fbPhase, b.period, b.div, b.cascade}
	b.attrs = append(b.attrs, b.dividers...)
	b.attrs = append(b.attrs, b.duties...)
	b.attrs = append(b.attrs, b.phases...)
	return b
}
