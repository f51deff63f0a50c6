package attr

import (
	"iter"
	"math"
)

// RelativeError returns |actual-target| / |target|. A zero target saturates
// to |actual| instead of dividing by zero.
func RelativeError(target, actual float64) float64 {
	if target == 0 {
		return math.Abs(actual)
	}
	return math.Abs(actual-target) / math.Abs(target)
}

// SetNearest stores the legal value closest to target. Targets at or beyond
// the bounds are clamped. Between the bounds the lower or upper step-aligned
// neighbour wins by relative error; ties go to the upper one. Without a step
// the clamped target is stored as is.
func (a *Attribute) SetNearest(target float64) {
	switch {
	case target <= a.start:
		a.num = a.start
		return
	case target >= a.end:
		a.num = a.end
		return
	case a.step <= 0:
		a.num = target
		return
	}

	factor := (target - a.start) / a.step
	lower := math.Floor(factor)*a.step + a.start
	upper := math.Ceil(factor)*a.step + a.start
	if upper > a.end {
		upper = a.end
	}

	if RelativeError(target, lower) < RelativeError(target, upper) {
		a.num = lower
	} else {
		a.num = upper
	}
}

// Values returns the legal values between from and to, clipped to the
// attribute bounds: from + k*step while below to, then to itself. The
// sequence is empty when the clipped range is empty. It can be ranged over
// any number of times.
func (a *Attribute) Values(from, to float64) iter.Seq[float64] {
	lo := math.Max(from, a.start)
	hi := math.Min(to, a.end)
	step := a.step

	return func(yield func(float64) bool) {
		if lo > hi {
			return
		}
		if step > 0 {
			// Multiplying keeps the error from accumulating across steps.
			for k := 0; lo+float64(k)*step < hi; k++ {
				if !yield(lo + float64(k)*step) {
					return
				}
			}
		} else if lo < hi {
			if !yield(lo) {
				return
			}
		}
		yield(hi)
	}
}

// All is Values over the full attribute range.
func (a *Attribute) All() iter.Seq[float64] {
	return a.Values(a.start, a.end)
}
