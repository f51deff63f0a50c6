package attr

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"
)

type legalKey struct {
	start, end, step float64
	extra            string
}

// legalMemo caches divider value lists. The cached slices are never mutated.
var legalMemo sync.Map

// LegalValues returns the sorted legal values of an OutputDivider: the extra
// values plus start + k*step up to end. The returned slice is shared and must
// not be modified.
func (a *Attribute) LegalValues() []float64 {
	key := legalKey{start: a.start, end: a.end, step: a.step, extra: fmt.Sprint(a.extra)}
	if v, ok := legalMemo.Load(key); ok {
		return v.([]float64)
	}

	values := slices.Clone(a.extra)
	if a.step > 0 {
		n := int(math.Round((a.end - a.start) / a.step))
		for k := 0; k <= n; k++ {
			values = append(values, a.start+a.step*float64(k))
		}
	} else {
		values = append(values, a.start, a.end)
	}
	sort.Float64s(values)

	v, _ := legalMemo.LoadOrStore(key, values)
	return v.([]float64)
}

// Bracket returns the legal values surrounding target. The upper value is
// the first legal value strictly greater than target. When no such value
// exists the upper value wraps around to the smallest legal value and the
// lower value is the largest one, so Bracket(0.5) and Bracket(128) on a
// 1..128 divider both yield (128, 1).
func (a *Attribute) Bracket(target float64) (lower, upper float64) {
	values := a.LegalValues()
	i := sort.Search(len(values), func(i int) bool { return values[i] > target })
	if i == len(values) {
		i = 0
	}
	j := i - 1
	if j < 0 {
		j = len(values) - 1
	}
	return values[j], values[i]
}
