// Package stats provides the pure statistics kernel used by aggregators
// and confidence scoring: mean, variance, standard deviation, sorted
// median, and weighted sums. Every function here is CPU-bound and
// non-suspending — no I/O, no locks, no global state.
package stats

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Mean returns the arithmetic mean of values. Returns zero for an empty
// slice; callers are expected to reject empty input before calling in.
func Mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}

// WeightedSum returns Σ(value·weight) and Σ(weight) for parallel slices
// of equal length.
func WeightedSum(values, weights []decimal.Decimal) (weightedTotal, weightTotal decimal.Decimal) {
	weightedTotal = decimal.Zero
	weightTotal = decimal.Zero
	for i, v := range values {
		weightedTotal = weightedTotal.Add(v.Mul(weights[i]))
		weightTotal = weightTotal.Add(weights[i])
	}
	return weightedTotal, weightTotal
}

// WeightedMean returns Σ(value·weight)/Σ(weight). The caller is
// responsible for checking the weight total is non-zero.
func WeightedMean(values, weights []decimal.Decimal) decimal.Decimal {
	weightedTotal, weightTotal := WeightedSum(values, weights)
	if weightTotal.IsZero() {
		return decimal.Zero
	}
	return weightedTotal.Div(weightTotal)
}

// Variance returns the population variance of values around mean.
func Variance(values []decimal.Decimal, mean decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, v := range values {
		d := v.Sub(mean)
		sum = sum.Add(d.Mul(d))
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}

// StdDev returns the population standard deviation of values around mean.
func StdDev(values []decimal.Decimal, mean decimal.Decimal) decimal.Decimal {
	return sqrt(Variance(values, mean))
}

// SortedMedian returns the median of an already-sorted ascending slice.
// The caller owns sort order; this function never sorts in place so it
// is safe to call on a slice another caller still holds a reference to.
func SortedMedian(sorted []decimal.Decimal) decimal.Decimal {
	n := len(sorted)
	if n == 0 {
		return decimal.Zero
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return sorted[n/2-1].Add(sorted[n/2]).Div(decimal.NewFromInt(2))
}

// Sorted returns a freshly sorted-ascending copy of values, stable on
// ties. The Median aggregator uses it; TrimmedMean sorts whole quotes
// with its own stable sort instead.
func Sorted(values []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	copy(out, values)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LessThan(out[j])
	})
	return out
}

// SpreadPercent returns 100·(max-min)/mean, or zero if mean is zero
// (spec.md leaves this undefined-as-zero rather than an error).
func SpreadPercent(values []decimal.Decimal, mean decimal.Decimal) decimal.Decimal {
	if len(values) == 0 || mean.IsZero() {
		return decimal.Zero
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v.LessThan(lo) {
			lo = v
		}
		if v.GreaterThan(hi) {
			hi = v
		}
	}
	return hi.Sub(lo).Div(mean).Mul(decimal.NewFromInt(100))
}

// sqrt computes the square root of a non-negative decimal via Newton's
// method. decimal.Decimal has no native Sqrt; dispersion metrics don't
// need arbitrary precision, so we iterate to float64 epsilon and convert
// back, which is exact enough for confidence scoring and display.
func sqrt(d decimal.Decimal) decimal.Decimal {
	if d.Sign() <= 0 {
		return decimal.Zero
	}
	f, _ := d.Float64()
	if f <= 0 {
		return decimal.Zero
	}
	x := f
	for i := 0; i < 40; i++ {
		x = 0.5 * (x + f/x)
	}
	return decimal.NewFromFloat(x)
}
