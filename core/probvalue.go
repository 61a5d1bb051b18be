// core/probvalue.go

package core

import (
	"fmt"
	"math"
)

// ProbValue is a scalar carrying a mean and a standard deviation. Every
// arithmetic site in the engine that used to be a plain float64 accepts
// and returns ProbValue instead, so uncertainty propagates end to end
// from node initialization through to the final domain scores.
//
// Invariant: Std >= 0. Comparisons (<, <=, >, >=) use Mean only; use
// Compare for an explicit, uniform comparison helper in sort/select
// code paths.
type ProbValue struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// NewProbValue builds a ProbValue, defaulting std to 0 when omitted by
// the caller (mirrors the `new(mean, std=0)` contract in spec §4.1).
func NewProbValue(mean float64, std ...float64) (ProbValue, error) {
	s := 0.0
	if len(std) > 0 {
		s = std[0]
	}
	if !isFinite(mean) || !isFinite(s) {
		return ProbValue{}, NewCoreErrorWithCode(ErrArithmetic, "non-finite ProbValue operand")
	}
	if s < 0 {
		return ProbValue{}, NewCoreErrorWithCode(ErrRange, "ProbValue.Std must be >= 0")
	}
	return ProbValue{Mean: mean, Std: s}, nil
}

// MustProbValue is NewProbValue without the error return, for call
// sites that already know the inputs are well formed (constants,
// literals derived from validated config).
func MustProbValue(mean float64, std ...float64) ProbValue {
	v, err := NewProbValue(mean, std...)
	if err != nil {
		panic(err)
	}
	return v
}

// Constant returns a zero-std ProbValue.
func Constant(x float64) ProbValue {
	return ProbValue{Mean: x}
}

// FromSamples computes the first two moments of xs and returns them as
// a ProbValue. Returns ErrInvalid on an empty slice.
func FromSamples(xs []float64) (ProbValue, error) {
	if len(xs) == 0 {
		return ProbValue{}, NewCoreErrorWithCode(ErrInvalid, "FromSamples requires at least one sample")
	}

	var sum float64
	for _, x := range xs {
		if !isFinite(x) {
			return ProbValue{}, NewCoreErrorWithCode(ErrArithmetic, "non-finite sample")
		}
		sum += x
	}
	mean := sum / float64(len(xs))

	if len(xs) == 1 {
		return ProbValue{Mean: mean}, nil
	}

	var sumSq float64
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	// Population variance: FromSamples is used to re-derive a node's own
	// (mean, std) from Monte-Carlo draws of itself, not to estimate a
	// population parameter from an external sample.
	variance := sumSq / float64(len(xs))

	return ProbValue{Mean: mean, Std: math.Sqrt(variance)}, nil
}

// Add sums means and combines variances in quadrature.
func (v ProbValue) Add(other ProbValue) ProbValue {
	return ProbValue{
		Mean: v.Mean + other.Mean,
		Std:  math.Hypot(v.Std, other.Std),
	}
}

// Sub subtracts means; variances still combine in quadrature (variance
// of a difference is the sum of variances, same as a sum).
func (v ProbValue) Sub(other ProbValue) ProbValue {
	return ProbValue{
		Mean: v.Mean - other.Mean,
		Std:  math.Hypot(v.Std, other.Std),
	}
}

// Mul multiplies two independent ProbValues using first-order error
// propagation: Var(XY) ≈ Y²Var(X) + X²Var(Y).
func (v ProbValue) Mul(other ProbValue) ProbValue {
	mean := v.Mean * other.Mean
	std := math.Hypot(other.Mean*v.Std, v.Mean*other.Std)
	return ProbValue{Mean: mean, Std: std}
}

// Scale multiplies both mean and std by a scalar (§4.1 `scale(k)`).
func (v ProbValue) Scale(k float64) ProbValue {
	return ProbValue{Mean: v.Mean * k, Std: math.Abs(k) * v.Std}
}

// Clamp bounds Mean to [min, max], leaving Std unchanged.
func (v ProbValue) Clamp(min, max float64) ProbValue {
	m := v.Mean
	if m < min {
		m = min
	}
	if m > max {
		m = max
	}
	return ProbValue{Mean: m, Std: v.Std}
}

// Compare is the uniform comparison helper spec §9 recommends so every
// sort/select code path compares ProbValues the same way: by Mean only.
// Returns -1, 0, or 1.
func Compare(a, b ProbValue) int {
	switch {
	case a.Mean < b.Mean:
		return -1
	case a.Mean > b.Mean:
		return 1
	default:
		return 0
	}
}

// Equal compares the full (Mean, Std) tuple, per spec §3's equality
// rule (ordering is total on .Mean; equality is on the tuple).
func (v ProbValue) Equal(other ProbValue) bool {
	return v.Mean == other.Mean && v.Std == other.Std
}

// Collapse returns the scalar mean, discarding uncertainty.
func (v ProbValue) Collapse() float64 {
	return v.Mean
}

// String implements fmt.Stringer for readable test failure output.
func (v ProbValue) String() string {
	return fmt.Sprintf("%.6g±%.6g", v.Mean, v.Std)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
