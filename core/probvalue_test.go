// core/probvalue_test.go

package core_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suksuki/bazi-sub002/core"
)

func TestProbValue_AddCombinesVarianceInQuadrature(t *testing.T) {
	a := core.MustProbValue(3, 4)
	b := core.MustProbValue(5, 3)

	sum := a.Add(b)
	require.Equal(t, 8.0, sum.Mean)
	require.InDelta(t, 5.0, sum.Std, 1e-9) // hypot(4,3) = 5
}

func TestProbValue_ScaleAbsolutesTheStd(t *testing.T) {
	v := core.MustProbValue(2, 3)
	scaled := v.Scale(-2)
	require.Equal(t, -4.0, scaled.Mean)
	require.Equal(t, 6.0, scaled.Std)
}

func TestProbValue_Clamp(t *testing.T) {
	v := core.MustProbValue(150, 1)
	require.Equal(t, 100.0, v.Clamp(-100, 100).Mean)
	require.Equal(t, 1.0, v.Clamp(-100, 100).Std)
}

func TestProbValue_CompareUsesMeanOnly(t *testing.T) {
	a := core.MustProbValue(1, 100)
	b := core.MustProbValue(2, 0)
	require.Equal(t, -1, core.Compare(a, b))
	require.Equal(t, 1, core.Compare(b, a))
	require.Equal(t, 0, core.Compare(a, a))
}

func TestProbValue_EqualComparesFullTuple(t *testing.T) {
	a := core.MustProbValue(1, 2)
	b := core.MustProbValue(1, 2)
	c := core.MustProbValue(1, 3)
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

// TestProbValue_FromSamplesRoundTrip is P7: from_samples(xs) then
// reconstructing matches the first two moments of xs to 1e-9.
func TestProbValue_FromSamplesRoundTrip(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	v, err := core.FromSamples(xs)
	require.NoError(t, err)

	var sum float64
	for _, x := range xs {
		sum += x
	}
	wantMean := sum / float64(len(xs))

	var sumSq float64
	for _, x := range xs {
		d := x - wantMean
		sumSq += d * d
	}
	wantStd := math.Sqrt(sumSq / float64(len(xs)))

	require.InDelta(t, wantMean, v.Mean, 1e-9)
	require.InDelta(t, wantStd, v.Std, 1e-9)
}

func TestProbValue_FromSamplesRejectsEmpty(t *testing.T) {
	_, err := core.FromSamples(nil)
	require.Error(t, err)
}

func TestProbValue_NewRejectsNegativeStd(t *testing.T) {
	_, err := core.NewProbValue(1, -0.1)
	require.Error(t, err)
}

func TestProbValue_NewRejectsNonFinite(t *testing.T) {
	_, err := core.NewProbValue(math.NaN())
	require.Error(t, err)

	_, err = core.NewProbValue(math.Inf(1))
	require.Error(t, err)
}
