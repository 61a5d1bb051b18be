// model/montecarlo_test.go

package model_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suksuki/bazi-sub002/core"
	"github.com/suksuki/bazi-sub002/model"
)

// TestRunMonteCarlo_SameSeedIsDeterministic is half of P8: a fixed seed
// and sample count reproduce identical percentiles across calls.
func TestRunMonteCarlo_SameSeedIsDeterministic(t *testing.T) {
	tb := model.DefaultTables()
	cfg := core.DefaultConfig()

	req := balancedBaselineRequest()
	req.SampleDistribution = true
	req.SampleCount = 200
	req.Seed = 42

	first, err := model.RunMonteCarlo(req, tb, cfg)
	require.NoError(t, err)
	second, err := model.RunMonteCarlo(req, tb, cfg)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

// TestRunMonteCarlo_DefaultSampleCountWhenUnset covers §4.9's "default
// 1,000" fallback by checking it runs without error when SampleCount is
// left at its zero value (small enough here to stay fast).
func TestRunMonteCarlo_DefaultSampleCountWhenUnset(t *testing.T) {
	tb := model.DefaultTables()
	cfg := core.DefaultConfig()

	req := balancedBaselineRequest()
	req.Seed = 7

	dist, err := model.RunMonteCarlo(req, tb, cfg)
	require.NoError(t, err)
	require.NotNil(t, dist)
}

// TestAnalyze_PopulatesDistributionOnlyWhenRequested checks the
// Result.Distribution gate §4.9 describes.
func TestAnalyze_PopulatesDistributionOnlyWhenRequested(t *testing.T) {
	engine := model.NewGraphEngine()

	plain, err := engine.Analyze(balancedBaselineRequest())
	require.NoError(t, err)
	require.Nil(t, plain.Distribution)

	sampled := balancedBaselineRequest()
	sampled.SampleDistribution = true
	sampled.SampleCount = 100
	sampled.Seed = 1

	withDist, err := engine.Analyze(sampled)
	require.NoError(t, err)
	require.NotNil(t, withDist.Distribution)
}

// TestBuildPerturbedNodes_NeverGoesNegative guards the zero floor
// BuildPerturbedNodes applies to the energy redraw.
func TestBuildPerturbedNodes_NeverGoesNegative(t *testing.T) {
	tb := model.DefaultTables()
	cfg := core.DefaultConfig()
	req := balancedBaselineRequest()

	rng := rand.New(rand.NewSource(99))
	nodes, err := model.BuildPerturbedNodes(req, tb, cfg, rng)
	require.NoError(t, err)
	for _, n := range nodes {
		require.GreaterOrEqual(t, n.CurrentEnergy.Mean, 0.0)
	}
}
