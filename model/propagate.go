// model/propagate.go

package model

import (
	"math"

	"github.com/suksuki/bazi-sub002/core"
)

// Propagate runs Phase 3 (§4.5): damped propagation toward equilibrium
// over a fixed iteration count. Means propagate through the
// matrix-vector product; variances propagate as Σ A[i][j]²·var[j].
// Mutates each node's CurrentEnergy in place and returns the final
// mean vector for convenience.
func Propagate(nodes []*Node, adjacency [][]float64, cfg *core.Config) []float64 {
	n := len(nodes)

	mean := make([]float64, n)
	variance := make([]float64, n)
	mean0 := make([]float64, n)
	var0 := make([]float64, n)

	for i, node := range nodes {
		mean0[i] = node.InitialEnergy.Mean
		var0[i] = node.InitialEnergy.Std * node.InitialEnergy.Std
		mean[i] = mean0[i]
		variance[i] = var0[i]
	}

	damping := cfg.Flow.Damping
	entropy := cfg.Flow.GlobalEntropy

	for t := 0; t < cfg.Flow.PropagationIterations; t++ {
		nextMean := make([]float64, n)
		nextVariance := make([]float64, n)

		for i := 0; i < n; i++ {
			var weightedMean, weightedVariance float64
			for j := 0; j < n; j++ {
				weightedMean += adjacency[i][j] * mean[j]
				weightedVariance += adjacency[i][j] * adjacency[i][j] * variance[j]
			}
			m := damping*weightedMean + (1-damping)*mean0[i]
			if m < 0 {
				m = 0
			}
			m *= 1 - entropy

			v := damping*damping*weightedVariance + (1-damping)*(1-damping)*var0[i]
			v *= (1 - entropy) * (1 - entropy)

			nextMean[i] = m
			nextVariance[i] = v
		}

		mean, nextMean = nextMean, mean
		variance, nextVariance = nextVariance, variance
	}

	for i, node := range nodes {
		node.CurrentEnergy = core.MustProbValue(mean[i], sqrtNonNeg(variance[i]))
	}

	return mean
}

func sqrtNonNeg(v float64) float64 {
	if v < 0 {
		return 0
	}
	return math.Sqrt(v)
}
