// model/montecarlo.go

package model

import (
	"math/rand"
	"sort"

	"github.com/suksuki/bazi-sub002/core"
)

// defaultSampleCount is §4.9's default draw count ("default 1,000").
const defaultSampleCount = 1000

// RunMonteCarlo implements §4.9's probability-distribution mode: draw
// req.SampleCount perturbed copies of every node's energy from its
// (mean, std), rerun steps 4.5-4.8 on each draw, then return per-field
// percentiles. Sampling is seeded explicitly from req.Seed (§5), so two
// calls with the same Request and Config produce identical percentiles
// (P8).
func RunMonteCarlo(req Request, tb *Tables, cfg *core.Config) (*Distribution, error) {
	n := req.SampleCount
	if n <= 0 {
		n = defaultSampleCount
	}

	rng := rand.New(rand.NewSource(req.Seed))

	strengthDraws := make([]float64, 0, n)
	careerDraws := make([]float64, 0, n)
	wealthDraws := make([]float64, 0, n)
	relationshipDraws := make([]float64, 0, n)

	for i := 0; i < n; i++ {
		nodes, err := BuildPerturbedNodes(req, tb, cfg, rng)
		if err != nil {
			return nil, err
		}

		adjacency, _ := BuildAdjacency(nodes, tb, cfg)
		Propagate(nodes, adjacency, cfg)

		dayMasterNode := findDayMasterNode(nodes, req)
		if dayMasterNode == nil {
			return nil, NewModelError(ErrCodeInvalidSymbol, "day-master node not found among built nodes", nil)
		}

		strength := ClassifyStrength(nodes, dayMasterNode.Element, tb, cfg)
		tenGods := ProjectTenGods(nodes, dayMasterNode, cfg)
		wealth := CalculateWealthIndex(nodes, dayMasterNode, strength, req, tb, cfg)
		domains := CalculateDomains(nodes, dayMasterNode, strength, req, tenGods, tb, cfg)

		strengthDraws = append(strengthDraws, strength.Score)
		careerDraws = append(careerDraws, domains.Career.Mean)
		wealthDraws = append(wealthDraws, wealth.Score.Mean)
		relationshipDraws = append(relationshipDraws, domains.Relationship.Mean)
	}

	return &Distribution{
		StrengthScore: percentilesOf(strengthDraws),
		Career:        percentilesOf(careerDraws),
		Wealth:        percentilesOf(wealthDraws),
		Relationship:  percentilesOf(relationshipDraws),
	}, nil
}

// BuildPerturbedNodes runs Phase 1 then redraws each node's energy mean
// from Normal(mean, std) using rng, floored at zero, and stores the draw
// as both InitialEnergy and CurrentEnergy (std unchanged), so Propagate
// starts from and anchors its damping term to the drawn value (§4.9:
// "perturbed ProbValue samples drawn from each node's (mean, std)").
func BuildPerturbedNodes(req Request, tb *Tables, cfg *core.Config, rng *rand.Rand) ([]*Node, error) {
	nodes, _, err := BuildNodes(req, tb, cfg)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		draw := n.InitialEnergy.Mean + rng.NormFloat64()*n.InitialEnergy.Std
		if draw < 0 {
			draw = 0
		}
		n.InitialEnergy = core.MustProbValue(draw, n.InitialEnergy.Std)
		n.CurrentEnergy = n.InitialEnergy
	}
	return nodes, nil
}

// percentilesOf computes the five percentile points §4.9 names, using
// linear interpolation between the two closest ranks of the sorted draws.
func percentilesOf(xs []float64) Percentiles {
	if len(xs) == 0 {
		return Percentiles{}
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	return Percentiles{
		P5:  percentileAt(sorted, 0.05),
		P25: percentileAt(sorted, 0.25),
		P50: percentileAt(sorted, 0.50),
		P75: percentileAt(sorted, 0.75),
		P95: percentileAt(sorted, 0.95),
	}
}

func percentileAt(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	idx := p * float64(len(sorted)-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
