// model/adjacency.go

package model

import (
	"math"

	"github.com/suksuki/bazi-sub002/core"
)

// pillarDistance implements §4.4's spatial-decay distance rule:
// luck/annual (supplementary) nodes sit at distance 1 from the day
// pillar and distance 2 from every other pillar.
func pillarDistance(a, b PillarPosition) int {
	if a == PillarSupplementary && b == PillarSupplementary {
		return 0
	}
	if a == PillarSupplementary {
		a, b = b, a
	}
	if b == PillarSupplementary {
		if a == PillarDay {
			return 1
		}
		return 2
	}
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d
}

// BuildAdjacency runs Phase 2 (§4.4): for every ordered pair of
// distinct nodes, sums the weighted relation contributions in the
// spec's table, applies the life-stage pre-multiplier, then scales by
// spatial decay. Returns the dense n×n matrix and, for trace output,
// the detected matches: full three-harmonies, clashes, and mediation
// redirects, one entry per ordered node pair. Six-combinations and
// partial three-harmonies add edge weight but are not recorded.
func BuildAdjacency(nodes []*Node, tb *Tables, cfg *core.Config) ([][]float64, []string) {
	n := len(nodes)
	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
	}

	activeBranches := make(map[Branch]bool)
	for _, node := range nodes {
		if node.Type == NodeBranch {
			activeBranches[node.Branch] = true
		}
	}
	trineMatches := tb.MatchThreeHarmonies(activeBranches)

	var details []string

	for i, ni := range nodes {
		for j, nj := range nodes {
			if i == j {
				continue
			}

			contributions := relationContributions(ni, nj, nodes, tb, cfg, trineMatches, &details)
			weight := core.CombineEdge(contributions, 1.0)

			weight *= lifeStagePremultiplier(ni, nj, tb)

			decay := core.SpatialDecay(pillarDistance(ni.Pillar, nj.Pillar), cfg.Flow.SpatialDecay)
			a[i][j] = weight * decay
		}
	}

	return a, details
}

func relationContributions(
	ni, nj *Node,
	allNodes []*Node,
	tb *Tables,
	cfg *core.Config,
	trineMatches []ThreeHarmonyMatch,
	details *[]string,
) []core.EdgeContribution {
	var contributions []core.EdgeContribution

	if nj.Element.Generates(ni.Element) {
		contributions = append(contributions, core.EdgeContribution{
			Kind: core.InteractionGeneration, Weight: 0.6 * cfg.Flow.GenerationEfficiency,
		})
	}

	if nj.Element.Controls(ni.Element) {
		w := controlOrMediated(ni, nj, allNodes, cfg, details)
		contributions = append(contributions, core.EdgeContribution{Kind: core.InteractionControl, Weight: w})
	}

	formsCombinations := cfg.Flow.DynamicNodesFormCombinations ||
		(ni.Pillar != PillarSupplementary && nj.Pillar != PillarSupplementary)

	if formsCombinations && nj.TransformTarget != nil && *nj.TransformTarget == ni.Element {
		contributions = append(contributions, core.EdgeContribution{
			Kind: core.InteractionStemCombination, Weight: 1.5 * cfg.Flow.CombinationBonus,
		})
	}

	if ni.Type == NodeBranch && nj.Type == NodeBranch {
		if formsCombinations {
			if _, ok := tb.SixCombinationTarget(ni.Branch, nj.Branch); ok {
				contributions = append(contributions, core.EdgeContribution{
					Kind: core.InteractionSixHarmony, Weight: cfg.Interactions.SixHarmony / 10,
				})
			}

			for _, m := range trineMatches {
				if !branchInTriple(ni.Branch, m.Harmony.Branches) || !branchInTriple(nj.Branch, m.Harmony.Branches) {
					continue
				}
				if m.Completeness >= 1.0 {
					contributions = append(contributions, core.EdgeContribution{
						Kind: core.InteractionTrineFull, Weight: cfg.Interactions.TrineFull / 10,
					})
					*details = append(*details, "ThreeHarmony: full match toward "+m.Harmony.Target.String())
				} else {
					contributions = append(contributions, core.EdgeContribution{
						Kind: core.InteractionTrinePartial, Weight: cfg.Interactions.TrinePartial / 10,
					})
				}
			}
		}

		if tb.IsClash(ni.Branch, nj.Branch) {
			contributions = append(contributions, core.EdgeContribution{
				Kind: core.InteractionClash, Weight: (cfg.Interactions.ClashScore / 10) * cfg.Flow.ClashDamping,
			})
			*details = append(*details, "Clash: "+ni.Branch.String()+"-"+nj.Branch.String())
		}

		if group, ok := tb.PunishmentGroup(ni.Branch); ok && branchInGroup(nj.Branch, group) {
			contributions = append(contributions, core.EdgeContribution{
				Kind: core.InteractionPunishment, Weight: -cfg.Interactions.PunishmentPenalty / 10,
			})
		}
		if tb.IsHarm(ni.Branch, nj.Branch) {
			contributions = append(contributions, core.EdgeContribution{
				Kind: core.InteractionHarm, Weight: -cfg.Interactions.HarmPenalty / 10,
			})
		}
	}

	return contributions
}

func branchInTriple(b Branch, triple [3]Branch) bool {
	return b == triple[0] || b == triple[1] || b == triple[2]
}

func branchInGroup(b Branch, group []Branch) bool {
	for _, g := range group {
		if g == b {
			return true
		}
	}
	return false
}

// controlOrMediated implements §4.4's control-relation weight and its
// mediation-conduit override: when a third node carries the element
// that both is generated by j and generates i (the canonical mediator)
// with enough energy, the negative control weight is replaced or
// partially relieved by a positive generation-style weight.
func controlOrMediated(ni, nj *Node, allNodes []*Node, cfg *core.Config, details *[]string) float64 {
	baseWeight := -0.3 * math.Abs(cfg.Flow.ControlImpact)

	mediator := (nj.Element + 1) % elementCount // generated by j, generates i
	var mediatorEnergy float64
	for _, m := range allNodes {
		if m == ni || m == nj {
			continue
		}
		if m.Element == mediator {
			mediatorEnergy += m.CurrentEnergy.Mean
		}
	}

	jEnergy := math.Abs(nj.CurrentEnergy.Mean)
	if jEnergy == 0 {
		return baseWeight
	}

	capacity := math.Min(jEnergy, mediatorEnergy)
	ratio := capacity / jEnergy
	if mediatorEnergy >= 0.8*jEnergy {
		*details = append(*details, "Mediation: "+mediator.String()+" redirects "+nj.Element.String()+"->"+ni.Element.String())
		return 0.6 * cfg.Flow.GenerationEfficiency
	}

	positiveWeight := 0.6 * cfg.Flow.GenerationEfficiency
	return baseWeight + ratio*(positiveWeight-baseWeight)
}

// lifeStagePremultiplier implements §4.4's life-stage pre-multiplication:
// if either endpoint is a stem with a well-defined life stage on the
// counterpart branch, the edge magnitude scales by that coefficient.
func lifeStagePremultiplier(ni, nj *Node, tb *Tables) float64 {
	if ni.Type == NodeStem && nj.Type == NodeBranch {
		return tb.LifeStageOf(ni.Stem, nj.Branch).Coefficient
	}
	if nj.Type == NodeStem && ni.Type == NodeBranch {
		return tb.LifeStageOf(nj.Stem, ni.Branch).Coefficient
	}
	return 1.0
}
