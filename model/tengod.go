// model/tengod.go

package model

import "github.com/suksuki/bazi-sub002/core"

// TenGodEnergies is the per-relation and per-composite-group energy
// aggregate of §4.7.
type TenGodEnergies struct {
	ByGod   map[TenGod]core.ProbValue
	ByGroup map[TenGodGroup]core.ProbValue
}

// particleWeight returns the config multiplier for a ten-god relation
// (§4.7: "Apply particle-weight multipliers from config before
// aggregation").
func particleWeight(g TenGod, p core.ParticleConfig) float64 {
	switch g {
	case Peer:
		return p.BiJian
	case Rob:
		return p.JieCai
	case Output:
		return p.ShiShen
	case Hurt:
		return p.ShangGuan
	case Wealth:
		return p.ZhengCai
	case IndirectWealth:
		return p.PianCai
	case Officer:
		return p.ZhengGuan
	case SevenKillings:
		return p.QiSha
	case Resource:
		return p.ZhengYin
	case IndirectResource:
		return p.PianYin
	default:
		return 1.0
	}
}

// ProjectTenGods implements §4.7: for every node, determine its ten-god
// relation(s) to the day-master (splitting across ElementContributions
// when a stem-combination transform applies), scale by the configured
// particle weight, then aggregate into both the ten individual
// relations and the five composite groups driving domain scoring.
func ProjectTenGods(nodes []*Node, dayMasterNode *Node, cfg *core.Config) TenGodEnergies {
	dayMaster := dayMasterNode.Element
	dayMasterPolarity := dayMasterNode.Polarity

	byGod := make(map[TenGod]float64)
	byGodVar := make(map[TenGod]float64)

	for _, n := range nodes {
		if n == dayMasterNode {
			continue
		}
		polarity := n.Polarity
		if n.Type == NodeBranch {
			polarity = n.Branch.Polarity()
		}

		for _, c := range n.ElementContributions() {
			god := TenGodOf(dayMaster, dayMasterPolarity, c.Element, polarity)
			weight := particleWeight(god, cfg.Particles)

			energy := n.CurrentEnergy.Mean * c.Fraction * weight
			std := n.CurrentEnergy.Std * c.Fraction * weight

			byGod[god] += energy
			byGodVar[god] += std * std
		}
	}

	result := TenGodEnergies{
		ByGod:   make(map[TenGod]core.ProbValue, 10),
		ByGroup: make(map[TenGodGroup]core.ProbValue, 5),
	}

	gods := []TenGod{Peer, Rob, Output, Hurt, Wealth, IndirectWealth, Officer, SevenKillings, Resource, IndirectResource}
	for _, g := range gods {
		result.ByGod[g] = probValueFromMoments(byGod[g], byGodVar[g])
	}

	groups := []TenGodGroup{GroupSelf, GroupOutput, GroupWealth, GroupOfficer, GroupResource}
	for _, grp := range groups {
		var mean, variance float64
		for _, g := range gods {
			if g.Group() == grp {
				mean += byGod[g]
				variance += byGodVar[g]
			}
		}
		result.ByGroup[grp] = probValueFromMoments(mean, variance)
	}

	return result
}

func probValueFromMoments(mean, variance float64) core.ProbValue {
	if variance < 0 {
		variance = 0
	}
	return core.MustProbValue(mean, sqrtNonNeg(variance))
}
