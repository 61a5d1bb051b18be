// model/nodes.go

package model

import (
	"github.com/suksuki/bazi-sub002/core"
)

// NodeType distinguishes a stem node from a branch node (§3).
type NodeType int

const (
	NodeStem NodeType = iota
	NodeBranch
)

// Node is one stem or branch slot in the graph (§3). Up to 12 exist per
// analysis: 8 for the four original pillars, plus one stem and one
// branch each for the optional luck and annual pillars.
type Node struct {
	Pillar PillarPosition
	Type   NodeType
	Stem   Stem
	Branch Branch

	Element  Element
	Polarity Polarity // meaningful only when Type == NodeStem

	InitialEnergy core.ProbValue
	CurrentEnergy core.ProbValue

	// TransformTarget/TransformWeight record a stem five-combination
	// detected in Phase 1 and consumed by Phase 2/later aggregation
	// (§4.3 step 6): the stem's element is retargeted toward
	// TransformTarget with weight TransformWeight, the remainder
	// (1-TransformWeight) staying on Element.
	TransformTarget *Element
	TransformWeight float64
}

// ElementContribution is one fractional element/energy attribution of
// a node, used by aggregation stages (strength classification, ten-god
// projection) so a transformed stem counts partly toward its original
// element and partly toward its transform target.
type ElementContribution struct {
	Element  Element
	Fraction float64
}

// ElementContributions returns how n's energy splits across elements:
// a single 100% entry normally, or two entries when a stem combination
// transform applies.
func (n *Node) ElementContributions() []ElementContribution {
	if n.TransformTarget == nil || n.TransformWeight <= 0 {
		return []ElementContribution{{Element: n.Element, Fraction: 1}}
	}
	return []ElementContribution{
		{Element: n.Element, Fraction: 1 - n.TransformWeight},
		{Element: *n.TransformTarget, Fraction: n.TransformWeight},
	}
}

// IsOriginal reports whether n belongs to one of the four fixed
// birth pillars, as opposed to a supplementary luck/annual node.
func (n *Node) IsOriginal() bool {
	return n.Pillar != PillarSupplementary
}

// stemSlot/branchSlot describe one (position, symbol) pair to build a
// node from, before energies are computed.
type stemSlot struct {
	pillar PillarPosition
	stem   Stem
}
type branchSlot struct {
	pillar PillarPosition
	branch Branch
}

// collectSlots enumerates every stem/branch slot present in req: the
// four fixed pillars, plus luck/annual when supplied.
func collectSlots(req Request) ([]stemSlot, []branchSlot) {
	stems := []stemSlot{
		{PillarYear, req.Pillars[PillarYear].Stem},
		{PillarMonth, req.Pillars[PillarMonth].Stem},
		{PillarDay, req.Pillars[PillarDay].Stem},
		{PillarHour, req.Pillars[PillarHour].Stem},
	}
	branches := []branchSlot{
		{PillarYear, req.Pillars[PillarYear].Branch},
		{PillarMonth, req.Pillars[PillarMonth].Branch},
		{PillarDay, req.Pillars[PillarDay].Branch},
		{PillarHour, req.Pillars[PillarHour].Branch},
	}
	if req.Luck != nil {
		stems = append(stems, stemSlot{PillarSupplementary, req.Luck.Stem})
		branches = append(branches, branchSlot{PillarSupplementary, req.Luck.Branch})
	}
	if req.Annual != nil {
		stems = append(stems, stemSlot{PillarSupplementary, req.Annual.Stem})
		branches = append(branches, branchSlot{PillarSupplementary, req.Annual.Branch})
	}
	return stems, branches
}

// pillarWeight reads the configured weight for an original pillar, or
// 1.0 for a supplementary (luck/annual) node: §4.3 lists weights only
// for the four fixed positions, supplementary nodes are unweighted.
func pillarWeight(p PillarPosition, cfg *core.Config) float64 {
	switch p {
	case PillarYear:
		return cfg.Physics.PillarWeights[core.PillarYear]
	case PillarMonth:
		return cfg.Physics.PillarWeights[core.PillarMonth]
	case PillarDay:
		return cfg.Physics.PillarWeights[core.PillarDay]
	case PillarHour:
		return cfg.Physics.PillarWeights[core.PillarHour]
	default:
		return 1.0
	}
}

// BuildNodes runs Phase 1 (§4.3): computes every node's base energy,
// applies seasonality, rooting, geography, and era adjustments, detects
// stem five-combinations for Phase 2 to apply, and wraps each result as
// a ProbValue whose std reflects detected structural instability.
func BuildNodes(req Request, tb *Tables, cfg *core.Config) ([]*Node, *core.Harmonizer, error) {
	stemSlots, branchSlots := collectSlots(req)

	nodes := make([]*Node, 0, len(stemSlots)+len(branchSlots))
	branchNodes := make([]*Node, 0, len(branchSlots))

	monthBranch := req.Pillars[PillarMonth].Branch

	harmonizer := core.NewHarmonizer()
	instability := structuralInstability(branchSlots, tb)
	harmonizer.UpdateComponent("clashes", instability.clashFraction)
	harmonizer.UpdateComponent("self_punishments", instability.selfPunishmentFraction)
	uncertainty := harmonizer.UncertaintyFraction()

	for _, bs := range branchSlots {
		el := tb.BranchElement(bs.branch)
		energy := cfg.Structure.BaseUnit * pillarWeight(bs.pillar, cfg)

		if bs.branch == monthBranch && bs.pillar == PillarMonth {
			energy *= cfg.Physics.MonthWeight
		}

		if req.GeoModifiers != nil {
			if g, ok := req.GeoModifiers[el]; ok {
				energy *= g
			}
		}
		if req.Era != nil {
			energy = applyEra(energy, el, *req.Era)
		}

		node := &Node{
			Pillar:  bs.pillar,
			Type:    NodeBranch,
			Branch:  bs.branch,
			Element: el,
		}
		node.InitialEnergy = core.MustProbValue(energy, energy*uncertainty)
		node.CurrentEnergy = node.InitialEnergy
		nodes = append(nodes, node)
		branchNodes = append(branchNodes, node)
	}

	for _, ss := range stemSlots {
		el := ss.stem.Element()
		energy := cfg.Structure.BaseUnit * pillarWeight(ss.pillar, cfg)

		rootMultiplier, lifeStageCoef := rootingMultiplier(ss, branchSlots, tb, cfg)
		energy *= rootMultiplier * lifeStageCoef

		if req.GeoModifiers != nil {
			if g, ok := req.GeoModifiers[el]; ok {
				energy *= g
			}
		}
		if req.Era != nil {
			energy = applyEra(energy, el, *req.Era)
		}

		node := &Node{
			Pillar:   ss.pillar,
			Type:     NodeStem,
			Stem:     ss.stem,
			Element:  el,
			Polarity: ss.stem.Polarity(),
		}
		node.InitialEnergy = core.MustProbValue(energy, energy*uncertainty)
		node.CurrentEnergy = node.InitialEnergy
		nodes = append(nodes, node)
	}

	applyStemCombinations(nodes, stemSlots, tb, cfg)

	return nodes, harmonizer, nil
}

// rootingMultiplier implements §4.3 step 3: a stem whose element
// matches a hidden-stem element of any branch on any pillar gets a
// rooting multiplier, boosted further when that branch is its own
// pillar's branch, and scaled by the life-stage coefficient against its
// own pillar's branch.
func rootingMultiplier(ss stemSlot, branchSlots []branchSlot, tb *Tables, cfg *core.Config) (root, lifeStage float64) {
	root = 1.0
	lifeStage = 1.0
	rooted := false

	var ownBranch Branch
	haveOwnBranch := false

	for _, bs := range branchSlots {
		if bs.pillar == ss.pillar {
			ownBranch = bs.branch
			haveOwnBranch = true
		}
		for _, hs := range tb.HiddenStems(bs.branch) {
			if hs.Stem.Element() != ss.stem.Element() {
				continue
			}
			rooted = true
			if bs.pillar == ss.pillar {
				root *= cfg.Structure.SamePillarBonus
			} else {
				root *= 1 + (cfg.Structure.RootingWeight-1)*0.5
			}
		}
	}

	if rooted && haveOwnBranch {
		stage := tb.LifeStageOf(ss.stem, ownBranch)
		lifeStage = stage.Coefficient
	}

	return root, lifeStage
}

// applyEra implements §4.3 step 5.
func applyEra(energy float64, el Element, era EraModifier) float64 {
	switch {
	case era.Element == el:
		return energy * (1 + era.Bonus)
	case era.Element.Controls(el):
		return energy * (1 - era.Penalty)
	default:
		return energy
	}
}

// applyStemCombinations implements §4.3 step 6: detect stem
// five-combinations among the stem nodes present and record a
// transform on each participating node.
func applyStemCombinations(nodes []*Node, stemSlots []stemSlot, tb *Tables, cfg *core.Config) {
	const transformWeight = 0.3 // "reduced weight", per §9's design note on retargeting

	byStem := make(map[Stem][]*Node)
	for _, n := range nodes {
		if n.Type == NodeStem {
			byStem[n.Stem] = append(byStem[n.Stem], n)
		}
	}

	for i := 0; i < len(stemSlots); i++ {
		for j := i + 1; j < len(stemSlots); j++ {
			supplementary := stemSlots[i].pillar == PillarSupplementary || stemSlots[j].pillar == PillarSupplementary
			if supplementary && !cfg.Flow.DynamicNodesFormCombinations {
				// A luck/annual stem only triggers detection elsewhere
				// (§9 open question); it does not itself transform.
				continue
			}
			target, ok := tb.StemCombinationTarget(stemSlots[i].stem, stemSlots[j].stem)
			if !ok {
				continue
			}
			t := target
			for _, n := range byStem[stemSlots[i].stem] {
				n.TransformTarget = &t
				n.TransformWeight = transformWeight
			}
			for _, n := range byStem[stemSlots[j].stem] {
				n.TransformTarget = &t
				n.TransformWeight = transformWeight
			}
		}
	}
}

type instabilitySignals struct {
	clashFraction          float64
	selfPunishmentFraction float64
}

// structuralInstability counts unresolved clashes and self-punishments
// among the branches present, normalized into [0,1] fractions for the
// harmonizer (§4.3: "uncertainty_fraction scales with detected
// structural instability (clashes, self-punishments)").
func structuralInstability(branchSlots []branchSlot, tb *Tables) instabilitySignals {
	seen := make(map[Branch]int)
	for _, bs := range branchSlots {
		seen[bs.branch]++
	}

	clashes := 0
	for _, bs := range branchSlots {
		if opp, ok := tb.ClashPartner(bs.branch); ok && seen[opp] > 0 {
			clashes++
		}
	}

	selfPunishments := 0
	for b, count := range seen {
		if count >= 2 && tb.IsSelfPunishment(b) {
			selfPunishments++
		}
	}

	n := float64(len(branchSlots))
	if n == 0 {
		return instabilitySignals{}
	}
	return instabilitySignals{
		clashFraction:          minF(float64(clashes)/n, 1.0),
		selfPunishmentFraction: minF(float64(selfPunishments)/n, 1.0),
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
