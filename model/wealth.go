// model/wealth.go

package model

import (
	"fmt"
	"math"

	"github.com/suksuki/bazi-sub002/core"
)

// WealthResult is §4.8's output: the wealth domain score plus an
// ordered trail of which rules fired.
type WealthResult struct {
	Score   core.ProbValue
	Details []string
}

// wealthContext bundles everything CalculateWealthIndex's sub-rules
// need, to keep each rule function's signature small.
type wealthContext struct {
	nodes         []*Node
	dayMaster     Element
	strength      StrengthResult
	tables        *Tables
	cfg           *core.Config
	luckStem      Element
	luckBranch    Element
	haveLuck      bool
	annualStem    Element
	annualBranch  Element
	haveAnnual    bool
	annualPillar  *Pillar
	luckPillar    *Pillar
	monthBranch   Branch
	vaultCollapse bool // true once any vault branch classifies Tomb (§4.8 step 6's "vault already collapsed")
}

// CalculateWealthIndex implements §4.8 end to end.
func CalculateWealthIndex(nodes []*Node, dayMasterNode *Node, strength StrengthResult, req Request, tb *Tables, cfg *core.Config) WealthResult {
	ctx := &wealthContext{
		nodes:       nodes,
		dayMaster:   dayMasterNode.Element,
		strength:    strength,
		tables:      tb,
		cfg:         cfg,
		monthBranch: req.Pillars[PillarMonth].Branch,
	}
	if req.Luck != nil {
		ctx.haveLuck = true
		ctx.luckPillar = req.Luck
		ctx.luckStem = req.Luck.Stem.Element()
		ctx.luckBranch = tb.BranchElement(req.Luck.Branch)
	}
	if req.Annual != nil {
		ctx.haveAnnual = true
		ctx.annualPillar = req.Annual
		ctx.annualStem = req.Annual.Stem.Element()
		ctx.annualBranch = tb.BranchElement(req.Annual.Branch)
	}

	var details []string
	sn := strength.StrengthNormalized()
	weak := sn < 0.5

	// Step 2: base line.
	var wealthEnergy float64
	if sn < 0.45 {
		wealthEnergy = -10 - (1-sn)*10
	} else {
		wealthEnergy = sn * 15
	}

	// Step 8: leg-cutting, folded into wealth_energy itself (§4.8 note:
	// "apply to wealth_energy before combining with other factors").
	if legCut := legCuttingPenalty(ctx); legCut != 0 {
		wealthEnergy += legCut
		details = append(details, fmt.Sprintf("leg-cutting: %.1f", legCut))
	}

	var modifiers float64

	// Step 3: favourable resource help.
	help, hadResourceHelp := resourceHelp(ctx, weak)
	if hadResourceHelp {
		modifiers += help
		details = append(details, fmt.Sprintf("resource help: +%.1f", help))
	}

	// Step 4: officer + resource transformation.
	if transform, hit := officerResourceTransform(ctx, weak); hit {
		modifiers += transform
		details = append(details, fmt.Sprintf("officer+resource transformation: +%.1f", transform))
	}

	// Step 5: vault/tomb logic.
	vaultContribution, vaultDetails := vaultContributions(ctx)
	modifiers += vaultContribution
	details = append(details, vaultDetails...)

	// Step 6: month-commander clash.
	if monthClash, hit := monthCommanderClash(ctx); hit {
		modifiers += monthClash
		details = append(details, fmt.Sprintf("month-commander clash: %.1f", monthClash))
	}

	// Step 7: seven-killings attack.
	if sevenKill, hit := sevenKillingsAttack(ctx); hit {
		modifiers += sevenKill
		details = append(details, fmt.Sprintf("seven-killings attack: %.1f", sevenKill))
	}

	// Step 9: weak-with-heavy-wealth inversion.
	totalMagnitude := math.Abs(wealthEnergy) + math.Abs(modifiers)
	wealthFraction := 0.0
	if totalMagnitude > 0 {
		wealthFraction = math.Abs(wealthEnergy) / totalMagnitude
	}
	if sn < 0.30 && wealthFraction > 0.55 && !hadResourceHelp {
		wealthEnergy = -wealthEnergy
		details = append(details, "weak-with-heavy-wealth inversion applied")
	}

	final := clampF(wealthEnergy+modifiers, -100, 100)

	std := baseUncertainty(ctx)
	return WealthResult{Score: core.MustProbValue(final, std), Details: details}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// resourceHelp implements §4.8 step 3.
func resourceHelp(ctx *wealthContext, weak bool) (float64, bool) {
	resource := ResourceElement(ctx.dayMaster)
	hits := 0
	if ctx.haveAnnual {
		if ctx.annualStem == resource {
			hits++
		}
		if ctx.annualBranch == resource {
			hits++
		}
	}
	if ctx.haveLuck {
		if ctx.luckStem == resource {
			hits++
		}
		if ctx.luckBranch == resource {
			hits++
		}
	}
	if hits == 0 {
		return 0, false
	}

	perHit := 15.0
	if weak {
		perHit = 25.0
	}
	total := perHit*float64(hits) + 30 // seal privilege bonus
	return total, true
}

// officerResourceTransform implements §4.8 step 4.
func officerResourceTransform(ctx *wealthContext, weak bool) (float64, bool) {
	officer := OfficerElement(ctx.dayMaster)
	resource := ResourceElement(ctx.dayMaster)

	annualIsOfficer := ctx.haveAnnual && (ctx.annualStem == officer || ctx.annualBranch == officer)
	luckIsResource := ctx.haveLuck && (ctx.luckStem == resource || ctx.luckBranch == resource)

	if !annualIsOfficer || !luckIsResource {
		return 0, false
	}
	if weak {
		return 80, true
	}
	return 60, true
}

// vaultContributions implements §4.8 step 5 over all four vault branches.
func vaultContributions(ctx *wealthContext) (float64, []string) {
	gate := core.SigmoidThreshold(ctx.strength.StrengthNormalized(), ctx.cfg.Nonlinear.Threshold, ctx.cfg.Nonlinear.Steepness)
	var total float64
	var details []string

	for _, vb := range VaultBranches {
		node := findBranchNode(ctx.nodes, vb)
		if node == nil {
			continue
		}
		isVault := node.CurrentEnergy.Mean >= ctx.cfg.Vault.Threshold

		hit, viaPunishment := vaultTrigger(ctx, vb)
		if !isVault {
			ctx.vaultCollapse = true
		}

		baseBonus := 100 * ctx.cfg.Vault.OpenBonus * ctx.cfg.Vault.KOpen
		basePenalty := 100 * ctx.cfg.Vault.BreakPenalty * ctx.cfg.Vault.KCollapse

		if hit {
			if isVault {
				bonus := baseBonus * gate
				total += bonus
				details = append(details, fmt.Sprintf("vault open: %s (+%.1f)", vb, bonus))
			} else {
				penalty := -basePenalty * (1 - gate)
				total += penalty
				details = append(details, fmt.Sprintf("tomb collapse: %s (%.1f)", vb, penalty))
				if !viaPunishment {
					// Clash penalty is not cancelled for a tomb, unlike an open vault.
					clashPenalty := -math.Abs(ctx.cfg.Interactions.ClashScore)
					total += clashPenalty
				}
			}
		} else {
			baseline := baseBonus * 0.5
			if !isVault {
				baseline = -basePenalty * 0.5
			}
			total += baseline * ctx.cfg.Vault.SealedDamping
		}
	}

	return total, details
}

func vaultTrigger(ctx *wealthContext, vb Branch) (hit bool, viaPunishment bool) {
	for _, n := range ctx.nodes {
		if n.Type != NodeBranch || n.Branch == vb {
			continue
		}
		if ctx.tables.IsClash(vb, n.Branch) {
			return true, false
		}
	}
	if ctx.cfg.Vault.PunishmentOpens {
		if group, ok := ctx.tables.PunishmentGroup(vb); ok {
			for _, member := range group {
				if member == vb {
					continue
				}
				if findBranchNode(ctx.nodes, member) != nil {
					return true, true
				}
			}
		}
	}
	return false, false
}

func findBranchNode(nodes []*Node, b Branch) *Node {
	for _, n := range nodes {
		if n.Type == NodeBranch && n.Branch == b {
			return n
		}
	}
	return nil
}

// monthCommanderClash implements §4.8 step 6.
func monthCommanderClash(ctx *wealthContext) (float64, bool) {
	if !ctx.haveAnnual {
		return 0, false
	}
	if !ctx.tables.IsClash(ctx.annualPillar.Branch, ctx.monthBranch) {
		return 0, false
	}

	hasHelp := hasPeerOrResourceHelp(ctx)
	hasMediation := hasHarmonyMediation(ctx)

	if hasHelp || hasMediation {
		wealthEnergy := math.Abs(ctx.strength.SelfTeamEnergy - ctx.strength.OpposeTeamEnergy)
		penalty, _ := core.CalculatePenaltyNonlinear(
			ctx.strength.StrengthNormalized(), core.PenaltyClashCommander, wealthEnergy/100,
			hasHelp, hasMediation, 30, ctx.cfg.Nonlinear,
		)
		return clampF(penalty, -30, -15), true
	}

	if ctx.vaultCollapse {
		return -150, true
	}
	return -120, true
}

func hasPeerOrResourceHelp(ctx *wealthContext) bool {
	resource := ResourceElement(ctx.dayMaster)
	if ctx.haveAnnual && (ctx.annualStem == ctx.dayMaster || ctx.annualStem == resource || ctx.annualBranch == resource) {
		return true
	}
	if ctx.haveLuck && (ctx.luckStem == ctx.dayMaster || ctx.luckStem == resource || ctx.luckBranch == resource) {
		return true
	}
	return false
}

func hasHarmonyMediation(ctx *wealthContext) bool {
	for _, n := range ctx.nodes {
		if n.Type != NodeBranch || n.Branch == ctx.monthBranch {
			continue
		}
		if _, ok := ctx.tables.SixCombinationTarget(ctx.monthBranch, n.Branch); ok {
			return true
		}
	}
	active := make(map[Branch]bool)
	for _, n := range ctx.nodes {
		if n.Type == NodeBranch {
			active[n.Branch] = true
		}
	}
	for _, m := range ctx.tables.MatchThreeHarmonies(active) {
		if branchInTriple(ctx.monthBranch, m.Harmony.Branches) && m.Completeness >= 1.0 {
			return true
		}
	}
	return false
}

// sevenKillingsAttack implements §4.8 step 7.
func sevenKillingsAttack(ctx *wealthContext) (float64, bool) {
	officer := OfficerElement(ctx.dayMaster)
	attacked := (ctx.haveAnnual && (ctx.annualStem == officer || ctx.annualBranch == officer)) ||
		(ctx.haveLuck && (ctx.luckStem == officer || ctx.luckBranch == officer))
	if !attacked {
		return 0, false
	}

	hasMediation := hasPeerOrResourceHelp(ctx)
	if hasMediation {
		return 0, false
	}

	penalty, _ := core.CalculatePenaltyNonlinear(
		ctx.strength.StrengthNormalized(), core.PenaltySevenKill, 0.5, false, false, 50, ctx.cfg.Nonlinear,
	)
	return penalty, true
}

// legCuttingPenalty implements §4.8 step 8: the annual pillar's own
// stem controlling its own branch.
func legCuttingPenalty(ctx *wealthContext) float64 {
	if !ctx.haveAnnual {
		return 0
	}
	if !ctx.annualStem.Controls(ctx.annualBranch) {
		return 0
	}
	sn := ctx.strength.StrengthNormalized()
	switch {
	case sn < 0.20:
		return -80
	case sn < 0.45:
		return -60
	default:
		return -20
	}
}

func baseUncertainty(ctx *wealthContext) float64 {
	instabilityComponent := float64(ctx.strength.ClashCount) * 2.0
	boundary := 0.0
	for _, vb := range VaultBranches {
		node := findBranchNode(ctx.nodes, vb)
		if node == nil {
			continue
		}
		d := math.Abs(node.CurrentEnergy.Mean - ctx.cfg.Vault.Threshold)
		if d < 0.5 {
			boundary += (0.5 - d) * 10
		}
	}
	return instabilityComponent + boundary
}
