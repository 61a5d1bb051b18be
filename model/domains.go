// model/domains.go

package model

import (
	"math"

	"github.com/suksuki/bazi-sub002/core"
)

// DomainResult holds the career and relationship scores, two of the
// three domains in the Result contract; wealth comes from
// CalculateWealthIndex.
type DomainResult struct {
	Career       core.ProbValue
	Relationship core.ProbValue
}

// CalculateDomains derives the career and relationship scores from the
// same ten-god-group aggregates §4.8 draws wealth from, without the
// vault/month-commander machinery wealth scoring needs: both domains
// are a weighted blend of two composite groups, favorability-scaled by
// the strength label, with one structural penalty each (career: Officer
// group energy above twice the Output group under a less-than-favorable
// label; relationship: a disturbed spouse palace).
func CalculateDomains(nodes []*Node, dayMasterNode *Node, strength StrengthResult, req Request, tenGods TenGodEnergies, tb *Tables, cfg *core.Config) DomainResult {
	favor := favorabilityFactor(strength.Label)

	career := careerScore(tenGods, favor, strength)
	relationship := relationshipScore(tenGods, favor, req, tb)

	return DomainResult{Career: career, Relationship: relationship}
}

// favorabilityFactor scales how much a domain benefits from
// officer/wealth-style pressure: a day-master that can carry authority
// (Strong/Special_Strong/Balanced) benefits from it, a Weak/Follower
// day-master is burdened by it instead.
func favorabilityFactor(label StrengthLabel) float64 {
	switch label {
	case SpecialStrong:
		return 1.1
	case Strong, Balanced:
		return 1.0
	case Follower:
		return 0.7 // a true follower draws strength from the dominant side, not burden
	default: // Weak
		return 0.5
	}
}

// careerScore weights the Officer group (authority/rank) above the
// Output group (skill/achievement), penalized when Officer/SevenKillings
// energy swamps Output with no favorable day-master to carry it.
func careerScore(tenGods TenGodEnergies, favor float64, strength StrengthResult) core.ProbValue {
	officer := tenGods.ByGroup[GroupOfficer]
	output := tenGods.ByGroup[GroupOutput]

	base := 0.6*officer.Mean + 0.4*output.Mean
	score := base * favor

	if officer.Mean > 2*output.Mean && favor < 1.0 {
		score -= (officer.Mean - 2*output.Mean) * (1 - favor)
	}

	score = clampF(score, -100, 100)
	std := math.Hypot(officer.Std, output.Std) * (1 + float64(strength.ClashCount)*0.1)
	return core.MustProbValue(score, std)
}

// relationshipScore weights the Wealth group (partnership/provision)
// above the Resource group (support drawn from the relationship),
// penalized when the day branch (spouse palace, §3) itself clashes or
// is harmed by another branch present.
func relationshipScore(tenGods TenGodEnergies, favor float64, req Request, tb *Tables) core.ProbValue {
	wealth := tenGods.ByGroup[GroupWealth]
	resource := tenGods.ByGroup[GroupResource]

	base := 0.5*wealth.Mean + 0.3*resource.Mean
	score := base * favor

	dayBranch := req.Pillars[PillarDay].Branch
	disturbed := spousePalaceDisturbed(req, tb, dayBranch)
	if disturbed {
		score -= 25
	}

	score = clampF(score, -100, 100)
	std := math.Hypot(wealth.Std, resource.Std)
	if disturbed {
		std += 5
	}
	return core.MustProbValue(score, std)
}

func spousePalaceDisturbed(req Request, tb *Tables, dayBranch Branch) bool {
	others := []Branch{
		req.Pillars[PillarYear].Branch,
		req.Pillars[PillarMonth].Branch,
		req.Pillars[PillarHour].Branch,
	}
	if req.Luck != nil {
		others = append(others, req.Luck.Branch)
	}
	if req.Annual != nil {
		others = append(others, req.Annual.Branch)
	}
	for _, b := range others {
		if tb.IsClash(dayBranch, b) || tb.IsHarm(dayBranch, b) {
			return true
		}
	}
	return false
}
