// model/strength.go

package model

import "github.com/suksuki/bazi-sub002/core"

// StrengthResult is the full output of §4.6's classification: the
// authoritative label plus the intermediate figures later stages
// (wealth and domain scoring) need, since no downstream
// component may re-derive the label from the score (§9).
type StrengthResult struct {
	Label            StrengthLabel
	Score            float64 // strength_score, 0-100
	SelfTeamRatio    float64
	SelfTeamEnergy   float64
	OpposeTeamEnergy float64
	TotalEnergy      float64
	Instability      bool
	ClashCount       int
}

// ClassifyStrength implements §4.6 in full, including its short-circuit
// label decision order.
func ClassifyStrength(nodes []*Node, dayMaster Element, tb *Tables, cfg *core.Config) StrengthResult {
	var self, oppose, total float64

	for _, n := range nodes {
		for _, c := range n.ElementContributions() {
			e := n.CurrentEnergy.Mean * c.Fraction
			total += e
			switch {
			case IsSelfTeam(dayMaster, c.Element):
				self += e
			case IsOpposeTeam(dayMaster, c.Element):
				oppose += e
			}
		}
	}

	score := 0.0
	if self+oppose > 0 {
		score = 100 * self / (self + oppose)
	}

	ratio := 0.0
	if total > 0 {
		ratio = self / total
	}

	clashCount := countUnresolvedClashes(nodes, tb)
	instability := clashCount >= 3

	label := decideLabel(score, ratio, oppose, self, instability, cfg)

	return StrengthResult{
		Label:            label,
		Score:            score,
		SelfTeamRatio:    ratio,
		SelfTeamEnergy:   self,
		OpposeTeamEnergy: oppose,
		TotalEnergy:      total,
		Instability:      instability,
		ClashCount:       clashCount,
	}
}

func decideLabel(score, ratio, oppose, self float64, instability bool, cfg *core.Config) StrengthLabel {
	s := cfg.Strength

	switch {
	case score >= s.SpecialStrongScore || ratio > s.SpecialStrongRatio || (score >= 75 && ratio > 0.60):
		return SpecialStrong
	case score <= 20 && oppose > 4*self:
		return Follower
	case score <= s.WeakThreshold || normalizedScore(score) < 0.50:
		return Weak
	case score >= s.StrongThreshold && !instability:
		return Strong
	case score > s.NetForceOverride:
		return Strong
	default:
		return Balanced
	}
}

// normalizedScore maps the 0-100 strength_score onto [0,1], the scale
// §4.6's "normalized_score < 0.50" check compares against.
func normalizedScore(score float64) float64 {
	return score / 100
}

// countUnresolvedClashes counts branch pairs present in the node set
// that clash with each other (§4.6 step 4).
func countUnresolvedClashes(nodes []*Node, tb *Tables) int {
	present := make(map[Branch]bool)
	for _, n := range nodes {
		if n.Type == NodeBranch {
			present[n.Branch] = true
		}
	}
	count := 0
	counted := make(map[Branch]bool)
	for b := range present {
		if counted[b] {
			continue
		}
		if opp, ok := tb.ClashPartner(b); ok && present[opp] {
			count++
			counted[b] = true
			counted[opp] = true
		}
	}
	return count
}

// StrengthNormalized maps the 0-100 strength_score onto [0,1] for the
// nonlinear-activation call sites in §4.2/§4.8 that expect a
// strength_normalized input.
func (r StrengthResult) StrengthNormalized() float64 {
	return normalizedScore(r.Score)
}
