// model/domains_test.go

package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suksuki/bazi-sub002/core"
	"github.com/suksuki/bazi-sub002/model"
)

func TestFavorabilityFactor_OrderedByLabel(t *testing.T) {
	// Via CalculateDomains, since favorabilityFactor itself is unexported:
	// a higher favorability must never produce a lower career score from
	// the same ten-god energies, for an officer-dominant profile.
	tb := model.DefaultTables()
	cfg := core.DefaultConfig()
	dayMaster := &model.Node{Type: model.NodeStem, Element: model.Wood}
	req := model.Request{}

	tenGods := model.TenGodEnergies{
		ByGroup: map[model.TenGodGroup]core.ProbValue{
			model.GroupOfficer: core.MustProbValue(40),
			model.GroupOutput:  core.MustProbValue(10),
			model.GroupWealth:  core.MustProbValue(0),
			model.GroupResource: core.MustProbValue(0),
		},
	}

	labels := []model.StrengthLabel{model.Weak, model.Follower, model.Balanced, model.Strong, model.SpecialStrong}
	var scores []float64
	for _, label := range labels {
		strength := model.StrengthResult{Label: label}
		result := model.CalculateDomains(nil, dayMaster, strength, req, tenGods, tb, cfg)
		scores = append(scores, result.Career.Mean)
	}

	// labels run in ascending favorability (Weak 0.5, Follower 0.7,
	// Balanced 1.0, Strong 1.0, SpecialStrong 1.1), so each career score
	// must be at least the one before it.
	for i := 1; i < len(scores); i++ {
		require.GreaterOrEqual(t, scores[i], scores[i-1], "label %s", labels[i])
	}
}

func TestCalculateDomains_SpousePalaceClashPenalizesRelationship(t *testing.T) {
	tb := model.DefaultTables()
	cfg := core.DefaultConfig()
	dayMaster := &model.Node{Type: model.NodeStem, Element: model.Wood}
	strength := model.StrengthResult{Label: model.Balanced}

	tenGods := model.TenGodEnergies{
		ByGroup: map[model.TenGodGroup]core.ProbValue{
			model.GroupOfficer:  core.MustProbValue(0),
			model.GroupOutput:   core.MustProbValue(0),
			model.GroupWealth:   core.MustProbValue(20),
			model.GroupResource: core.MustProbValue(20),
		},
	}

	undisturbed := model.Request{}
	undisturbed.Pillars[model.PillarDay].Branch = model.B2
	undisturbed.Pillars[model.PillarYear].Branch = model.B3 // no clash/harm with B2

	disturbed := model.Request{}
	disturbed.Pillars[model.PillarDay].Branch = model.B2
	disturbed.Pillars[model.PillarYear].Branch = model.B8 // B2 clashes B8

	resultUndisturbed := model.CalculateDomains(nil, dayMaster, strength, undisturbed, tenGods, tb, cfg)
	resultDisturbed := model.CalculateDomains(nil, dayMaster, strength, disturbed, tenGods, tb, cfg)

	require.Greater(t, resultUndisturbed.Relationship.Mean, resultDisturbed.Relationship.Mean)
	require.Greater(t, resultDisturbed.Relationship.Std, resultUndisturbed.Relationship.Std)
}

func TestCalculateDomains_ScoresAreClamped(t *testing.T) {
	tb := model.DefaultTables()
	cfg := core.DefaultConfig()
	dayMaster := &model.Node{Type: model.NodeStem, Element: model.Wood}
	strength := model.StrengthResult{Label: model.SpecialStrong}
	req := model.Request{}

	tenGods := model.TenGodEnergies{
		ByGroup: map[model.TenGodGroup]core.ProbValue{
			model.GroupOfficer:  core.MustProbValue(1000),
			model.GroupOutput:   core.MustProbValue(1000),
			model.GroupWealth:   core.MustProbValue(1000),
			model.GroupResource: core.MustProbValue(1000),
		},
	}

	result := model.CalculateDomains(nil, dayMaster, strength, req, tenGods, tb, cfg)
	require.LessOrEqual(t, result.Career.Mean, 100.0)
	require.LessOrEqual(t, result.Relationship.Mean, 100.0)
}
