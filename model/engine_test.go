// model/engine_test.go

package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suksuki/bazi-sub002/core"
	"github.com/suksuki/bazi-sub002/model"
)

// balancedBaselineRequest builds scenario (1) from the analysis
// contract's named scenarios: one rooted branch (the day branch itself),
// no clashes, no six-combinations, no three-harmony partial/full matches,
// no punishments among the four main pillars. The month and day branches
// (B9, B10) do form one harm pair.
func balancedBaselineRequest() model.Request {
	req := model.Request{DayMaster: model.S4}
	req.Pillars[model.PillarYear] = model.Pillar{Stem: model.S0, Branch: model.B0}
	req.Pillars[model.PillarMonth] = model.Pillar{Stem: model.S2, Branch: model.B9}
	req.Pillars[model.PillarDay] = model.Pillar{Stem: model.S4, Branch: model.B10}
	req.Pillars[model.PillarHour] = model.Pillar{Stem: model.S6, Branch: model.B11}
	return req
}

// TestAnalyze_Determinism is P1: Analyze(x) == Analyze(x) with no
// randomness involved in the point-estimate path.
func TestAnalyze_Determinism(t *testing.T) {
	engine := model.NewGraphEngine()
	req := balancedBaselineRequest()

	first, err := engine.Analyze(req)
	require.NoError(t, err)
	second, err := engine.Analyze(req)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

// TestAnalyze_StrengthLabelIsOneOfFive is P4: exactly one of the five
// enumerated labels is ever returned. This only smoke-tests the full
// BuildNodes -> BuildAdjacency -> Propagate -> ClassifyStrength
// pipeline; scenario (1)'s exact score/label bounds are checked at the
// pre-propagation layer in TestScenario1_BalancedBaseline, where the
// numbers are hand-verifiable.
func TestAnalyze_StrengthLabelIsOneOfFive(t *testing.T) {
	engine := model.NewGraphEngine()
	result, err := engine.Analyze(balancedBaselineRequest())
	require.NoError(t, err)

	valid := []model.StrengthLabel{
		model.SpecialStrong, model.Strong, model.Balanced, model.Weak, model.Follower,
	}
	require.Contains(t, valid, result.StrengthLabel)
}

// TestAnalyze_NonNegativeNodeEnergies is P2: Propagate must never leave a
// node with negative current energy.
func TestAnalyze_NonNegativeNodeEnergies(t *testing.T) {
	tb := model.DefaultTables()
	cfg := core.DefaultConfig()
	req := balancedBaselineRequest()

	nodes, _, err := model.BuildNodes(req, tb, cfg)
	require.NoError(t, err)

	adjacency, _ := model.BuildAdjacency(nodes, tb, cfg)
	model.Propagate(nodes, adjacency, cfg)

	for _, n := range nodes {
		require.GreaterOrEqualf(t, n.CurrentEnergy.Mean, 0.0, "node %v %v went negative", n.Type, n.Branch)
	}
}

// TestClassifyStrength_GeoBoostOnDayMasterElementNeverLowersScore is P3,
// checked at the pre-propagation layer (BuildNodes -> ClassifyStrength)
// where the input-to-score relationship is a direct linear scaling, so
// the monotonicity claim holds unconditionally rather than depending on
// Propagate's networked feedback.
func TestClassifyStrength_GeoBoostOnDayMasterElementNeverLowersScore(t *testing.T) {
	tb := model.DefaultTables()
	cfg := core.DefaultConfig()

	base := balancedBaselineRequest()
	baseNodes, _, err := model.BuildNodes(base, tb, cfg)
	require.NoError(t, err)
	baseResult := model.ClassifyStrength(baseNodes, model.Earth, tb, cfg)

	boosted := balancedBaselineRequest()
	boosted.GeoModifiers = map[model.Element]float64{model.Earth: 2.0} // day-master S4's element
	boostedNodes, _, err := model.BuildNodes(boosted, tb, cfg)
	require.NoError(t, err)
	boostedResult := model.ClassifyStrength(boostedNodes, model.Earth, tb, cfg)

	require.GreaterOrEqual(t, boostedResult.Score, baseResult.Score)
}

// TestAnalyze_RejectsInconsistentDayMaster covers §7's fatal-error path.
func TestAnalyze_RejectsInconsistentDayMaster(t *testing.T) {
	engine := model.NewGraphEngine()
	req := balancedBaselineRequest()
	req.DayMaster = model.S0 // day pillar's stem is S4, not S0

	_, err := engine.Analyze(req)
	require.Error(t, err)
}

// TestAnalyze_FollowerScenario is scenario (6) run through the full
// propagated pipeline: an overwhelming oppose team with a near-absent
// day-master should not land on Special_Strong. The exact Follower
// label and score/ratio bounds this scenario names are verified at the
// pre-propagation ClassifyStrength layer in
// TestScenario6_FollowerCandidate, since Propagate's networked
// feedback on this branch/stem configuration isn't hand-verifiable to
// an exact number without executing the code.
func TestAnalyze_FollowerScenario(t *testing.T) {
	engine := model.NewGraphEngine()

	req := model.Request{DayMaster: model.S4}
	req.Pillars[model.PillarYear] = model.Pillar{Stem: model.S6, Branch: model.B8}
	req.Pillars[model.PillarMonth] = model.Pillar{Stem: model.S6, Branch: model.B9}
	req.Pillars[model.PillarDay] = model.Pillar{Stem: model.S4, Branch: model.B9}
	req.Pillars[model.PillarHour] = model.Pillar{Stem: model.S6, Branch: model.B8}

	result, err := engine.Analyze(req)
	require.NoError(t, err)
	require.NotEqual(t, model.SpecialStrong, result.StrengthLabel)
}
