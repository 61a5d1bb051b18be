// model/wealth_test.go

package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suksuki/bazi-sub002/core"
	"github.com/suksuki/bazi-sub002/model"
)

func branchNode(b model.Branch, el model.Element, energy float64) *model.Node {
	n := &model.Node{Type: model.NodeBranch, Branch: b, Element: el}
	n.CurrentEnergy = core.MustProbValue(energy)
	return n
}

// TestCalculateWealthIndex_VaultSymmetry is P5: swapping the two branches
// of an earth-clash pair must not change the net wealth contribution when
// both branches independently classify the same way (here, both Vault).
// B1 and B7 are both vault branches and clash each other directly.
func TestCalculateWealthIndex_VaultSymmetry(t *testing.T) {
	tb := model.DefaultTables()
	cfg := core.DefaultConfig()
	dayMaster := &model.Node{Type: model.NodeStem, Element: model.Water}
	strength := model.StrengthResult{Score: 70}
	req := model.Request{}
	req.Pillars[model.PillarMonth].Branch = model.B2

	nodesA := []*model.Node{
		dayMaster,
		branchNode(model.B1, model.Earth, 3.0),
		branchNode(model.B7, model.Earth, 2.5),
	}
	nodesB := []*model.Node{
		dayMaster,
		branchNode(model.B1, model.Earth, 2.5),
		branchNode(model.B7, model.Earth, 3.0),
	}

	resultA := model.CalculateWealthIndex(nodesA, dayMaster, strength, req, tb, cfg)
	resultB := model.CalculateWealthIndex(nodesB, dayMaster, strength, req, tb, cfg)

	require.Equal(t, resultA.Score.Mean, resultB.Score.Mean)
}

// TestCalculateWealthIndex_MonthCommanderClashHelpNeverWorse is P6: a
// month-commander clash with peer/resource help present must never score
// worse than the same clash unhelped.
func TestCalculateWealthIndex_MonthCommanderClashHelpNeverWorse(t *testing.T) {
	tb := model.DefaultTables()
	cfg := core.DefaultConfig()

	dayMaster := &model.Node{Type: model.NodeStem, Element: model.Wood}
	strength := model.StrengthResult{Score: 40, SelfTeamEnergy: 20, OpposeTeamEnergy: 25}

	req := model.Request{}
	req.Pillars[model.PillarMonth].Branch = model.B0 // clashes B6
	req.Annual = &model.Pillar{Stem: model.S2, Branch: model.B6}

	nodes := []*model.Node{dayMaster}

	unhelped := model.CalculateWealthIndex(nodes, dayMaster, strength, req, tb, cfg)

	helpedReq := req
	helpedReq.Luck = &model.Pillar{Stem: model.S0, Branch: model.B3} // S0 -> Wood, same as day-master
	helped := model.CalculateWealthIndex(nodes, dayMaster, strength, helpedReq, tb, cfg)

	require.GreaterOrEqual(t, helped.Score.Mean, unhelped.Score.Mean)
}

func TestCalculateWealthIndex_ResultIsAlwaysClamped(t *testing.T) {
	tb := model.DefaultTables()
	cfg := core.DefaultConfig()

	dayMaster := &model.Node{Type: model.NodeStem, Element: model.Fire}
	strength := model.StrengthResult{Score: 95}
	req := model.Request{}
	req.Pillars[model.PillarMonth].Branch = model.B5

	nodes := []*model.Node{dayMaster}
	result := model.CalculateWealthIndex(nodes, dayMaster, strength, req, tb, cfg)

	require.GreaterOrEqual(t, result.Score.Mean, -100.0)
	require.LessOrEqual(t, result.Score.Mean, 100.0)
}

func TestCalculateWealthIndex_DeterministicForSameInput(t *testing.T) {
	tb := model.DefaultTables()
	cfg := core.DefaultConfig()

	dayMaster := &model.Node{Type: model.NodeStem, Element: model.Metal}
	strength := model.StrengthResult{Score: 55}
	req := model.Request{}
	req.Pillars[model.PillarMonth].Branch = model.B9

	nodes := []*model.Node{dayMaster, branchNode(model.B4, model.Earth, 2.5)}

	first := model.CalculateWealthIndex(nodes, dayMaster, strength, req, tb, cfg)
	second := model.CalculateWealthIndex(nodes, dayMaster, strength, req, tb, cfg)

	require.Equal(t, first, second)
}
