// model/tengod_test.go

package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suksuki/bazi-sub002/core"
	"github.com/suksuki/bazi-sub002/model"
)

func TestProjectTenGods_ClassifiesAndWeightsEachRelation(t *testing.T) {
	cfg := core.DefaultConfig()

	dayMaster := &model.Node{Type: model.NodeStem, Element: model.Wood, Polarity: model.Yang}
	dayMaster.CurrentEnergy = core.MustProbValue(999) // excluded from aggregation

	// Wood generates Fire -> Output/Hurt. Same polarity (Yang) -> Output.
	outputNode := &model.Node{Type: model.NodeStem, Element: model.Fire, Polarity: model.Yang}
	outputNode.CurrentEnergy = core.MustProbValue(10)

	// Metal controls Wood -> Officer/SevenKillings. B7 is odd (Yin),
	// opposite the Yang day-master -> SevenKillings.
	sevenKillNode := &model.Node{Type: model.NodeBranch, Branch: model.B7, Element: model.Metal}
	sevenKillNode.CurrentEnergy = core.MustProbValue(20)

	nodes := []*model.Node{dayMaster, outputNode, sevenKillNode}

	result := model.ProjectTenGods(nodes, dayMaster, cfg)

	require.InDelta(t, 10*cfg.Particles.ShiShen, result.ByGod[model.Output].Mean, 1e-9)
	require.InDelta(t, 10*cfg.Particles.ShiShen, result.ByGroup[model.GroupOutput].Mean, 1e-9)

	require.InDelta(t, 20*cfg.Particles.QiSha, result.ByGod[model.SevenKillings].Mean, 1e-9)
	require.InDelta(t, 20*cfg.Particles.QiSha, result.ByGroup[model.GroupOfficer].Mean, 1e-9)

	// Day-master's own node never contributes to any relation.
	require.Equal(t, 0.0, result.ByGod[model.Peer].Mean)
}

func TestProjectTenGods_SplitsEnergyAcrossTransformedContributions(t *testing.T) {
	cfg := core.DefaultConfig()

	dayMaster := &model.Node{Type: model.NodeStem, Element: model.Wood, Polarity: model.Yang}
	dayMaster.CurrentEnergy = core.MustProbValue(0)

	water := model.Water
	transformed := &model.Node{Type: model.NodeStem, Element: model.Fire, Polarity: model.Yang}
	transformed.CurrentEnergy = core.MustProbValue(10)
	transformed.TransformTarget = &water
	transformed.TransformWeight = 0.3

	result := model.ProjectTenGods([]*model.Node{dayMaster, transformed}, dayMaster, cfg)

	// 70% stays Fire (Output, same polarity), 30% becomes Water
	// (Resource for Wood, same polarity).
	require.InDelta(t, 10*0.7*cfg.Particles.ShiShen, result.ByGod[model.Output].Mean, 1e-9)
	require.InDelta(t, 10*0.3*cfg.Particles.ZhengYin, result.ByGod[model.Resource].Mean, 1e-9)
}
