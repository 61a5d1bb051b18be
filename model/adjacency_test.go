// model/adjacency_test.go

package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suksuki/bazi-sub002/core"
	"github.com/suksuki/bazi-sub002/model"
)

// sixCombinationPair builds the two branch nodes for B0/B1, a table-listed
// six-combination pair (target Earth), with b1 placed on a given pillar.
func sixCombinationPair(tb *model.Tables, b1Pillar model.PillarPosition) []*model.Node {
	n0 := &model.Node{Pillar: model.PillarYear, Type: model.NodeBranch, Branch: model.B0, Element: tb.BranchElement(model.B0)}
	n0.CurrentEnergy = core.MustProbValue(10)
	n1 := &model.Node{Pillar: b1Pillar, Type: model.NodeBranch, Branch: model.B1, Element: tb.BranchElement(model.B1)}
	n1.CurrentEnergy = core.MustProbValue(10)
	return []*model.Node{n0, n1}
}

// TestBuildAdjacency_DynamicNodesFormCombinationsGatesSupplementaryOnly is
// §9's luck/annual open-question resolution: the six-combination bonus
// between two original branches never depends on the flag, but a
// supplementary branch only contributes it when the flag is true.
func TestBuildAdjacency_DynamicNodesFormCombinationsGatesSupplementaryOnly(t *testing.T) {
	tb := model.DefaultTables()

	cfgOn := core.DefaultConfig()
	require.True(t, cfgOn.Flow.DynamicNodesFormCombinations)
	cfgOff := core.DefaultConfig()
	cfgOff.Flow.DynamicNodesFormCombinations = false

	originalPair := sixCombinationPair(tb, model.PillarMonth)
	adjOriginalOn, _ := model.BuildAdjacency(originalPair, tb, cfgOn)
	adjOriginalOff, _ := model.BuildAdjacency(originalPair, tb, cfgOff)
	require.Equal(t, adjOriginalOn[0][1], adjOriginalOff[0][1],
		"two original branches must form the combination regardless of the flag")

	supplementaryPair := sixCombinationPair(tb, model.PillarSupplementary)
	adjSupplementaryOn, _ := model.BuildAdjacency(supplementaryPair, tb, cfgOn)
	adjSupplementaryOff, _ := model.BuildAdjacency(supplementaryPair, tb, cfgOff)
	require.Greater(t, adjSupplementaryOn[0][1], adjSupplementaryOff[0][1],
		"a supplementary branch must only trigger, not form, the combination when the flag is off")
}
