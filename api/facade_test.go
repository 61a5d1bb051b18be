// api/facade_test.go

package api_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/suksuki/bazi-sub002/api"
	"github.com/suksuki/bazi-sub002/model"
)

func balancedInput() api.AnalyzeInput {
	input := api.AnalyzeInput{DayMaster: model.S4}
	input.Pillars[model.PillarYear] = model.Pillar{Stem: model.S0, Branch: model.B0}
	input.Pillars[model.PillarMonth] = model.Pillar{Stem: model.S2, Branch: model.B9}
	input.Pillars[model.PillarDay] = model.Pillar{Stem: model.S4, Branch: model.B10}
	input.Pillars[model.PillarHour] = model.Pillar{Stem: model.S6, Branch: model.B11}
	return input
}

func TestFacade_AnalyzeReturnsResultAndTraceID(t *testing.T) {
	facade := api.NewFacade(nil, nil)

	result, traceID, err := facade.Analyze(balancedInput())
	require.NoError(t, err)
	require.NotEmpty(t, traceID)
	require.NotNil(t, result)
}

func TestFacade_AnalyzeRejectsInconsistentDayMaster(t *testing.T) {
	facade := api.NewFacade(nil, nil)

	input := balancedInput()
	input.DayMaster = model.S0 // day pillar's stem is S4

	result, traceID, err := facade.Analyze(input)
	require.Error(t, err)
	require.Nil(t, result)
	require.NotEmpty(t, traceID)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, traceID, apiErr.TraceID)
}

func TestFacade_RecordsMetricsAgainstCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := api.NewMetricsWithRegistry(reg)
	facade := api.NewFacade(nil, metrics)

	_, _, err := facade.Analyze(balancedInput())
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}
