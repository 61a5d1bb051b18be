// api/facade.go

package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/suksuki/bazi-sub002/core"
	"github.com/suksuki/bazi-sub002/model"
)

// Facade is the one stateless call §2's L4 layer names: Analyze wraps
// model.GraphEngine.Analyze with the ambient concerns the kernel itself
// never touches (§4.10: "the kernel itself never logs") — structured
// logging with a per-call trace id, and Prometheus metrics.
type Facade struct {
	engine  *model.GraphEngine
	logger  *logrus.Logger
	metrics *Metrics
}

// NewFacade builds a Facade backed by the default graph engine. A nil
// logger/metrics falls back to a bare logrus.Logger and an
// unregistered Metrics instance respectively, so tests can construct a
// Facade without touching the global Prometheus registry.
func NewFacade(logger *logrus.Logger, metrics *Metrics) *Facade {
	if logger == nil {
		logger = logrus.New()
	}
	if metrics == nil {
		metrics = NewMetricsWithRegistry(prometheusNoopRegisterer{})
	}
	return &Facade{
		engine:  model.NewGraphEngine(),
		logger:  logger,
		metrics: metrics,
	}
}

// AnalyzeInput is the facade-level mirror of §6's analyze(...) call
// contract. Config is optional: use LoadConfig to build one, or leave
// it nil for defaults.
type AnalyzeInput struct {
	Pillars      [4]model.Pillar
	DayMaster    model.Stem
	Luck         *model.Pillar
	Annual       *model.Pillar
	GeoModifiers map[model.Element]float64
	Era          *model.EraModifier
	Config       *core.Config

	SampleDistribution bool
	SampleCount        int
	Seed               int64
}

// Analyze runs one deterministic analysis, logging the request, its
// rejection or completion with the total duration and the final
// label/domain scores, and recording
// Prometheus metrics, all keyed by a freshly generated trace id.
func (f *Facade) Analyze(input AnalyzeInput) (*model.Result, string, error) {
	traceID := uuid.New().String()
	entry := f.logger.WithField("trace_id", traceID)
	entry.WithField("day_master", input.DayMaster.String()).Info("analyze request received")

	start := time.Now()
	req := model.Request{
		Pillars:            input.Pillars,
		DayMaster:          input.DayMaster,
		Luck:               input.Luck,
		Annual:             input.Annual,
		GeoModifiers:       input.GeoModifiers,
		Era:                input.Era,
		Config:             input.Config,
		SampleDistribution: input.SampleDistribution,
		SampleCount:        input.SampleCount,
		Seed:               input.Seed,
	}

	result, err := f.engine.Analyze(req)
	duration := time.Since(start)

	if err != nil {
		wrapped := wrapError(err, traceID)
		entry.WithError(err).WithField("duration_ms", duration.Milliseconds()).Warn("analyze request rejected")
		f.metrics.AnalyzeTotal.WithLabelValues("error").Inc()
		f.metrics.AnalyzeDuration.WithLabelValues("error").Observe(duration.Seconds())
		f.metrics.AnalyzeErrors.WithLabelValues(errorCodeLabel(wrapped.Code)).Inc()
		return nil, traceID, wrapped
	}

	entry.WithFields(logrus.Fields{
		"duration_ms":    duration.Milliseconds(),
		"strength_label": result.StrengthLabel,
		"strength_score": result.StrengthScore,
		"career":         result.Domains[model.DomainCareer].Mean,
		"wealth":         result.Domains[model.DomainWealth].Mean,
		"relationship":   result.Domains[model.DomainRelationship].Mean,
	}).Info("analyze request completed")

	f.metrics.AnalyzeTotal.WithLabelValues("ok").Inc()
	f.metrics.AnalyzeDuration.WithLabelValues("ok").Observe(duration.Seconds())
	f.metrics.StrengthLabel.WithLabelValues(string(result.StrengthLabel)).Inc()

	return result, traceID, nil
}

func errorCodeLabel(code ErrorCode) string {
	switch code {
	case ErrCodeInvalidInput:
		return "invalid_input"
	case ErrCodeConfig:
		return "config"
	case ErrCodeInternal:
		return "internal"
	default:
		return "unknown"
	}
}
