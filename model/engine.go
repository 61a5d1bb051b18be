// model/engine.go

package model

import (
	"sync"

	"github.com/suksuki/bazi-sub002/core"
)

// GraphEngine is the single deterministic entry point §6's analyze(...)
// call contract names. It owns no mutable state across calls beyond a
// loaded, immutable Tables reference (§5: "Static tables are immutable
// and freely sharable"); Analyze itself is stateless and idempotent, so
// one GraphEngine may safely serve concurrent callers so long as no two
// overlap on the same Request value.
type GraphEngine struct {
	mu     sync.RWMutex
	tables *Tables
}

// NewGraphEngine builds an engine backed by the default embedded tables.
func NewGraphEngine() *GraphEngine {
	return &GraphEngine{tables: DefaultTables()}
}

// NewGraphEngineWithTables builds an engine backed by caller-supplied
// tables, for tests that need a non-default domain table set.
func NewGraphEngineWithTables(tb *Tables) *GraphEngine {
	return &GraphEngine{tables: tb}
}

// Analyze runs §4.3-§4.9 end to end: build nodes, build adjacency,
// propagate, classify strength, project ten-gods, score the three
// domains, and assemble the Result. When req.SampleDistribution is set,
// it additionally runs the §4.9 Monte-Carlo percentile pass.
func (e *GraphEngine) Analyze(req Request) (*Result, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	e.mu.RLock()
	tb := e.tables
	e.mu.RUnlock()

	cfg := req.resolvedConfig()
	if err := cfg.Validate(); err != nil {
		return nil, NewModelError(ErrCodeConfigOutOfRange, "invalid configuration", err)
	}

	point, detectedMatches, details, err := e.runPipeline(req, tb, cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{
		StrengthScore:   point.strength.Score,
		StrengthLabel:   point.strength.Label,
		SelfTeamRatio:   point.strength.SelfTeamRatio,
		TenGods:         point.tenGods.ByGroup,
		Domains: map[string]core.ProbValue{
			DomainCareer:       point.domains.Career,
			DomainWealth:       point.wealth.Score,
			DomainRelationship: point.domains.Relationship,
		},
		Details:         details,
		DetectedMatches: detectedMatches,
	}

	if req.SampleDistribution {
		dist, err := RunMonteCarlo(req, tb, cfg)
		if err != nil {
			return nil, err
		}
		result.Distribution = dist
	}

	return result, nil
}

// analysisPoint bundles one deterministic pass's outputs, shared by
// Analyze's point estimate and by each Monte-Carlo draw.
type analysisPoint struct {
	strength StrengthResult
	tenGods  TenGodEnergies
	wealth   WealthResult
	domains  DomainResult
}

// runPipeline executes Phases 1-3 plus classification/projection/scoring
// once over req, returning the point estimate plus the matches/details
// trails §4.9's Result.detected_matches and Result.details want.
func (e *GraphEngine) runPipeline(req Request, tb *Tables, cfg *core.Config) (analysisPoint, []string, []string, error) {
	nodes, _, err := BuildNodes(req, tb, cfg)
	if err != nil {
		return analysisPoint{}, nil, nil, err
	}

	adjacency, detectedMatches := BuildAdjacency(nodes, tb, cfg)
	Propagate(nodes, adjacency, cfg)

	dayMasterNode := findDayMasterNode(nodes, req)
	if dayMasterNode == nil {
		return analysisPoint{}, nil, nil, NewModelError(ErrCodeInvalidSymbol, "day-master node not found among built nodes", nil)
	}

	strength := ClassifyStrength(nodes, dayMasterNode.Element, tb, cfg)
	tenGods := ProjectTenGods(nodes, dayMasterNode, cfg)
	wealth := CalculateWealthIndex(nodes, dayMasterNode, strength, req, tb, cfg)
	domains := CalculateDomains(nodes, dayMasterNode, strength, req, tenGods, tb, cfg)

	return analysisPoint{
		strength: strength,
		tenGods:  tenGods,
		wealth:   wealth,
		domains:  domains,
	}, detectedMatches, wealth.Details, nil
}

// findDayMasterNode locates the day-pillar stem node matching
// req.DayMaster (§3: the day-master is always the day pillar's stem).
func findDayMasterNode(nodes []*Node, req Request) *Node {
	for _, n := range nodes {
		if n.Type == NodeStem && n.Pillar == PillarDay && n.Stem == req.DayMaster {
			return n
		}
	}
	return nil
}
