// model/result.go

package model

import "github.com/suksuki/bazi-sub002/core"

// Result is §4.9's contract: the full output of one Analyze call.
// TenGods and Domains are keyed by the composite groups/domain names
// the Result contract lists them by, not the ten individual relations.
type Result struct {
	StrengthScore   float64                        `json:"strength_score"`
	StrengthLabel   StrengthLabel                  `json:"strength_label"`
	SelfTeamRatio   float64                        `json:"self_team_ratio"`
	TenGods         map[TenGodGroup]core.ProbValue `json:"ten_gods"`
	Domains         map[string]core.ProbValue      `json:"domains"`
	Details         []string                       `json:"details"`
	DetectedMatches []string                       `json:"detected_matches"`

	// Distribution is non-nil only when the caller set
	// Request.SampleDistribution (§4.9's "When the caller requests a
	// probability distribution...").
	Distribution *Distribution `json:"distribution,omitempty"`
}

// Percentiles holds the five percentile points §4.9 names: 5, 25, 50
// (median), 75, 95.
type Percentiles struct {
	P5  float64 `json:"p5"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P95 float64 `json:"p95"`
}

// Distribution is the per-field percentile output of the §4.9
// Monte-Carlo sampling mode.
type Distribution struct {
	StrengthScore Percentiles `json:"strength_score"`
	Career        Percentiles `json:"career"`
	Wealth        Percentiles `json:"wealth"`
	Relationship  Percentiles `json:"relationship"`
}

// Domain name keys for Result.Domains, matching the Result contract's
// literal {career, wealth, relationship} field names.
const (
	DomainCareer       = "career"
	DomainWealth       = "wealth"
	DomainRelationship = "relationship"
)
