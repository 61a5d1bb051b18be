// model/request.go

package model

import "github.com/suksuki/bazi-sub002/core"

// EraModifier is the optional era-element adjustment of §4.3 step 5:
// a single element gains a bonus, the element it controls takes a
// penalty.
type EraModifier struct {
	Element Element
	Bonus   float64
	Penalty float64
}

// Request is the full input to Analyze (§6's analyze(...) call
// contract). Pillars is indexed by PillarYear/PillarMonth/PillarDay/
// PillarHour. Luck, Annual, GeoModifiers, and Era are all optional;
// a nil/empty value is treated as neutral, never as an error (§7).
type Request struct {
	Pillars   [4]Pillar
	DayMaster Stem

	Luck   *Pillar
	Annual *Pillar

	GeoModifiers map[Element]float64
	Era          *EraModifier

	Config *core.Config

	// SampleDistribution requests the §4.9 Monte-Carlo percentile mode
	// in addition to the point estimate.
	SampleDistribution bool
	// SampleCount overrides the §4.9 default of 1000 draws when SampleDistribution is set.
	SampleCount int
	// Seed makes Monte-Carlo sampling reproducible (§5: "seeded explicitly").
	Seed int64
}

// resolvedConfig returns req.Config, or core's documented defaults if
// the caller left it nil.
func (req Request) resolvedConfig() *core.Config {
	if req.Config != nil {
		return req.Config
	}
	return core.DefaultConfig()
}
