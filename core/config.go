// core/config.go

package core

import (
	"errors"
	"fmt"
)

// Config is the single mapping referenced throughout the engine (§6).
// It groups by concern, matching the table layout of the specification
// it was built from: Structure, Physics, Flow, Interactions, Vault,
// Nonlinear, Strength, Particles. Every field documents its default and
// Validate reports every out-of-range field at once, joined, rather than
// failing on the first.
type Config struct {
	Structure    StructureConfig
	Physics      PhysicsConfig
	Flow         FlowConfig
	Interactions InteractionConfig
	Vault        VaultConfig
	Nonlinear    NonlinearConfig
	Strength     StrengthConfig
	Particles    ParticleConfig
}

// StructureConfig holds the base-energy and rooting multipliers of §4.3.
type StructureConfig struct {
	BaseUnit        float64 // default 10
	RootingWeight   float64 // default 1.5
	SamePillarBonus float64 // default 1.5
	ExposedBoost    float64 // default 1.2
}

// PillarKind names the four fixed pillar positions.
type PillarKind int

const (
	PillarYear PillarKind = iota
	PillarMonth
	PillarDay
	PillarHour
)

// PhysicsConfig holds per-pillar weighting (§4.3 step 1-2).
type PhysicsConfig struct {
	PillarWeights map[PillarKind]float64 // default year:1.0 month:1.3 day:1.0 hour:0.8
	MonthWeight   float64                // default 1.6, seasonality multiplier
}

// FlowConfig holds the adjacency and propagation parameters of §4.4-4.5.
type FlowConfig struct {
	GenerationEfficiency float64    // default 0.25
	ControlImpact        float64    // default -0.3 (negative by convention)
	CombinationBonus     float64    // default 1.5
	ClashDamping         float64    // default 1.0
	Damping              float64    // default 0.9
	GlobalEntropy        float64    // default 0.05
	SpatialDecay         [4]float64 // default [1, 0.6, 0.3, 0.15], indexed by |i-j|

	PropagationIterations int // default 10

	// DynamicNodesFormCombinations resolves the open question in spec §9:
	// luck/annual nodes participate in combinations symmetrically with
	// original pillars when true (the default), or only as triggers
	// when false.
	DynamicNodesFormCombinations bool
}

// InteractionConfig holds the combination/clash/punishment scores of §4.4.
type InteractionConfig struct {
	SixHarmony        float64 // default 12
	TrineFull         float64 // default 18
	TrinePartial      float64 // default 6
	ClashScore        float64 // default -8
	PunishmentPenalty float64 // default 3
	HarmPenalty       float64 // default 2
}

// VaultConfig holds the earth-branch vault/tomb parameters of §4.8.
type VaultConfig struct {
	Threshold     float64 // default 2.0
	SealedDamping float64 // default 0.4, in [0.3, 0.5]
	OpenBonus     float64 // default 1.5

	// PunishmentOpens resolves the open question in spec §9: when true,
	// a qualifying punishment opens/collapses a vault the same way a
	// clash does. Default false (vaults only respond to clashes).
	PunishmentOpens bool

	BreakPenalty float64 // default 0.5
	KOpen        float64 // default 2.5, in [2,3]
	KCollapse    float64 // default 1.5
}

// NonlinearConfig holds the activation-function parameters of §4.2.
type NonlinearConfig struct {
	Threshold            float64 // default 0.5
	Scale                float64 // default 10
	Steepness            float64 // default 10
	PhasePoint           float64 // default 0.5
	CriticalExponent     float64 // default 2
	BarrierHeight        float64 // default 0.6
	BarrierWidth         float64 // default 1.0
	ClashIntensityWeight float64 // default 0.5
	TrineEffectWeight    float64 // default 0.3
	MediationFactor      float64 // default 0.3
	HelpFactor           float64 // default 0.6
}

// StrengthConfig holds the thresholds for §4.6's label decision tree.
type StrengthConfig struct {
	StrongThreshold   float64 // default 55
	SpecialStrongScore float64 // default 80
	SpecialStrongRatio float64 // default 0.65
	WeakThreshold      float64 // default 25

	// NetForceOverride resolves the open question in spec §9: the
	// source used 75 in some places and 70 in others for the
	// Strong/Balanced boundary override. Standardized at 75.
	NetForceOverride float64
}

// ParticleConfig holds the ten-god weight multipliers of §4.7.
type ParticleConfig struct {
	BiJian    float64 // Peer, default 1.5
	JieCai    float64 // Rob, default 1.5
	ShiShen   float64 // Output, default 1.4
	ShangGuan float64 // Hurt, default 1.2
	ZhengCai  float64 // Wealth, default 1.3
	PianCai   float64 // Indirect-Wealth, default 1.5
	ZhengGuan float64 // Officer, default 0.9
	QiSha     float64 // Seven-Killings, default 1.15
	ZhengYin  float64 // Resource, default 0.9
	PianYin   float64 // Indirect-Resource, default 0.9
}

// DefaultConfig returns the configuration with every default from §6.
func DefaultConfig() *Config {
	return &Config{
		Structure: StructureConfig{
			BaseUnit:        10,
			RootingWeight:   1.5,
			SamePillarBonus: 1.5,
			ExposedBoost:    1.2,
		},
		Physics: PhysicsConfig{
			PillarWeights: map[PillarKind]float64{
				PillarYear:  1.0,
				PillarMonth: 1.3,
				PillarDay:   1.0,
				PillarHour:  0.8,
			},
			MonthWeight: 1.6,
		},
		Flow: FlowConfig{
			GenerationEfficiency:         0.25,
			ControlImpact:                -0.3,
			CombinationBonus:             1.5,
			ClashDamping:                 1.0,
			Damping:                      0.9,
			GlobalEntropy:                0.05,
			SpatialDecay:                 [4]float64{1, 0.6, 0.3, 0.15},
			PropagationIterations:        10,
			DynamicNodesFormCombinations: true,
		},
		Interactions: InteractionConfig{
			SixHarmony:        12,
			TrineFull:         18,
			TrinePartial:      6,
			ClashScore:        -8,
			PunishmentPenalty: 3,
			HarmPenalty:       2,
		},
		Vault: VaultConfig{
			Threshold:       2.0,
			SealedDamping:   0.4,
			OpenBonus:       1.5,
			PunishmentOpens: false,
			BreakPenalty:    0.5,
			KOpen:           2.5,
			KCollapse:       1.5,
		},
		Nonlinear: NonlinearConfig{
			Threshold:            0.5,
			Scale:                10,
			Steepness:            10,
			PhasePoint:           0.5,
			CriticalExponent:     2,
			BarrierHeight:        0.6,
			BarrierWidth:         1.0,
			ClashIntensityWeight: 0.5,
			TrineEffectWeight:    0.3,
			MediationFactor:      0.3,
			HelpFactor:           0.6,
		},
		Strength: StrengthConfig{
			StrongThreshold:    55,
			SpecialStrongScore: 80,
			SpecialStrongRatio: 0.65,
			WeakThreshold:      25,
			NetForceOverride:   75,
		},
		Particles: ParticleConfig{
			BiJian:    1.5,
			JieCai:    1.5,
			ShiShen:   1.4,
			ShangGuan: 1.2,
			ZhengCai:  1.3,
			PianCai:   1.5,
			ZhengGuan: 0.9,
			QiSha:     1.15,
			ZhengYin:  0.9,
			PianYin:   0.9,
		},
	}
}

// Validate reports every out-of-range field joined into one error,
// rather than failing fast on the first violation (§7 ConfigOutOfRange
// is fatal and must never be silently clamped).
func (c *Config) Validate() error {
	var errs []error

	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, NewCoreErrorWithCode(ErrConfig, fmt.Sprintf(format, args...)))
		}
	}

	check(c.Structure.BaseUnit > 0, "Structure.BaseUnit must be > 0, got %v", c.Structure.BaseUnit)
	check(c.Structure.RootingWeight >= 1, "Structure.RootingWeight must be >= 1, got %v", c.Structure.RootingWeight)

	for kind, w := range c.Physics.PillarWeights {
		check(w > 0, "Physics.PillarWeights[%v] must be > 0, got %v", kind, w)
	}
	check(c.Physics.MonthWeight >= c.Physics.PillarWeights[PillarMonth],
		"Physics.MonthWeight must be >= PillarWeights[month], got %v < %v",
		c.Physics.MonthWeight, c.Physics.PillarWeights[PillarMonth])

	check(c.Flow.Damping > 0 && c.Flow.Damping < 1, "Flow.Damping must be in (0,1), got %v", c.Flow.Damping)
	check(c.Flow.GlobalEntropy >= 0 && c.Flow.GlobalEntropy < 1, "Flow.GlobalEntropy must be in [0,1), got %v", c.Flow.GlobalEntropy)
	check(c.Flow.PropagationIterations > 0, "Flow.PropagationIterations must be > 0, got %v", c.Flow.PropagationIterations)
	check(len(c.Flow.SpatialDecay) == 4, "Flow.SpatialDecay must have 4 entries, got %d", len(c.Flow.SpatialDecay))

	check(c.Vault.Threshold > 0, "Vault.Threshold must be > 0, got %v", c.Vault.Threshold)
	check(c.Vault.SealedDamping >= 0.3 && c.Vault.SealedDamping <= 0.5, "Vault.SealedDamping must be in [0.3,0.5], got %v", c.Vault.SealedDamping)
	check(c.Vault.KOpen >= 2 && c.Vault.KOpen <= 3, "Vault.KOpen must be in [2,3], got %v", c.Vault.KOpen)

	check(c.Nonlinear.Scale > 0, "Nonlinear.Scale must be > 0, got %v", c.Nonlinear.Scale)
	check(c.Nonlinear.Steepness > 0, "Nonlinear.Steepness must be > 0, got %v", c.Nonlinear.Steepness)
	check(c.Nonlinear.BarrierWidth > 0, "Nonlinear.BarrierWidth must be > 0, got %v", c.Nonlinear.BarrierWidth)

	check(c.Strength.StrongThreshold < c.Strength.SpecialStrongScore,
		"Strength.StrongThreshold must be < SpecialStrongScore, got %v >= %v",
		c.Strength.StrongThreshold, c.Strength.SpecialStrongScore)
	check(c.Strength.WeakThreshold < c.Strength.StrongThreshold,
		"Strength.WeakThreshold must be < StrongThreshold, got %v >= %v",
		c.Strength.WeakThreshold, c.Strength.StrongThreshold)
	check(c.Strength.NetForceOverride > c.Strength.StrongThreshold && c.Strength.NetForceOverride < c.Strength.SpecialStrongScore,
		"Strength.NetForceOverride must be between StrongThreshold and SpecialStrongScore, got %v",
		c.Strength.NetForceOverride)

	return errors.Join(errs...)
}
