// api/config.go

package api

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/suksuki/bazi-sub002/core"
)

// fileConfig mirrors a subset of core.Config's shape for YAML decoding:
// the Structure, Vault and Strength sections, Physics.MonthWeight, and
// Flow without SpatialDecay. The Interactions, Nonlinear and Particles
// sections, Physics.PillarWeights and Flow.SpatialDecay have no YAML
// keys here and always keep their defaults. Every field is a pointer so
// an absent key leaves the corresponding default from
// core.DefaultConfig() untouched, rather than zeroing it.
type fileConfig struct {
	Structure *struct {
		BaseUnit        *float64 `yaml:"base_unit"`
		RootingWeight   *float64 `yaml:"rooting_weight"`
		SamePillarBonus *float64 `yaml:"same_pillar_bonus"`
		ExposedBoost    *float64 `yaml:"exposed_boost"`
	} `yaml:"structure"`

	Physics *struct {
		MonthWeight *float64 `yaml:"month_weight"`
	} `yaml:"physics"`

	Flow *struct {
		GenerationEfficiency         *float64 `yaml:"generation_efficiency"`
		ControlImpact                *float64 `yaml:"control_impact"`
		CombinationBonus             *float64 `yaml:"combination_bonus"`
		ClashDamping                 *float64 `yaml:"clash_damping"`
		Damping                      *float64 `yaml:"damping"`
		GlobalEntropy                *float64 `yaml:"global_entropy"`
		PropagationIterations        *int     `yaml:"propagation_iterations"`
		DynamicNodesFormCombinations *bool    `yaml:"dynamic_nodes_form_combinations"`
	} `yaml:"flow"`

	Vault *struct {
		Threshold       *float64 `yaml:"threshold"`
		SealedDamping   *float64 `yaml:"sealed_damping"`
		OpenBonus       *float64 `yaml:"open_bonus"`
		PunishmentOpens *bool    `yaml:"punishment_opens"`
		BreakPenalty    *float64 `yaml:"break_penalty"`
		KOpen           *float64 `yaml:"k_open"`
		KCollapse       *float64 `yaml:"k_collapse"`
	} `yaml:"vault"`

	Strength *struct {
		StrongThreshold    *float64 `yaml:"strong_threshold"`
		SpecialStrongScore *float64 `yaml:"special_strong_score"`
		SpecialStrongRatio *float64 `yaml:"special_strong_ratio"`
		WeakThreshold      *float64 `yaml:"weak_threshold"`
		NetForceOverride   *float64 `yaml:"net_force_override"`
	} `yaml:"strength"`
}

// LoadConfig reads a YAML document from path and overlays its fields
// onto core.DefaultConfig() (§6: "all fields have documented defaults").
// A nil/missing section leaves its defaults untouched; this is an
// overlay, not a replacement, so a config file needs only the fields it
// means to change.
func LoadConfig(path string) (*core.Config, error) {
	cfg := core.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}

	applyOverlay(cfg, &fc)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %q failed validation: %w", path, err)
	}
	return cfg, nil
}

func applyOverlay(cfg *core.Config, fc *fileConfig) {
	if s := fc.Structure; s != nil {
		setF(&cfg.Structure.BaseUnit, s.BaseUnit)
		setF(&cfg.Structure.RootingWeight, s.RootingWeight)
		setF(&cfg.Structure.SamePillarBonus, s.SamePillarBonus)
		setF(&cfg.Structure.ExposedBoost, s.ExposedBoost)
	}
	if p := fc.Physics; p != nil {
		setF(&cfg.Physics.MonthWeight, p.MonthWeight)
	}
	if f := fc.Flow; f != nil {
		setF(&cfg.Flow.GenerationEfficiency, f.GenerationEfficiency)
		setF(&cfg.Flow.ControlImpact, f.ControlImpact)
		setF(&cfg.Flow.CombinationBonus, f.CombinationBonus)
		setF(&cfg.Flow.ClashDamping, f.ClashDamping)
		setF(&cfg.Flow.Damping, f.Damping)
		setF(&cfg.Flow.GlobalEntropy, f.GlobalEntropy)
		if f.PropagationIterations != nil {
			cfg.Flow.PropagationIterations = *f.PropagationIterations
		}
		if f.DynamicNodesFormCombinations != nil {
			cfg.Flow.DynamicNodesFormCombinations = *f.DynamicNodesFormCombinations
		}
	}
	if v := fc.Vault; v != nil {
		setF(&cfg.Vault.Threshold, v.Threshold)
		setF(&cfg.Vault.SealedDamping, v.SealedDamping)
		setF(&cfg.Vault.OpenBonus, v.OpenBonus)
		if v.PunishmentOpens != nil {
			cfg.Vault.PunishmentOpens = *v.PunishmentOpens
		}
		setF(&cfg.Vault.BreakPenalty, v.BreakPenalty)
		setF(&cfg.Vault.KOpen, v.KOpen)
		setF(&cfg.Vault.KCollapse, v.KCollapse)
	}
	if s := fc.Strength; s != nil {
		setF(&cfg.Strength.StrongThreshold, s.StrongThreshold)
		setF(&cfg.Strength.SpecialStrongScore, s.SpecialStrongScore)
		setF(&cfg.Strength.SpecialStrongRatio, s.SpecialStrongRatio)
		setF(&cfg.Strength.WeakThreshold, s.WeakThreshold)
		setF(&cfg.Strength.NetForceOverride, s.NetForceOverride)
	}
}

func setF(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
