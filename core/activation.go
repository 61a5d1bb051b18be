// core/activation.go

package core

import "math"

// NonlinearActivation collects the pure, stateless threshold/transition
// functions the graph engine uses in place of hard if/else cutoffs, so
// small numeric jitter near a boundary never flips a decision. Every
// function here is a plain scalar function: no receiver state, no
// ProbValue in or out.

// SoftplusThreshold is a smoothed ramp around threshold: scale·ln(1+exp((x−threshold)/scale)).
func SoftplusThreshold(x, threshold, scale float64) float64 {
	if scale == 0 {
		scale = 1
	}
	z := (x - threshold) / scale
	// avoid overflow in exp for large z; softplus(z) ~ z for large z
	if z > 35 {
		return scale * z
	}
	return scale * math.Log1p(math.Exp(z))
}

// SigmoidThreshold is a logistic gate centered on threshold.
func SigmoidThreshold(x, threshold, steepness float64) float64 {
	return 1.0 / (1.0 + math.Exp(-steepness*(x-threshold)))
}

// PhaseTransitionEnergy amplifies distance from phasePoint by a power law,
// preserving sign: sign(x−phasePoint) · |x−phasePoint|^exponent.
func PhaseTransitionEnergy(x, phasePoint, exponent float64) float64 {
	d := x - phasePoint
	if d == 0 {
		return 0
	}
	sign := 1.0
	if d < 0 {
		sign = -1.0
	}
	return sign * math.Pow(math.Abs(d), exponent)
}

// QuantumTunnelingProbability gives a residual leakage probability through
// a barrier even when energy falls short of barrierHeight.
func QuantumTunnelingProbability(energy, barrierHeight, barrierWidth float64) float64 {
	deficit := barrierHeight - energy
	if deficit < 0 {
		deficit = 0
	}
	return math.Exp(-2 * barrierWidth * math.Sqrt(deficit))
}

// VaultEnergyDetail records one named contribution to a vault/tomb energy
// calculation, for the Result.details trail.
type VaultEnergyDetail struct {
	Label string
	Value float64
}

// CalculateVaultEnergyNonlinear combines a sigmoid gate on strengthNorm
// with phase-transition amplification and a tunnelling floor. When the
// gate gives "open" (strong enough day-master pressing the clash), the
// result is a bonus scaled by clash intensity; otherwise it is a penalty
// damped by any competing trine and reduced by tunnelling leakage.
func CalculateVaultEnergyNonlinear(
	strengthNorm float64,
	clashIntensity float64,
	hasTrine bool,
	trineCompleteness float64,
	baseBonus, basePenalty float64,
	cfg NonlinearConfig,
) (float64, []VaultEnergyDetail) {
	gate := SigmoidThreshold(strengthNorm, cfg.Threshold, cfg.Steepness)
	details := make([]VaultEnergyDetail, 0, 4)
	details = append(details, VaultEnergyDetail{"gate", gate})

	amplification := 1 + math.Abs(PhaseTransitionEnergy(strengthNorm, cfg.PhasePoint, cfg.CriticalExponent))*cfg.ClashIntensityWeight

	if gate >= 0.5 {
		energy := baseBonus * gate * (1 + clashIntensity*cfg.ClashIntensityWeight) * amplification
		details = append(details, VaultEnergyDetail{"open_bonus", energy})
		return energy, details
	}

	damping := 1.0
	if hasTrine {
		damping = 1 - trineCompleteness*cfg.TrineEffectWeight
		details = append(details, VaultEnergyDetail{"trine_damping", damping})
	}

	leak := QuantumTunnelingProbability(strengthNorm, cfg.BarrierHeight, cfg.BarrierWidth)
	details = append(details, VaultEnergyDetail{"tunneling_leak", leak})

	energy := -basePenalty * (1 - gate) * damping * (1 - leak)
	details = append(details, VaultEnergyDetail{"collapse_penalty", energy})

	return energy, details
}

// PenaltyKind names the family of attack a penalty is scored for.
type PenaltyKind string

const (
	PenaltyClashCommander PenaltyKind = "clash_commander"
	PenaltySevenKill      PenaltyKind = "seven_kill"
)

// CalculatePenaltyNonlinear scales basePenalty by how weak the day-master
// is (sigmoid(−strengthNorm)), then relieves it multiplicatively for any
// peer help and/or resource mediation present.
func CalculatePenaltyNonlinear(
	strengthNorm float64,
	kind PenaltyKind,
	intensity float64,
	hasHelp, hasMediation bool,
	basePenalty float64,
	cfg NonlinearConfig,
) (float64, []VaultEnergyDetail) {
	weakness := SigmoidThreshold(-strengthNorm, -cfg.Threshold, cfg.Steepness)
	penalty := basePenalty * weakness * (1 + intensity)
	details := []VaultEnergyDetail{
		{"kind", 0},
		{"weakness_gate", weakness},
		{"raw_penalty", penalty},
	}
	_ = kind // kind currently only annotates details/labels; magnitude shape is shared

	if hasHelp {
		penalty *= cfg.HelpFactor
		details = append(details, VaultEnergyDetail{"help_relief", cfg.HelpFactor})
	}
	if hasMediation {
		penalty *= cfg.MediationFactor
		details = append(details, VaultEnergyDetail{"mediation_relief", cfg.MediationFactor})
	}

	return -penalty, details
}
