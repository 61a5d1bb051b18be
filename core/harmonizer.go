// core/harmonizer.go

package core

import (
	"math"
	"sync"
)

// InstabilityState is a snapshot of a Harmonizer's current instability
// reading plus its named components.
type InstabilityState struct {
	Value      float64            // overall instability, in [0,1]
	Components map[string]float64 // per-signal instability, each in [0,1]
}

// Harmonizer aggregates several independent structural-instability
// signals (model.BuildNodes feeds the clash and self-punishment
// fractions) into the single uncertainty_fraction a node's ProbValue.std uses
// (§4.3: "uncertainty_fraction scales with detected structural
// instability"). 0 means fully stable, 1 means maximally unstable.
type Harmonizer struct {
	mu sync.RWMutex

	instability float64
	components  map[string]float64
	weights     map[string]float64
}

// NewHarmonizer creates a Harmonizer with no signals registered yet
// (instability reads as 0, i.e. stable, until a component is set).
func NewHarmonizer() *Harmonizer {
	return &Harmonizer{
		instability: 0,
		components:  make(map[string]float64),
		weights:     make(map[string]float64),
	}
}

// Reset clears all components and weights back to the stable state.
func (h *Harmonizer) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.instability = 0
	h.components = make(map[string]float64)
	h.weights = make(map[string]float64)
}

// SetWeight assigns a relative weight to a named instability signal.
// Unweighted signals default to weight 1 in the aggregate.
func (h *Harmonizer) SetWeight(signal string, weight float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.weights[signal] = weight
}

// UpdateComponent records the current reading of a named instability
// signal (clamped to [0,1]) and recomputes the aggregate.
func (h *Harmonizer) UpdateComponent(signal string, value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	value = math.Max(0, math.Min(1, value))
	h.components[signal] = value
	h.recompute()
}

// Instability returns the current weighted-average instability.
func (h *Harmonizer) Instability() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.instability
}

// Snapshot returns a copy of the current state, safe to retain after
// the Harmonizer mutates further.
func (h *Harmonizer) Snapshot() InstabilityState {
	h.mu.RLock()
	defer h.mu.RUnlock()

	components := make(map[string]float64, len(h.components))
	for k, v := range h.components {
		components[k] = v
	}

	return InstabilityState{
		Value:      h.instability,
		Components: components,
	}
}

// UncertaintyFraction maps the current instability reading onto the
// [0.02, 0.15] band a node's ProbValue.std fraction must fall in
// (§4.3), linearly: 0 instability -> 0.02, 1 instability -> 0.15.
func (h *Harmonizer) UncertaintyFraction() float64 {
	const lo, hi = 0.02, 0.15
	return lo + h.Instability()*(hi-lo)
}

func (h *Harmonizer) recompute() {
	if len(h.components) == 0 {
		h.instability = 0
		return
	}

	totalWeight := 0.0
	weightedSum := 0.0

	for signal, value := range h.components {
		weight := h.weights[signal]
		if weight == 0 {
			weight = 1.0
		}
		totalWeight += weight
		weightedSum += value * weight
	}

	if totalWeight > 0 {
		h.instability = weightedSum / totalWeight
	} else {
		h.instability = 0
	}
}
