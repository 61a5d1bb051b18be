// model/validation.go

package model

import (
	"fmt"
	"math"
)

// ValidateFinite reports whether x is neither NaN nor infinite.
func ValidateFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// ValidateStem reports whether s is one of the ten defined stems.
func ValidateStem(s Stem) bool {
	return s.Valid()
}

// ValidateBranch reports whether b is one of the twelve defined branches.
func ValidateBranch(b Branch) bool {
	return b.Valid()
}

// ValidatePillar reports whether both halves of p are valid symbols.
func ValidatePillar(p Pillar) bool {
	return ValidateStem(p.Stem) && ValidateBranch(p.Branch)
}

// ValidateDayMaster reports whether dayMaster matches the day pillar's
// stem, per §7's "Inconsistent day-master" fatal condition.
func ValidateDayMaster(dayMaster Stem, dayPillar Pillar) bool {
	return dayMaster == dayPillar.Stem
}

// ValidateRequest runs every §7-mandated fatal check over a Request and
// returns the first violation found, wrapped as a *ModelError, or nil.
func ValidateRequest(req Request) error {
	for i, p := range req.Pillars {
		if !ValidatePillar(p) {
			return NewModelError(ErrCodeInvalidSymbol,
				fmt.Sprintf("pillar %d has an unknown stem or branch symbol", i), ErrInvalidSymbol)
		}
	}

	if !ValidateStem(req.DayMaster) {
		return NewModelError(ErrCodeInvalidSymbol, "day_master is an unknown stem symbol", ErrInvalidSymbol)
	}

	if !ValidateDayMaster(req.DayMaster, req.Pillars[PillarDay]) {
		return NewModelError(ErrCodeInconsistentDayMaster,
			"declared day_master does not match the day pillar's stem", ErrInconsistentDayMaster)
	}

	if req.Luck != nil && !ValidatePillar(*req.Luck) {
		return NewModelError(ErrCodeInvalidSymbol, "luck pillar has an unknown stem or branch symbol", ErrInvalidSymbol)
	}
	if req.Annual != nil && !ValidatePillar(*req.Annual) {
		return NewModelError(ErrCodeInvalidSymbol, "annual pillar has an unknown stem or branch symbol", ErrInvalidSymbol)
	}

	if req.GeoModifiers != nil {
		for el, v := range req.GeoModifiers {
			if el < Wood || el > Water {
				return NewModelError(ErrCodeInvalidSymbol, "geo_modifiers key is not a valid element", ErrInvalidSymbol)
			}
			if !ValidateFinite(v) || v < 0 {
				return NewModelError(ErrCodeConfigOutOfRange, "geo_modifiers value must be a finite, non-negative number", ErrConfigOutOfRange)
			}
		}
	}

	if req.Era != nil {
		if !ValidateFinite(req.Era.Bonus) || !ValidateFinite(req.Era.Penalty) {
			return NewModelError(ErrCodeNonFiniteArithmetic, "era bonus/penalty must be finite", ErrNonFiniteArithmetic)
		}
	}

	return nil
}
