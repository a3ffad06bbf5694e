// ABOUTME: StatutoryEntitlement is the computed principal-plus-interest claim
// ABOUTME: Interest stays unrounded internally; Round2 is for presentation only
package models

import "math"

// StatutoryEntitlement is the derived statutory claim for a delayed payment.
// Recomputed per request, never cached across differing inputs.
//
// Invariants: Interest == 0 iff CompoundingApplied == false; Total >= Principal.
type StatutoryEntitlement struct {
	Principal          int64   `json:"principal"`
	Interest           float64 `json:"interest"`
	Total              float64 `json:"total"`
	AnnualRatePercent  float64 `json:"annual_rate_percent"`
	TriggerDays        int     `json:"trigger_days"`
	GraceTriggered     bool    `json:"section_grace_triggered"`
	CompoundingApplied bool    `json:"compounding_applied"`
}

// Rounded returns a presentation copy with monetary fields rounded to
// 2 decimal places. The unrounded value remains authoritative for
// downstream arithmetic.
func (e StatutoryEntitlement) Rounded() StatutoryEntitlement {
	e.Interest = Round2(e.Interest)
	e.Total = Round2(e.Total)
	e.AnnualRatePercent = Round2(e.AnnualRatePercent)
	return e
}

// Round2 rounds to 2 decimal places for presentation
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
