// ABOUTME: Statutory entitlement calculator for delayed payments under the MSME Act
// ABOUTME: Section 15 grace trigger plus Section 16 monthly compounding at 3x base rate
package statute

import (
	"fmt"
	"math"

	"github.com/settleflow/settleflow/internal/models"
)

const (
	// DefaultBaseRate is the reference RBI bank rate (8.5%) used when no
	// override is configured
	DefaultBaseRate = 0.085

	// DefaultGraceDays applies when no contractual payment term was agreed
	DefaultGraceDays = 15

	// MaxAgreedDays caps an agreed payment term for the statutory trigger
	MaxAgreedDays = 45

	// RateMultiplier: statutory interest is three times the base rate
	RateMultiplier = 3
)

// Calculator computes statutory entitlements. The zero value is not usable;
// construct with NewCalculator.
type Calculator struct {
	baseRate float64
}

// NewCalculator returns a calculator using the given annual base rate
// (e.g. 0.085 for 8.5%). Non-positive rates fall back to DefaultBaseRate.
func NewCalculator(baseRate float64) *Calculator {
	if baseRate <= 0 {
		baseRate = DefaultBaseRate
	}
	return &Calculator{baseRate: baseRate}
}

// BaseRate returns the configured annual base rate
func (c *Calculator) BaseRate() float64 {
	return c.baseRate
}

// TriggerDays returns the grace period in days: the agreed payment term
// capped at 45 days, or 15 days when no term was agreed (agreedDays == 0).
func TriggerDays(agreedDays int) int {
	if agreedDays > 0 {
		if agreedDays > MaxAgreedDays {
			return MaxAgreedDays
		}
		return agreedDays
	}
	return DefaultGraceDays
}

// Compute derives the statutory entitlement for a delayed payment.
// Principal is in minor currency units. Returns models.ErrInvalidInput for
// negative inputs; a zero principal yields an all-zero entitlement.
//
// Interest and total are left unrounded; callers round at the presentation
// boundary via StatutoryEntitlement.Rounded.
func (c *Calculator) Compute(principal int64, delayDays, agreedDays int) (models.StatutoryEntitlement, error) {
	if principal < 0 {
		return models.StatutoryEntitlement{}, fmt.Errorf("%w: principal must be non-negative, got %d", models.ErrInvalidInput, principal)
	}
	if delayDays < 0 {
		return models.StatutoryEntitlement{}, fmt.Errorf("%w: delay_days must be non-negative, got %d", models.ErrInvalidInput, delayDays)
	}
	if agreedDays < 0 {
		return models.StatutoryEntitlement{}, fmt.Errorf("%w: agreed_payment_days must be positive when set, got %d", models.ErrInvalidInput, agreedDays)
	}

	trigger := TriggerDays(agreedDays)

	if delayDays <= trigger {
		return models.StatutoryEntitlement{
			Principal:   principal,
			Interest:    0,
			Total:       float64(principal),
			TriggerDays: trigger,
		}, nil
	}

	annualRate := RateMultiplier * c.baseRate
	monthlyRate := annualRate / 12
	months := float64(delayDays) / 30
	compoundFactor := math.Pow(1+monthlyRate, months)
	interest := float64(principal) * (compoundFactor - 1)

	return models.StatutoryEntitlement{
		Principal:          principal,
		Interest:           interest,
		Total:              float64(principal) + interest,
		AnnualRatePercent:  annualRate * 100,
		TriggerDays:        trigger,
		GraceTriggered:     true,
		CompoundingApplied: true,
	}, nil
}

// ReminderRatePercent is the fixed statutory-interest talking point quoted in
// round-3+ negotiation rationale: 18% for delays beyond 90 days, 12%
// otherwise. Quoted in percent consistently; it intentionally does not track
// the calculator's own 3x-base-rate derivation.
func ReminderRatePercent(delayDays int) float64 {
	if delayDays > 90 {
		return 18
	}
	return 12
}
