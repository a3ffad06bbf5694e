// ABOUTME: Tests for the statutory entitlement calculator
// ABOUTME: Verifies grace trigger, compounding, monotonicity, and invariants

package statute

import (
	"errors"
	"math"
	"testing"

	"github.com/settleflow/settleflow/internal/models"
)

func TestTriggerDays(t *testing.T) {
	tests := []struct {
		name   string
		agreed int
		want   int
	}{
		{"no agreement defaults to 15", 0, 15},
		{"agreed term used", 30, 30},
		{"agreed term capped at 45", 60, 45},
		{"agreed at cap", 45, 45},
		{"short agreed term", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TriggerDays(tt.agreed); got != tt.want {
				t.Errorf("TriggerDays(%d) = %d, want %d", tt.agreed, got, tt.want)
			}
		})
	}
}

func TestCompute_WithinGracePeriod(t *testing.T) {
	calc := NewCalculator(DefaultBaseRate)

	for _, delay := range []int{0, 1, 14, 15} {
		e, err := calc.Compute(1000000, delay, 0)
		if err != nil {
			t.Fatalf("Compute(delay=%d) error = %v", delay, err)
		}
		if e.Interest != 0 {
			t.Errorf("delay=%d: Interest = %v, want 0", delay, e.Interest)
		}
		if e.Total != float64(e.Principal) {
			t.Errorf("delay=%d: Total = %v, want principal %d", delay, e.Total, e.Principal)
		}
		if e.CompoundingApplied || e.GraceTriggered {
			t.Errorf("delay=%d: flags should be false within grace period", delay)
		}
		if e.AnnualRatePercent != 0 {
			t.Errorf("delay=%d: AnnualRatePercent = %v, want 0", delay, e.AnnualRatePercent)
		}
	}
}

func TestCompute_BeyondGracePeriod(t *testing.T) {
	calc := NewCalculator(0.085)

	// Worked example: 1,000,000 principal, 120 days delay, no agreed term.
	// annual = 25.5%, monthly = 2.125%, months = 4,
	// interest = 1,000,000 x ((1.02125)^4 - 1)
	e, err := calc.Compute(1000000, 120, 0)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if e.TriggerDays != 15 {
		t.Errorf("TriggerDays = %d, want 15", e.TriggerDays)
	}
	if !e.GraceTriggered || !e.CompoundingApplied {
		t.Error("grace and compounding flags should both be set")
	}
	if math.Abs(e.AnnualRatePercent-25.5) > 1e-9 {
		t.Errorf("AnnualRatePercent = %v, want 25.5", e.AnnualRatePercent)
	}

	wantInterest := 1000000 * (math.Pow(1+0.255/12, 4) - 1)
	if math.Abs(e.Interest-wantInterest) > 1e-6 {
		t.Errorf("Interest = %v, want %v", e.Interest, wantInterest)
	}
	// Coarse sanity band around the statutory example figure
	if e.Interest < 85000 || e.Interest > 90000 {
		t.Errorf("Interest = %v, want roughly 88,000", e.Interest)
	}
	if e.Total != float64(e.Principal)+e.Interest {
		t.Errorf("Total = %v, want principal+interest", e.Total)
	}
}

func TestCompute_InterestStrictlyIncreasingInDelay(t *testing.T) {
	calc := NewCalculator(DefaultBaseRate)

	prev := -1.0
	for delay := 16; delay <= 365; delay += 7 {
		e, err := calc.Compute(500000, delay, 0)
		if err != nil {
			t.Fatalf("Compute(delay=%d) error = %v", delay, err)
		}
		if e.Interest <= prev {
			t.Fatalf("interest not strictly increasing at delay=%d: %v <= %v", delay, e.Interest, prev)
		}
		if e.Total < float64(e.Principal) {
			t.Fatalf("Total %v < Principal %d at delay=%d", e.Total, e.Principal, delay)
		}
		prev = e.Interest
	}
}

func TestCompute_RateDerivation(t *testing.T) {
	for _, baseRate := range []float64{0.05, 0.085, 0.10} {
		calc := NewCalculator(baseRate)
		e, err := calc.Compute(100000, 100, 0)
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		want := 3 * baseRate * 100
		if math.Abs(e.AnnualRatePercent-want) > 1e-9 {
			t.Errorf("baseRate=%v: AnnualRatePercent = %v, want %v", baseRate, e.AnnualRatePercent, want)
		}
	}
}

func TestCompute_AgreedTermMovesTrigger(t *testing.T) {
	calc := NewCalculator(DefaultBaseRate)

	// 40-day delay is beyond the 15-day default but inside a 45-day agreed term
	e, err := calc.Compute(200000, 40, 45)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if e.CompoundingApplied {
		t.Error("compounding should not apply inside the agreed term")
	}

	// Agreed terms beyond 45 days are capped, so day 50 still accrues
	e, err = calc.Compute(200000, 50, 90)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if !e.CompoundingApplied {
		t.Error("compounding should apply past the capped 45-day trigger")
	}
	if e.TriggerDays != 45 {
		t.Errorf("TriggerDays = %d, want 45", e.TriggerDays)
	}
}

func TestCompute_ZeroPrincipal(t *testing.T) {
	calc := NewCalculator(DefaultBaseRate)

	e, err := calc.Compute(0, 200, 0)
	if err != nil {
		t.Fatalf("Compute() error = %v, want nil for zero principal", err)
	}
	if e.Interest != 0 || e.Total != 0 {
		t.Errorf("zero principal: Interest = %v, Total = %v, want 0, 0", e.Interest, e.Total)
	}
}

func TestCompute_RejectsNegativeInputs(t *testing.T) {
	calc := NewCalculator(DefaultBaseRate)

	tests := []struct {
		name      string
		principal int64
		delay     int
		agreed    int
	}{
		{"negative principal", -1, 30, 0},
		{"negative delay", 1000, -1, 0},
		{"negative agreed days", 1000, 30, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Compute(tt.principal, tt.delay, tt.agreed)
			if err == nil {
				t.Fatal("Compute() = nil error, want ErrInvalidInput")
			}
			if !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestNewCalculator_DefaultsBadRate(t *testing.T) {
	if got := NewCalculator(0).BaseRate(); got != DefaultBaseRate {
		t.Errorf("BaseRate() = %v, want default %v", got, DefaultBaseRate)
	}
	if got := NewCalculator(-1).BaseRate(); got != DefaultBaseRate {
		t.Errorf("BaseRate() = %v, want default %v", got, DefaultBaseRate)
	}
}

func TestReminderRatePercent(t *testing.T) {
	if got := ReminderRatePercent(90); got != 12 {
		t.Errorf("ReminderRatePercent(90) = %v, want 12", got)
	}
	if got := ReminderRatePercent(91); got != 18 {
		t.Errorf("ReminderRatePercent(91) = %v, want 18", got)
	}
}
