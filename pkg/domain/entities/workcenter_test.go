package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCalendar_IsWorkday(t *testing.T) {
	cal := DefaultCalendar()
	cal.Closures = map[string]bool{"2026-03-04": true}

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !cal.IsWorkday(monday) {
		t.Error("Monday should be a workday on the default calendar")
	}

	saturday := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	if cal.IsWorkday(saturday) {
		t.Error("Saturday should not be a workday on the default calendar")
	}

	closure := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	if cal.IsWorkday(closure) {
		t.Error("Closure date should not be a workday even on a weekday")
	}

	if !ContinuousCalendar().IsWorkday(saturday) {
		t.Error("Saturday should be a workday on the continuous calendar")
	}
}

func TestWorkCenter_EffectiveDailyMinutes(t *testing.T) {
	wc, err := NewWorkCenter(
		"CNC-01", "CNC Mill", 480, 0.85,
		decimal.NewFromInt(60), decimal.NewFromInt(35), DefaultCalendar(),
	)
	if err != nil {
		t.Fatalf("Failed to create work center: %v", err)
	}

	if got := wc.EffectiveDailyMinutes(); got != 408 {
		t.Errorf("Expected 408 effective minutes, got %g", got)
	}
}

func TestNewWorkCenter_EfficiencyBounds(t *testing.T) {
	for _, eff := range []float64{0, -0.5, 1.6} {
		_, err := NewWorkCenter(
			"WC", "wc", 480, eff,
			decimal.Zero, decimal.Zero, DefaultCalendar(),
		)
		if err == nil {
			t.Errorf("Efficiency %g should be rejected", eff)
		}
	}
}
