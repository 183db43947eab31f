package entities

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func mustOperation(t *testing.T, seq int, wc WorkCenterID, setup, run, queue, move float64) Operation {
	t.Helper()
	op, err := NewOperation(
		seq, "op", wc, setup, run, queue, move,
		decimal.NewFromInt(30), decimal.NewFromInt(10),
	)
	if err != nil {
		t.Fatalf("Failed to build operation %d: %v", seq, err)
	}
	return *op
}

func TestOperation_CapacityVsElapsedMinutes(t *testing.T) {
	op := mustOperation(t, 10, "CNC-01", 30, 2, 60, 15)
	qty := decimal.NewFromInt(50)

	// Capacity load is machine time only: 30 setup + 2*50 run = 130.
	if got := op.CapacityMinutes(qty); got != 130 {
		t.Errorf("Expected capacity 130 minutes, got %g", got)
	}

	// Elapsed adds queue and move: 130 + 60 + 15 = 205.
	if got := op.ElapsedMinutes(qty); got != 205 {
		t.Errorf("Expected elapsed 205 minutes, got %g", got)
	}
}

func TestNewRouting_RequiresStrictlyIncreasingSequences(t *testing.T) {
	ops := []Operation{
		mustOperation(t, 10, "WC1", 10, 1, 0, 0),
		mustOperation(t, 10, "WC2", 10, 1, 0, 0),
	}

	_, err := NewRouting("WIDGET", 1, ops)
	if err == nil {
		t.Fatal("Expected error for repeated sequence number, got none")
	}
	if !strings.Contains(err.Error(), "strictly increasing") {
		t.Errorf("Expected sequence ordering error, got: %v", err)
	}
}

func TestNewRouting_RequiresOperations(t *testing.T) {
	_, err := NewRouting("WIDGET", 1, nil)
	if err == nil {
		t.Error("Expected error for empty routing, got none")
	}
}

func TestRouting_LeadTimeDays_RoundsUp(t *testing.T) {
	routing, err := NewRouting("WIDGET", 1, []Operation{
		mustOperation(t, 10, "WC1", 20, 2, 0, 0),
	})
	if err != nil {
		t.Fatalf("Failed to build routing: %v", err)
	}

	cases := []struct {
		qty  int64
		days int
	}{
		{100, 1}, // 220 minutes into a 480-minute day
		{230, 1}, // 480 minutes, exactly one day
		{231, 2}, // 482 minutes rounds up
		{1000, 5}, // 2020 minutes
	}

	for _, tc := range cases {
		got := routing.LeadTimeDays(decimal.NewFromInt(tc.qty), 480)
		if got != tc.days {
			t.Errorf("Quantity %d: expected %d days, got %d", tc.qty, tc.days, got)
		}
	}
}

func TestRouting_LeadTimeDays_ZeroWorkday(t *testing.T) {
	routing, err := NewRouting("WIDGET", 1, []Operation{
		mustOperation(t, 10, "WC1", 20, 2, 0, 0),
	})
	if err != nil {
		t.Fatalf("Failed to build routing: %v", err)
	}
	if got := routing.LeadTimeDays(decimal.NewFromInt(10), 0); got != 0 {
		t.Errorf("Expected 0 days for zero workday length, got %d", got)
	}
}
