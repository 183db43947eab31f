package entities

import "testing"

func TestClassifyUtilization_Boundaries(t *testing.T) {
	cases := []struct {
		pct  float64
		want UtilizationStatus
	}{
		{0, Underutilized},
		{59.9, Underutilized},
		{60, Normal},
		{85, Normal},
		{85.1, NearCapacity},
		{100, NearCapacity},
		{100.1, Overloaded},
		{250, Overloaded},
	}

	for _, tc := range cases {
		if got := ClassifyUtilization(tc.pct); got != tc.want {
			t.Errorf("ClassifyUtilization(%g): expected %s, got %s", tc.pct, tc.want, got)
		}
	}
}
