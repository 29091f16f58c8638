package analysis

import (
	"math"
	"testing"
)

// TestAccuracyScore pins the triangular center-weighted scoring policy:
// 100 at the midpoint of the calibrated range, linear falloff to 0 at the
// bounds, 0 outside.
func TestAccuracyScore(t *testing.T) {
	cases := []struct {
		name          string
		angle, lo, hi float64
		want          float64
	}{
		{"center scores 100", 100, 30, 170, 100},
		{"lower bound scores 0", 30, 30, 170, 0},
		{"upper bound scores 0", 170, 30, 170, 0},
		{"halfway between center and bound", 135, 30, 170, 50},
		{"below range clamps to 0", 0, 30, 170, 0},
		{"above range clamps to 0", 180, 30, 170, 0},
		{"uncalibrated range scores 0", 90, 180, 0, 0},
		{"collapsed range scores 0", 90, 90, 90, 0},
	}
	for _, tc := range cases {
		got := AccuracyScore(tc.angle, tc.lo, tc.hi)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: AccuracyScore(%v, %v, %v) = %v, want %v",
				tc.name, tc.angle, tc.lo, tc.hi, got, tc.want)
		}
	}
}
