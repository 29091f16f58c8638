package analysis

import "math"

// AccuracyScore maps the current angle to a 0-100 proximity score against the
// calibrated range [lo, hi]. The score is triangular: 100 at the range
// midpoint, falling linearly to 0 at either bound. A malformed or uncalibrated
// range (lo >= hi) scores 0.
//
// A flat-100-inside-range variant with a fixed falloff buffer was considered;
// the center-weighted form is kept because mid-range is where controlled
// movement matters most for rehabilitation.
func AccuracyScore(angle, lo, hi float64) float64 {
	if hi <= lo {
		return 0.0
	}
	center := (lo + hi) / 2
	halfSpan := (hi - lo) / 2
	score := 1.0 - math.Abs(angle-center)/halfSpan
	score = math.Max(0.0, math.Min(1.0, score))
	return score * 100.0
}
