package analysis

import (
	"encoding/json"
	"math"
)

// Point is a 2D position in normalized image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Landmark is a named anatomical point as produced by the pose estimator.
// Visibility is in [0,1]; estimators that do not report visibility use 1.0.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// Point returns the landmark position without the visibility score.
func (l Landmark) Point() Point {
	return Point{X: l.X, Y: l.Y}
}

// UnmarshalJSON defaults Visibility to 1.0 when the key is absent, so
// estimators that report only positions still pass the visibility gates.
func (l *Landmark) UnmarshalJSON(data []byte) error {
	raw := struct {
		X          float64  `json:"x"`
		Y          float64  `json:"y"`
		Visibility *float64 `json:"visibility"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.X, l.Y = raw.X, raw.Y
	l.Visibility = 1.0
	if raw.Visibility != nil {
		l.Visibility = *raw.Visibility
	}
	return nil
}

// JointFrame maps anatomical joint names (e.g. "left_elbow") to their
// detected positions for a single video frame.
type JointFrame map[string]Landmark

// visibility returns the named joint's visibility, or 0 if absent.
func (f JointFrame) visibility(name string) float64 {
	return f[name].Visibility
}

// minVisibility is the per-joint gate below which a joint is considered
// untrackable for angle computation.
const minVisibility = 0.5

// sideConfidenceFloor is the minimum average shoulder+hip visibility a side
// must reach before it can be selected for tracking.
const sideConfidenceFloor = 0.6

// Angle computes the unsigned interior angle at vertex b, in degrees [0,180].
// A degenerate pose (a or c coinciding with b) yields 0.
func Angle(a, b, c Point) float64 {
	bax, bay := a.X-b.X, a.Y-b.Y
	bcx, bcy := c.X-b.X, c.Y-b.Y
	magBA := math.Hypot(bax, bay)
	magBC := math.Hypot(bcx, bcy)
	if magBA == 0 || magBC == 0 {
		return 0.0
	}
	cos := (bax*bcx + bay*bcy) / (magBA * magBC)
	// Floating point can push the ratio just outside [-1,1].
	cos = math.Max(-1.0, math.Min(1.0, cos))
	return math.Acos(cos) * 180.0 / math.Pi
}

// SelectSide picks the body side to track: the side whose shoulder+hip
// average visibility is higher, provided it clears the confidence floor.
// Returns ok=false when neither side is confidently visible.
func SelectSide(frame JointFrame) (Side, bool) {
	left := (frame.visibility("left_shoulder") + frame.visibility("left_hip")) / 2
	right := (frame.visibility("right_shoulder") + frame.visibility("right_hip")) / 2

	best, side := left, SideLeft
	if right > left {
		best, side = right, SideRight
	}
	if best <= sideConfidenceFloor {
		return "", false
	}
	return side, true
}

// resolveJoints fetches the three landmarks defining the tracked angle and
// applies the visibility gate. On failure, badJoint names the first joint
// below the gate.
func resolveJoints(frame JointFrame, aName, bName, cName string) (a, b, c Landmark, badJoint string) {
	for _, name := range []string{aName, bName, cName} {
		if frame.visibility(name) < minVisibility {
			return a, b, c, name
		}
	}
	return frame[aName], frame[bName], frame[cName], ""
}
