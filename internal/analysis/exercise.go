package analysis

import "strings"

// Exercise identifies a tracked physiotherapy movement. The set is closed:
// every exercise maps to exactly one joint triple per body side.
type Exercise string

const (
	ShoulderFlexion          Exercise = "shoulder flexion"
	ShoulderAbduction        Exercise = "shoulder abduction"
	ShoulderInternalRotation Exercise = "shoulder internal rotation"
	ElbowFlexion             Exercise = "elbow flexion"
	ElbowExtension           Exercise = "elbow extension"
	KneeFlexion              Exercise = "knee flexion"
	AnkleDorsiflexion        Exercise = "ankle dorsiflexion"
	WristFlexion             Exercise = "wrist flexion"
)

// Exercises lists all supported exercises in display order.
func Exercises() []Exercise {
	return []Exercise{
		ShoulderFlexion,
		ShoulderAbduction,
		ShoulderInternalRotation,
		ElbowFlexion,
		ElbowExtension,
		KneeFlexion,
		AnkleDorsiflexion,
		WristFlexion,
	}
}

// jointTriple names the three joints defining the tracked angle, without the
// side prefix. The middle joint is the vertex the angle is measured at.
type jointTriple struct {
	a, b, c string
}

var exerciseJoints = map[Exercise]jointTriple{
	ShoulderFlexion:          {"hip", "shoulder", "elbow"},
	ShoulderAbduction:        {"hip", "shoulder", "elbow"},
	ShoulderInternalRotation: {"hip", "elbow", "wrist"},
	ElbowFlexion:             {"shoulder", "elbow", "wrist"},
	ElbowExtension:           {"shoulder", "elbow", "wrist"},
	KneeFlexion:              {"hip", "knee", "ankle"},
	AnkleDorsiflexion:        {"knee", "ankle", "foot_index"},
	WristFlexion:             {"elbow", "wrist", "index_finger"},
}

// ParseExercise maps a raw exercise name to its canonical Exercise value.
// Matching is case-insensitive and whitespace-tolerant. Returns ok=false for
// unknown names so callers can report the configuration problem.
func ParseExercise(raw string) (Exercise, bool) {
	e := Exercise(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := exerciseJoints[e]; !ok {
		return "", false
	}
	return e, true
}

// Joints returns the side-qualified joint names (A, vertex B, C) tracked for
// this exercise, e.g. ("left_hip", "left_shoulder", "left_elbow").
func (e Exercise) Joints(side Side) (a, b, c string, ok bool) {
	t, ok := exerciseJoints[e]
	if !ok {
		return "", "", "", false
	}
	prefix := string(side) + "_"
	return prefix + t.a, prefix + t.b, prefix + t.c, true
}

// Profile holds the static per-exercise tuning loaded from the configuration
// store. MinAngle/MaxAngle are nominal expected bounds; the real bounds are
// learned per session by calibration.
type Profile struct {
	MinAngle          float64 `json:"min_angle"`
	MaxAngle          float64 `json:"max_angle"`
	DebounceSeconds   float64 `json:"debounce_seconds"`
	CalibrationFrames int     `json:"calibration_frames"`
}
