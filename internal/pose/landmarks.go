package pose

import (
	"fmt"

	"github.com/claude/kinetik/internal/analysis"
)

// landmarkCount is the size of the model's landmark vector (BlazePose full
// body topology).
const landmarkCount = 33

// landmarkIndex maps the anatomical joint names the analyzer uses to their
// positions in the model's landmark vector.
var landmarkIndex = map[string]int{
	"left_shoulder":      11,
	"right_shoulder":     12,
	"left_elbow":         13,
	"right_elbow":        14,
	"left_wrist":         15,
	"right_wrist":        16,
	"left_index_finger":  19,
	"right_index_finger": 20,
	"left_hip":           23,
	"right_hip":          24,
	"left_knee":          25,
	"right_knee":         26,
	"left_ankle":         27,
	"right_ankle":        28,
	"left_foot_index":    31,
	"right_foot_index":   32,
}

// frameFromLandmarks extracts the named joints from a full landmark vector.
func frameFromLandmarks(lms []analysis.Landmark) (analysis.JointFrame, error) {
	if len(lms) != landmarkCount {
		return nil, fmt.Errorf("expected %d landmarks, got %d", landmarkCount, len(lms))
	}
	frame := make(analysis.JointFrame, len(landmarkIndex))
	for name, idx := range landmarkIndex {
		frame[name] = lms[idx]
	}
	return frame, nil
}
