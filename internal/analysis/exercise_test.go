package analysis

import "testing"

// TestParseExercise verifies case-insensitive, whitespace-tolerant matching
// and rejection of unknown names.
func TestParseExercise(t *testing.T) {
	cases := []struct {
		input  string
		want   Exercise
		wantOK bool
	}{
		{"elbow flexion", ElbowFlexion, true},
		{"Elbow Flexion", ElbowFlexion, true},
		{"  KNEE FLEXION  ", KneeFlexion, true},
		{"shoulder internal rotation", ShoulderInternalRotation, true},
		{"bicep curl", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseExercise(tc.input)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("ParseExercise(%q) = (%q, %v), want (%q, %v)",
				tc.input, got, ok, tc.want, tc.wantOK)
		}
	}
}

// TestExerciseJoints verifies the joint-triple table, including the side
// substitution and the vertex position.
func TestExerciseJoints(t *testing.T) {
	cases := []struct {
		exercise Exercise
		side     Side
		a, b, c  string
	}{
		{ShoulderFlexion, SideLeft, "left_hip", "left_shoulder", "left_elbow"},
		{ShoulderAbduction, SideRight, "right_hip", "right_shoulder", "right_elbow"},
		{ShoulderInternalRotation, SideLeft, "left_hip", "left_elbow", "left_wrist"},
		{ElbowFlexion, SideRight, "right_shoulder", "right_elbow", "right_wrist"},
		{ElbowExtension, SideLeft, "left_shoulder", "left_elbow", "left_wrist"},
		{KneeFlexion, SideLeft, "left_hip", "left_knee", "left_ankle"},
		{AnkleDorsiflexion, SideRight, "right_knee", "right_ankle", "right_foot_index"},
		{WristFlexion, SideLeft, "left_elbow", "left_wrist", "left_index_finger"},
	}
	for _, tc := range cases {
		a, b, c, ok := tc.exercise.Joints(tc.side)
		if !ok {
			t.Errorf("%s: Joints returned ok=false", tc.exercise)
			continue
		}
		if a != tc.a || b != tc.b || c != tc.c {
			t.Errorf("%s (%s): Joints = (%s, %s, %s), want (%s, %s, %s)",
				tc.exercise, tc.side, a, b, c, tc.a, tc.b, tc.c)
		}
	}
}

// TestExercisesCovered verifies every listed exercise has a joint mapping, so
// the dispatch table cannot silently drift from the catalog.
func TestExercisesCovered(t *testing.T) {
	for _, e := range Exercises() {
		if _, _, _, ok := e.Joints(SideLeft); !ok {
			t.Errorf("exercise %q has no joint mapping", e)
		}
	}
	if len(Exercises()) != len(exerciseJoints) {
		t.Errorf("catalog lists %d exercises, joint table has %d", len(Exercises()), len(exerciseJoints))
	}
}
