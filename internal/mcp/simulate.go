package mcp

import (
	"log/slog"
	"math"
	"time"

	"github.com/claude/kinetik/internal/analysis"
)

// simulationResult is the final session summary returned by simulate_session.
type simulationResult struct {
	Reps             int     `json:"reps"`
	PartialRepBuffer float64 `json:"partial_rep_buffer"`
	DynamicMinAngle  float64 `json:"dynamic_min_angle"`
	DynamicMaxAngle  float64 `json:"dynamic_max_angle"`
	MeanAccuracy     float64 `json:"mean_accuracy"`
	Frames           int     `json:"frames"`
}

// simClock is a deterministic time source advanced one frame interval at a
// time by the simulation loop.
type simClock struct {
	now time.Time
}

func (c *simClock) Now() time.Time { return c.now }

func (c *simClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// runSimulation replays an angle series through the rep-counting engine at
// the given frame rate and summarizes the final state. Frames still inside
// the calibration window are excluded from the accuracy mean; calibrated
// frames contribute their score even at the range bounds, where it is zero.
func runSimulation(log *slog.Logger, exercise analysis.Exercise, profile analysis.Profile, angles []float64, fps float64) simulationResult {
	// Starts well past the epoch so the zero LastRepTime in a fresh session
	// never debounces the first rep.
	clock := &simClock{now: time.Unix(1_700_000_000, 0)}
	an := analysis.New(log, analysis.WithClock(clock.Now))
	step := time.Duration(float64(time.Second) / fps)

	state := analysis.NewSessionState()
	var accuracySum float64
	var accuracyFrames int

	for _, angle := range angles {
		calibrated := state.Calibrated(profile.CalibrationFrames)
		out := an.Analyze(syntheticFrame(exercise, angle), exercise, state, profile)
		state = out.State
		if calibrated && out.AngleCoords != nil {
			accuracySum += out.AccuracyScore
			accuracyFrames++
		}
		clock.Advance(step)
	}

	res := simulationResult{
		Reps:             state.Reps,
		PartialRepBuffer: state.PartialRepBuffer,
		DynamicMinAngle:  state.DynamicMinAngle,
		DynamicMaxAngle:  state.DynamicMaxAngle,
		Frames:           len(angles),
	}
	if accuracyFrames > 0 {
		res.MeanAccuracy = math.Round(accuracySum/float64(accuracyFrames)*100) / 100
	}
	return res
}

// syntheticFrame builds a left-side joint frame whose tracked angle equals
// angleDeg: the vertex sits at the frame center with one segment straight up
// and the other rotated by the angle.
func syntheticFrame(exercise analysis.Exercise, angleDeg float64) analysis.JointFrame {
	aName, bName, cName, ok := exercise.Joints(analysis.SideLeft)
	if !ok {
		return nil
	}

	theta := angleDeg * math.Pi / 180
	frame := analysis.JointFrame{
		aName: {X: 0.5, Y: 0.3, Visibility: 0.95},
		bName: {X: 0.5, Y: 0.5, Visibility: 0.95},
		cName: {X: 0.5 + 0.2*math.Sin(theta), Y: 0.5 - 0.2*math.Cos(theta), Visibility: 0.95},
	}

	// Side selection reads shoulder and hip visibility even when neither is
	// part of the tracked triple.
	if _, ok := frame["left_shoulder"]; !ok {
		frame["left_shoulder"] = analysis.Landmark{X: 0.5, Y: 0.2, Visibility: 0.95}
	}
	if _, ok := frame["left_hip"]; !ok {
		frame["left_hip"] = analysis.Landmark{X: 0.5, Y: 0.8, Visibility: 0.95}
	}
	frame["right_shoulder"] = analysis.Landmark{X: 0.45, Y: 0.2, Visibility: 0.1}
	frame["right_hip"] = analysis.Landmark{X: 0.45, Y: 0.8, Visibility: 0.1}
	return frame
}
