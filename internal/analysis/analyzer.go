package analysis

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
)

// Offsets from the calibrated extremes defining the full and partial rep
// bands, in degrees.
const (
	fullBandOffset    = 5.0
	partialBandOffset = 20.0
)

// AngleCoords holds the three points the tracked angle was computed from,
// for client-side overlay drawing.
type AngleCoords struct {
	A Point `json:"a"`
	B Point `json:"b"`
	C Point `json:"c"`
}

// Outcome is the per-frame analysis result returned to the caller. State
// must be round-tripped back in on the next frame.
type Outcome struct {
	Reps          int          `json:"reps"`
	Feedback      []Feedback   `json:"feedback"`
	AccuracyScore float64      `json:"accuracy_score"`
	State         SessionState `json:"state"`
	CurrentAngle  float64      `json:"current_angle"`
	AngleCoords   *AngleCoords `json:"angle_coords,omitempty"`
	MinAngle      float64      `json:"min_angle"`
	MaxAngle      float64      `json:"max_angle"`
	Side          Side         `json:"side,omitempty"`
}

// Analyzer runs the per-frame rep counting state machine. It is pure
// computation: no I/O, no internal concurrency, no state retained between
// calls.
type Analyzer struct {
	clock func() time.Time
	log   *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock overrides the time source used for rep debouncing. Replay and
// tests inject deterministic clocks here.
func WithClock(fn func() time.Time) Option {
	return func(a *Analyzer) { a.clock = fn }
}

// New creates an Analyzer.
func New(log *slog.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{clock: time.Now, log: log}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze processes one frame of joint positions for the given exercise,
// advancing the session state. frame may be nil when the pose estimator found
// no body this frame. The returned Outcome always carries at least one
// feedback message.
func (an *Analyzer) Analyze(frame JointFrame, exercise Exercise, prior SessionState, profile Profile) Outcome {
	state := prior
	state.Normalize()
	var fb feedbackList

	if frame == nil {
		fb.warn("No pose detected. Adjust camera view.")
		return an.outcome(state, fb, 0, 0, nil)
	}

	// Side selection is sticky: computed once, reused for the session.
	if state.AnalysisSide == "" {
		side, ok := SelectSide(frame)
		if !ok {
			fb.warn("Please turn sideways or expose one full side to the camera.")
			return an.outcome(state, fb, 0, 0, nil)
		}
		state.AnalysisSide = side
	}

	aName, bName, cName, ok := exercise.Joints(state.AnalysisSide)
	if !ok {
		fb.warn(fmt.Sprintf("Unknown exercise: %q.", string(exercise)))
		return an.outcome(state, fb, 0, 0, nil)
	}

	la, lb, lc, badJoint := resolveJoints(frame, aName, bName, cName)
	if badJoint != "" {
		fb.warn(fmt.Sprintf("Cannot see your %s clearly. Adjust camera or lighting.",
			strings.ReplaceAll(badJoint, "_", " ")))
		return an.outcome(state, fb, 0, 0, nil)
	}

	angle := Angle(la.Point(), lb.Point(), lc.Point())
	coords := &AngleCoords{A: la.Point(), B: lb.Point(), C: lc.Point()}
	var accuracy float64

	// Calibration: learn the patient's achievable extremes from the first
	// N valid frames. Stops for good once a rep has been scored, even if
	// fewer than N frames were observed; recalibrating mid-set would move
	// the rep thresholds between reps.
	if state.FrameCount < profile.CalibrationFrames && state.Reps == 0 {
		state.DynamicMaxAngle = math.Max(state.DynamicMaxAngle, angle)
		state.DynamicMinAngle = math.Min(state.DynamicMinAngle, angle)
		state.FrameCount++
		fb.progress(fmt.Sprintf("Calibrating range (%d/%d). Move fully from start to finish position.",
			state.FrameCount, profile.CalibrationFrames))
	}

	// Rep detection runs on the same frame calibration completes.
	if state.Calibrated(profile.CalibrationFrames) {
		lo, hi := state.DynamicMinAngle, state.DynamicMaxAngle
		fullLo, fullHi := lo+fullBandOffset, hi-fullBandOffset
		partialLo, partialHi := lo+partialBandOffset, hi-partialBandOffset
		accuracy = AccuracyScore(angle, lo, hi)

		if angle < partialLo {
			state.Stage = StageUp
			if angle < fullLo {
				fb.instruct("Hold the contracted position at the top!")
			} else {
				fb.instruct("Go deeper for a full rep.")
			}
		}

		if angle > partialHi && state.Stage == StageUp {
			now := unixSeconds(an.clock())
			if now-state.LastRepTime <= profile.DebounceSeconds {
				fb.warn("Slow down! Ensure a controlled return.")
			} else {
				amount, msg := 0.5, "Partial rep (50%) counted. Complete the full movement."
				if angle > fullHi {
					amount, msg = 1.0, "Full rep completed! Well done."
				}
				state.Stage = StageDown
				state.PartialRepBuffer += amount
				state.LastRepTime = now
				if state.PartialRepBuffer >= 1.0 {
					state.Reps += int(state.PartialRepBuffer)
					state.PartialRepBuffer = math.Mod(state.PartialRepBuffer, 1.0)
				}
				fb.encourage(fmt.Sprintf("%s Total reps: %d", msg, state.Reps))
			}
		}

		// Ambient status, suppressed whenever something more important
		// was already said this frame.
		if !fb.hasPriority() {
			switch {
			case state.Stage == StageUp && angle > fullLo:
				fb.progress("Push further to the maximum range.")
			case state.Stage == StageDown && angle < fullHi:
				fb.progress("Return fully to the starting position.")
			case state.Stage == StageDown:
				fb.progress("Ready to start the next rep.")
			default:
				fb.progress("Controlled movement upward.")
			}
		}
	}

	return an.outcome(state, fb, angle, accuracy, coords)
}

func (an *Analyzer) outcome(state SessionState, fb feedbackList, angle, accuracy float64, coords *AngleCoords) Outcome {
	if len(fb) == 0 {
		fb.progress("Processing...")
	}
	if an.log != nil {
		an.log.Debug("frame analyzed",
			"side", state.AnalysisSide,
			"angle", round1(angle),
			"reps", state.Reps,
			"stage", state.Stage,
		)
	}
	return Outcome{
		Reps:          state.Reps,
		Feedback:      fb,
		AccuracyScore: round2(accuracy),
		State:         state,
		CurrentAngle:  round1(angle),
		AngleCoords:   coords,
		MinAngle:      round1(state.DynamicMinAngle),
		MaxAngle:      round1(state.DynamicMaxAngle),
		Side:          state.AnalysisSide,
	}
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
