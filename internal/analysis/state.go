package analysis

// Stage is the rep state machine position: "down" at the starting position,
// "up" in the contracted position.
type Stage string

const (
	StageDown Stage = "down"
	StageUp   Stage = "up"
)

// Side is the tracked body side. Empty means not yet selected.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// SessionState is the per-session analysis state. It is owned by the caller
// and round-tripped on every frame; the analyzer never retains it between
// calls.
type SessionState struct {
	Reps  int   `json:"reps"`
	Stage Stage `json:"stage"`

	// LastRepTime is the unix time (seconds) the last rep was accepted,
	// used for debounce. Zero until the first rep.
	LastRepTime float64 `json:"last_rep_time"`

	// Calibrated motion range, learned from observed extremes. The inverted
	// defaults (180/0) guarantee the first valid angle initializes both.
	DynamicMinAngle float64 `json:"dynamic_min_angle"`
	DynamicMaxAngle float64 `json:"dynamic_max_angle"`

	// FrameCount is the number of calibration frames observed. It only
	// advances while Reps == 0.
	FrameCount int `json:"frame_count"`

	// PartialRepBuffer accumulates fractional rep credit in [0,1); whole
	// parts are folded into Reps the frame they appear.
	PartialRepBuffer float64 `json:"partial_rep_buffer"`

	// AnalysisSide is sticky: once selected it is never re-evaluated for
	// the rest of the session.
	AnalysisSide Side `json:"analysis_side,omitempty"`
}

// NewSessionState returns the default state for the first frame of an
// exercise attempt.
func NewSessionState() SessionState {
	return SessionState{
		Stage:           StageDown,
		DynamicMinAngle: 180,
		DynamicMaxAngle: 0,
	}
}

// Normalize fills zero-valued calibration bounds with their defaults. Clients
// that serialize a fresh state as all-zero JSON would otherwise start with a
// collapsed range.
func (s *SessionState) Normalize() {
	if s.Stage == "" {
		s.Stage = StageDown
	}
	if s.DynamicMinAngle == 0 && s.DynamicMaxAngle == 0 && s.FrameCount == 0 && s.Reps == 0 {
		s.DynamicMinAngle = 180
	}
}

// Calibrated reports whether enough range data exists for rep detection.
func (s SessionState) Calibrated(calibrationFrames int) bool {
	return s.FrameCount >= calibrationFrames || s.Reps > 0
}
