package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/claude/kinetik/internal/analysis"
	"github.com/claude/kinetik/internal/pose"
	"github.com/claude/kinetik/internal/storage"
)

// analyzeRequest is one frame submitted for analysis. Exactly one of Frame
// (base64-encoded image, estimated server-side) or Joints (pre-extracted
// named landmarks) must be set. State is the round-tripped session state;
// omit it on the first frame.
type analyzeRequest struct {
	Frame    string                 `json:"frame,omitempty"`
	Joints   analysis.JointFrame    `json:"joints,omitempty"`
	Exercise string                 `json:"exercise"`
	State    *analysis.SessionState `json:"state,omitempty"`
}

// analyzeResponse is the per-frame outcome plus the full landmark vector for
// client-side skeleton drawing (empty when joints were supplied directly).
type analyzeResponse struct {
	analysis.Outcome
	DrawingLandmarks []analysis.Landmark `json:"drawing_landmarks"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Frame == "" && req.Joints == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "frame or joints required"})
		return
	}

	state := analysis.NewSessionState()
	if req.State != nil {
		state = *req.State
	}

	exercise, ok := analysis.ParseExercise(req.Exercise)
	if !ok {
		writeJSON(w, http.StatusOK, degradedOutcome(state,
			fmt.Sprintf("Configuration not found for: %s", req.Exercise)))
		return
	}
	profile, ok := s.profiles.Lookup(exercise)
	if !ok {
		writeJSON(w, http.StatusOK, degradedOutcome(state,
			fmt.Sprintf("Configuration not found for: %s", req.Exercise)))
		return
	}

	frame := req.Joints
	var drawing []analysis.Landmark

	if frame == nil {
		image, err := decodeFrame(req.Frame)
		if err != nil {
			// Corrupt input short-circuits before the estimator.
			writeJSON(w, http.StatusOK, degradedOutcome(state, "Video stream data corrupted."))
			return
		}

		res, err := s.estimator.Estimate(r.Context(), image)
		if err != nil {
			if pose.IsTransient(err) {
				s.log.Warn("transient estimator failure", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]any{
					"error": "Transient analysis error. Please try again.", "retryable": true,
				})
				return
			}
			s.log.Error("estimator failure", "error", err)
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error": "Pose estimation failed.", "retryable": false,
			})
			return
		}
		if res != nil {
			frame = res.Joints
			drawing = res.Landmarks
		}
	}

	out := s.analyzer.Analyze(frame, exercise, state, profile)
	if drawing == nil {
		drawing = []analysis.Landmark{}
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Outcome: out, DrawingLandmarks: drawing})
}

// degradedOutcome builds the zeroed outcome returned when a frame cannot be
// analyzed at all: state passes through untouched, one warning explains why.
func degradedOutcome(state analysis.SessionState, msg string) analyzeResponse {
	return analyzeResponse{
		Outcome: analysis.Outcome{
			Reps:          state.Reps,
			Feedback:      []analysis.Feedback{{Type: analysis.SeverityWarning, Message: msg}},
			AccuracyScore: 0,
			State:         state,
			MinAngle:      state.DynamicMinAngle,
			MaxAngle:      state.DynamicMaxAngle,
			Side:          state.AnalysisSide,
		},
		DrawingLandmarks: []analysis.Landmark{},
	}
}

// decodeFrame decodes a base64 frame, tolerating a data-URI prefix
// ("data:image/jpeg;base64,...").
func decodeFrame(frame string) ([]byte, error) {
	if idx := strings.IndexByte(frame, ','); idx >= 0 {
		frame = frame[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(frame)
	if err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty frame")
	}
	return data, nil
}

// exerciseInfo is one catalog entry: the exercise plus its analysis profile.
type exerciseInfo struct {
	Name    string           `json:"name"`
	Profile analysis.Profile `json:"profile"`
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	catalog := make([]exerciseInfo, 0, len(s.profiles))
	for _, e := range analysis.Exercises() {
		profile, ok := s.profiles.Lookup(e)
		if !ok {
			continue
		}
		catalog = append(catalog, exerciseInfo{Name: string(e), Profile: profile})
	}
	writeJSON(w, http.StatusOK, catalog)
}

func (s *Server) handleListAilments(w http.ResponseWriter, r *http.Request) {
	ailments, err := s.plans.ListAilments(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if ailments == nil {
		ailments = []string{}
	}
	writeJSON(w, http.StatusOK, ailments)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	ailment := r.URL.Query().Get("ailment")
	if ailment == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ailment parameter required"})
		return
	}

	plan, err := s.plans.GetPlan(r.Context(), ailment)
	if errors.Is(err, storage.ErrNotFound) {
		available, listErr := s.plans.ListAilments(r.Context())
		if listErr != nil {
			s.log.Error("listing ailments", "error", listErr)
		}
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":     fmt.Sprintf("Exercise plan not found for %q.", ailment),
			"available": available,
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
