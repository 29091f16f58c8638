package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/claude/kinetik/internal/analysis"
	"github.com/claude/kinetik/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

var testProfiles = storage.ProfileSet{
	analysis.ElbowFlexion: {MinAngle: 30, MaxAngle: 170, DebounceSeconds: 1.5, CalibrationFrames: 4},
}

type fakePlans struct {
	plan *storage.ExercisePlan
}

func (f *fakePlans) GetPlan(ctx context.Context, ailment string) (*storage.ExercisePlan, error) {
	if f.plan != nil && f.plan.Ailment == strings.ToLower(strings.TrimSpace(ailment)) {
		return f.plan, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakePlans) ListAilments(ctx context.Context) ([]string, error) {
	if f.plan == nil {
		return nil, nil
	}
	return []string{f.plan.Ailment}, nil
}

func testHandlers(plan *storage.ExercisePlan) *handlers {
	return &handlers{
		plans:    &fakePlans{plan: plan},
		profiles: testProfiles,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func callReq(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// resultText extracts the text payload from a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestSyntheticFrameAngle verifies the generated frame reproduces the
// requested joint angle for a representative set of angles.
func TestSyntheticFrameAngle(t *testing.T) {
	for _, want := range []float64{15, 45, 90, 135, 170} {
		frame := syntheticFrame(analysis.ElbowFlexion, want)
		a, b, c, ok := analysis.ElbowFlexion.Joints(analysis.SideLeft)
		if !ok {
			t.Fatal("elbow flexion joints not defined")
		}
		got := analysis.Angle(frame[a].Point(), frame[b].Point(), frame[c].Point())
		if math.Abs(got-want) > 0.01 {
			t.Errorf("angle = %.3f, want %.1f", got, want)
		}
	}
}

// TestRunSimulation replays a full-range angle series: four calibration
// frames learn the 30-170 range, the swing back to 170 scores a full rep
// with a legitimate zero accuracy at the range bound, and the final
// mid-range frame scores peak accuracy. The mean covers both calibrated
// frames.
func TestRunSimulation(t *testing.T) {
	profile := testProfiles[analysis.ElbowFlexion]
	angles := []float64{170, 30, 170, 30, 170, 100}

	res := runSimulation(nil, analysis.ElbowFlexion, profile, angles, 0.5)

	if res.Reps != 1 {
		t.Errorf("reps = %d, want 1", res.Reps)
	}
	if res.PartialRepBuffer != 0 {
		t.Errorf("buffer = %v, want 0", res.PartialRepBuffer)
	}
	if res.DynamicMinAngle != 30 || res.DynamicMaxAngle != 170 {
		t.Errorf("range = [%v, %v], want [30, 170]", res.DynamicMinAngle, res.DynamicMaxAngle)
	}
	if res.MeanAccuracy != 50 {
		t.Errorf("mean accuracy = %v, want 50", res.MeanAccuracy)
	}
	if res.Frames != len(angles) {
		t.Errorf("frames = %d, want %d", res.Frames, len(angles))
	}
}

// TestRunSimulationDebounce verifies that a high frame rate suppresses reps
// that land inside the debounce window.
func TestRunSimulationDebounce(t *testing.T) {
	profile := testProfiles[analysis.ElbowFlexion]
	// Two up-down cycles after calibration, 100ms apart at 10fps.
	angles := []float64{170, 30, 170, 30, 170, 30, 170}

	res := runSimulation(nil, analysis.ElbowFlexion, profile, angles, 10)

	if res.Reps != 1 {
		t.Errorf("reps = %d, want 1 (second rep inside debounce)", res.Reps)
	}
}

// TestSimulateSessionTool drives the tool handler end to end through the
// request argument plumbing.
func TestSimulateSessionTool(t *testing.T) {
	h := testHandlers(nil)
	req := callReq(map[string]any{
		"exercise": "elbow flexion",
		"angles":   []any{170.0, 30.0, 170.0, 30.0, 170.0, 100.0},
		"fps":      0.5,
	})

	res, err := h.simulateSession(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	var sim simulationResult
	if err := json.Unmarshal([]byte(resultText(t, res)), &sim); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if sim.Reps != 1 {
		t.Errorf("reps = %d, want 1", sim.Reps)
	}
}

// TestSimulateSessionToolErrors covers argument validation failure modes.
func TestSimulateSessionToolErrors(t *testing.T) {
	h := testHandlers(nil)
	cases := []struct {
		name string
		args map[string]any
	}{
		{"missing exercise", map[string]any{"angles": []any{90.0}}},
		{"unknown exercise", map[string]any{"exercise": "jumping jacks", "angles": []any{90.0}}},
		{"no profile", map[string]any{"exercise": "shoulder flexion", "angles": []any{90.0}}},
		{"empty angles", map[string]any{"exercise": "elbow flexion", "angles": []any{}}},
		{"non-numeric angles", map[string]any{"exercise": "elbow flexion", "angles": []any{"ninety"}}},
		{"bad fps", map[string]any{"exercise": "elbow flexion", "angles": []any{90.0}, "fps": -1.0}},
	}
	for _, tc := range cases {
		res, err := h.simulateSession(context.Background(), callReq(tc.args))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !res.IsError {
			t.Errorf("%s: expected tool error", tc.name)
		}
	}
}

// TestGetExercisePlanTool verifies plan lookup and the not-found message
// listing available ailments.
func TestGetExercisePlanTool(t *testing.T) {
	plan := &storage.ExercisePlan{
		Ailment:         "elbow injury",
		DifficultyLevel: "beginner",
		DurationWeeks:   4,
		Exercises:       []storage.PlanExercise{{Name: "elbow flexion", TargetReps: 10, Sets: 3, RestSeconds: 60}},
	}
	h := testHandlers(plan)

	res, err := h.getExercisePlan(context.Background(), callReq(map[string]any{"ailment": "Elbow Injury"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	var got storage.ExercisePlan
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("unmarshal plan: %v", err)
	}
	if got.Ailment != "elbow injury" || len(got.Exercises) != 1 {
		t.Errorf("plan = %+v, want elbow injury with 1 exercise", got)
	}

	res, err = h.getExercisePlan(context.Background(), callReq(map[string]any{"ailment": "neck injury"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for unknown ailment")
	}
	if text := resultText(t, res); !strings.Contains(text, "elbow injury") {
		t.Errorf("not-found message = %q, want available ailments listed", text)
	}
}

// TestListExercisesTool verifies the catalog only includes exercises with a
// configured profile.
func TestListExercisesTool(t *testing.T) {
	h := testHandlers(nil)

	res, err := h.listExercises(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var entries []catalogEntry
	if err := json.Unmarshal([]byte(resultText(t, res)), &entries); err != nil {
		t.Fatalf("unmarshal catalog: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "elbow flexion" {
		t.Errorf("catalog = %+v, want only elbow flexion", entries)
	}
}

// TestExerciseCatalogResource verifies the resource handler returns the
// catalog as JSON with the request URI echoed back.
func TestExerciseCatalogResource(t *testing.T) {
	h := testHandlers(nil)
	var req mcp.ReadResourceRequest
	req.Params.URI = "kinetik://exercise_catalog"

	contents, err := h.exerciseCatalog(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d items, want 1", len(contents))
	}
	trc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents type = %T, want TextResourceContents", contents[0])
	}
	if trc.URI != "kinetik://exercise_catalog" || trc.MIMEType != "application/json" {
		t.Errorf("uri/mime = %q/%q", trc.URI, trc.MIMEType)
	}
	if !strings.Contains(trc.Text, "elbow flexion") {
		t.Errorf("catalog text = %q, want elbow flexion entry", trc.Text)
	}
}
