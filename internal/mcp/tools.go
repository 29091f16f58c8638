package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/claude/kinetik/internal/analysis"
	"github.com/claude/kinetik/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List all supported exercises with their nominal angle ranges, debounce interval, and calibration window."),
)

var toolGetExercisePlan = mcp.NewTool("get_exercise_plan",
	mcp.WithDescription("Retrieve the rehabilitation plan for an ailment. Returns prescribed exercises with target reps, sets, and rest intervals."),
	mcp.WithString("ailment", mcp.Required(), mcp.Description("Ailment name (e.g. 'shoulder injury', 'leg/knee injury')")),
)

var toolSimulateSession = mcp.NewTool("simulate_session",
	mcp.WithDescription("Run a joint-angle series through the rep-counting engine and return the final session outcome: reps, partial-rep buffer, calibrated range, and mean accuracy. Useful for tuning exercise profiles."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (e.g. 'shoulder flexion', 'elbow flexion')")),
	mcp.WithArray("angles", mcp.Required(),
		mcp.Description("Joint angles in degrees, one per frame, in playback order"),
		mcp.Items(map[string]any{"type": "number"}),
	),
	mcp.WithNumber("fps", mcp.Description("Frame rate the angle series was sampled at. Defaults to 10.")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(h.catalog())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExercisePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ailment, err := req.RequireString("ailment")
	if err != nil {
		return mcp.NewToolResultError("ailment parameter is required"), nil
	}

	plan, err := h.plans.GetPlan(ctx, ailment)
	if errors.Is(err, storage.ErrNotFound) {
		available, listErr := h.plans.ListAilments(ctx)
		if listErr != nil {
			h.log.Error("mcp get_exercise_plan: list ailments", "error", listErr)
			return mcp.NewToolResultError("no plan for ailment: " + ailment), nil
		}
		return mcp.NewToolResultError("no plan for ailment: " + ailment + " (available: " + strings.Join(available, ", ") + ")"), nil
	}
	if err != nil {
		h.log.Error("mcp get_exercise_plan", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(plan)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) simulateSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	exercise, ok := analysis.ParseExercise(name)
	if !ok {
		return mcp.NewToolResultError("unknown exercise: " + name), nil
	}
	profile, ok := h.profiles.Lookup(exercise)
	if !ok {
		return mcp.NewToolResultError("no profile configured for: " + name), nil
	}

	angles, err := floatSlice(req.GetArguments()["angles"])
	if err != nil {
		return mcp.NewToolResultError("angles must be an array of numbers"), nil
	}
	if len(angles) == 0 {
		return mcp.NewToolResultError("angles must not be empty"), nil
	}

	fps := req.GetFloat("fps", 10)
	if fps <= 0 {
		return mcp.NewToolResultError("fps must be positive"), nil
	}

	sim := runSimulation(h.log, exercise, profile, angles, fps)

	result, err := mcp.NewToolResultJSON(sim)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// floatSlice coerces a decoded JSON array into []float64.
func floatSlice(v any) ([]float64, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, errors.New("not an array")
	}
	out := make([]float64, 0, len(raw))
	for _, e := range raw {
		f, ok := e.(float64)
		if !ok {
			return nil, errors.New("not a number")
		}
		out = append(out, f)
	}
	return out, nil
}
