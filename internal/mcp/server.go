package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/claude/kinetik/internal/analysis"
	"github.com/claude/kinetik/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// PlanStore is the slice of the storage layer the MCP handlers use.
type PlanStore interface {
	GetPlan(ctx context.Context, ailment string) (*storage.ExercisePlan, error)
	ListAilments(ctx context.Context) ([]string, error)
}

// Compile-time check: the Postgres store satisfies PlanStore.
var _ PlanStore = (*storage.DB)(nil)

// New creates an MCP server with all tools and resources registered.
func New(plans PlanStore, profiles storage.ProfileSet, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Kinetik", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Kinetik physiotherapy exercise server. Browse the exercise catalog and rehabilitation plans, or simulate a rep-counting session from a joint-angle series."),
	)

	h := &handlers{plans: plans, profiles: profiles, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetExercisePlan, Handler: h.getExercisePlan},
		server.ServerTool{Tool: toolSimulateSession, Handler: h.simulateSession},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	plans    PlanStore
	profiles storage.ProfileSet
	log      *slog.Logger
}

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"kinetik://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All supported exercises with their nominal angle ranges and tracking parameters"),
	mcp.WithMIMEType("application/json"),
)

// catalogEntry mirrors the REST exercise listing shape.
type catalogEntry struct {
	Name    string           `json:"name"`
	Profile analysis.Profile `json:"profile"`
}

func (h *handlers) catalog() []catalogEntry {
	var entries []catalogEntry
	for _, e := range analysis.Exercises() {
		p, ok := h.profiles.Lookup(e)
		if !ok {
			continue
		}
		entries = append(entries, catalogEntry{Name: string(e), Profile: p})
	}
	return entries
}

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(h.catalog())
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
