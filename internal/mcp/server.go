package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FlexiFit", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FlexiFit adaptive workout plans. Read the active plan, feedback history and progress analysis, and trigger a plan adaptation. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetActivePlan, Handler: h.getActivePlan},
		server.ServerTool{Tool: toolGetPlanHistory, Handler: h.getPlanHistory},
		server.ServerTool{Tool: toolGetFeedback, Handler: h.getFeedback},
		server.ServerTool{Tool: toolAnalyzeProgress, Handler: h.analyzeProgress},
		server.ServerTool{Tool: toolAdaptPlan, Handler: h.adaptPlan},
		server.ServerTool{Tool: toolGetAdaptations, Handler: h.getAdaptations},
		server.ServerTool{Tool: toolGetExerciseCatalog, Handler: h.getExerciseCatalog},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resActivePlan, Handler: h.activePlan},
		server.ServerResource{Resource: resRecentFeedback, Handler: h.recentFeedback},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resActivePlan = mcp.NewResource(
	"flexifit://active_plan",
	"Active Plan",
	mcp.WithResourceDescription("The user's current workout plan with all days and exercises"),
	mcp.WithMIMEType("application/json"),
)

var resRecentFeedback = mcp.NewResource(
	"flexifit://recent_feedback",
	"Recent Feedback",
	mcp.WithResourceDescription("Exercise feedback (difficulty, fatigue, enjoyment) from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"flexifit://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Catalog exercises grouped by workout focus"),
	mcp.WithMIMEType("application/json"),
)
