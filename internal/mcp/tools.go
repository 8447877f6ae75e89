package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/flexifit/internal/adjuster"
	"github.com/claude/flexifit/internal/catalog"
	"github.com/claude/flexifit/internal/storage"
)

// defaultTimeRange returns start/end defaulting to the last 14 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -14)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetActivePlan = mcp.NewTool("get_active_plan",
	mcp.WithDescription("Return the user's current workout plan: days, focus per day and exercises with sets, reps, duration, rest and intensity."),
)

var toolGetPlanHistory = mcp.NewTool("get_plan_history",
	mcp.WithDescription("List the user's plans, newest first. Each adapted plan links to the plan it was derived from via parent_id."),
	mcp.WithNumber("limit", mcp.Description("Maximum plans to return. Defaults to 10.")),
)

var toolGetFeedback = mcp.NewTool("get_feedback",
	mcp.WithDescription("Retrieve exercise feedback entries. Each entry rates difficulty, fatigue and enjoyment on a 1-5 scale."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 14 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolAnalyzeProgress = mcp.NewTool("analyze_progress",
	mcp.WithDescription("Analyze recent feedback without changing the plan. Returns performance trends, fatigue and engagement levels, the progression level and problematic exercises."),
)

var toolAdaptPlan = mcp.NewTool("adapt_plan",
	mcp.WithDescription("Adapt the active plan to recent feedback and store the result as the new active plan. Returns the new plan and a summary of the changes."),
)

var toolGetAdaptations = mcp.NewTool("get_adaptations",
	mcp.WithDescription("List past plan adaptations with their progression level and change summary, newest first."),
	mcp.WithNumber("limit", mcp.Description("Maximum entries to return. Defaults to 10.")),
)

var toolGetExerciseCatalog = mcp.NewTool("get_exercise_catalog",
	mcp.WithDescription("List catalog exercises. Filter by workout focus and experience level."),
	mcp.WithString("focus", mcp.Description("Workout focus (e.g. 'Upper Body', 'Lower Body', 'Core', 'Cardio', 'Full Body'). Defaults to all.")),
	mcp.WithString("level", mcp.Description("Experience level; exercises above it are left out."), mcp.Enum("beginner", "intermediate", "advanced")),
)

// --- Tool handlers ---

func (h *handlers) getActivePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, err := h.ds.GetActivePlan(ctx, UserIDFromContext(ctx))
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultText("No active plan. Use adapt_plan to generate one."), nil
	}
	if err != nil {
		h.log.Error("mcp get_active_plan", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(plan)
}

func (h *handlers) getPlanHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)
	plans, err := h.ds.ListPlans(ctx, UserIDFromContext(ctx), limit)
	if err != nil {
		h.log.Error("mcp get_plan_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(plans)
}

func (h *handlers) getFeedback(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	fb, err := h.ds.QueryFeedback(ctx, UserIDFromContext(ctx), start, end)
	if err != nil {
		h.log.Error("mcp get_feedback", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(fb)
}

func (h *handlers) analyzeProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := h.ds.Analyze(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp analyze_progress", "error", err)
		return mcp.NewToolResultError("analysis failed: " + err.Error()), nil
	}
	return jsonResult(a)
}

func (h *handlers) adaptPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := h.ds.Adapt(ctx, UserIDFromContext(ctx), "mcp")
	if errors.Is(err, adjuster.ErrNoCurrentPlan) {
		return mcp.NewToolResultError("no active plan to adapt and plan generation is disabled"), nil
	}
	if err != nil {
		h.log.Error("mcp adapt_plan", "error", err)
		return mcp.NewToolResultError("adaptation failed: " + err.Error()), nil
	}
	return jsonResult(res)
}

func (h *handlers) getAdaptations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := h.ds.ListAdaptations(ctx, UserIDFromContext(ctx), req.GetInt("limit", 10))
	if err != nil {
		h.log.Error("mcp get_adaptations", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(list)
}

func (h *handlers) getExerciseCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	focus := req.GetString("focus", "")
	if focus != "" {
		if _, ok := catalog.CanonicalFocus(focus); !ok {
			return mcp.NewToolResultError("unknown focus " + focus), nil
		}
	}
	return jsonResult(catalogByFocus(focus, req.GetString("level", "")))
}

// catalogByFocus groups catalog exercises by focus. An empty focus or
// level means all.
func catalogByFocus(focus, level string) map[string][]catalog.Template {
	focuses := catalog.Focuses()
	if focus != "" {
		f, _ := catalog.CanonicalFocus(focus)
		focuses = []string{f}
	}
	out := make(map[string][]catalog.Template, len(focuses))
	for _, f := range focuses {
		ts := catalog.ForFocus(f)
		if level != "" {
			ts = catalog.ForLevel(ts, level)
		}
		out[f] = ts
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
