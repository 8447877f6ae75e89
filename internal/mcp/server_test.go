package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/flexifit/internal/adjuster"
	"github.com/claude/flexifit/internal/engine"
	"github.com/claude/flexifit/internal/models"
	"github.com/claude/flexifit/internal/planner"
	"github.com/claude/flexifit/internal/storage"
)

// TestUserIDFromContextDefault verifies the default user ID (1) when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != 1 {
		t.Errorf("UserIDFromContext(empty) = %d, want 1", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

// TestDefaultTimeRange verifies time range defaults (last 14 days) and parsing.
func TestDefaultTimeRange(t *testing.T) {
	start, end, err := defaultTimeRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := end.Sub(start); diff.Hours() < 335 || diff.Hours() > 337 {
		t.Errorf("default range = %.0f hours, want ~336", diff.Hours())
	}

	start, end, err = defaultTimeRange("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Day() != 1 || end.Day() != 31 {
		t.Errorf("range = %v - %v, want 2024-01-01 - 2024-01-31", start, end)
	}

	start, _, err = defaultTimeRange("2024-06-15T10:30:00Z", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 10 || start.Minute() != 30 {
		t.Errorf("start = %v, want 10:30", start)
	}

	if _, _, err = defaultTimeRange("not-a-date", ""); err == nil {
		t.Error("expected error for invalid date")
	}
}

type fakeSource struct {
	plan     *storage.StoredPlan
	adaptErr error
	gotUser  int
	trigger  string
}

func (f *fakeSource) GetActivePlan(_ context.Context, userID int) (*storage.StoredPlan, error) {
	f.gotUser = userID
	if f.plan == nil {
		return nil, fmt.Errorf("querying active plan: %w", storage.ErrNotFound)
	}
	return f.plan, nil
}

func (f *fakeSource) ListPlans(context.Context, int, int) ([]storage.StoredPlan, error) {
	return nil, nil
}

func (f *fakeSource) QueryFeedback(context.Context, int, time.Time, time.Time) ([]models.UserFeedback, error) {
	return []models.UserFeedback{{ExerciseID: "1-0", Difficulty: 4}}, nil
}

func (f *fakeSource) ListAdaptations(context.Context, int, int) ([]storage.Adaptation, error) {
	return nil, nil
}

func (f *fakeSource) Analyze(context.Context, int) (*engine.Analysis, error) {
	return &engine.Analysis{}, nil
}

func (f *fakeSource) Adapt(_ context.Context, userID int, trigger string) (*planner.Result, error) {
	f.gotUser, f.trigger = userID, trigger
	if f.adaptErr != nil {
		return nil, f.adaptErr
	}
	return &planner.Result{AdaptationID: 3, Outcome: &engine.Outcome{Plan: &models.WorkoutPlan{ID: "new"}}}, nil
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestGetActivePlanTool reports a missing plan as text, not an error.
func TestGetActivePlanTool(t *testing.T) {
	src := &fakeSource{}
	h := &handlers{ds: src, log: slog.New(slog.DiscardHandler)}
	ctx := WithUserID(context.Background(), 5)

	res, err := h.getActivePlan(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError || src.gotUser != 5 {
		t.Errorf("IsError = %v user = %d, want false 5", res.IsError, src.gotUser)
	}

	src.plan = &storage.StoredPlan{WorkoutPlan: models.WorkoutPlan{ID: "p1"}}
	res, _ = h.getActivePlan(ctx, mcp.CallToolRequest{})
	var got storage.StoredPlan
	if err := json.Unmarshal([]byte(text(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "p1" {
		t.Errorf("plan id = %q, want p1", got.ID)
	}
}

// TestAdaptPlanTool tags the run as mcp and reports a missing plan as a tool error.
func TestAdaptPlanTool(t *testing.T) {
	src := &fakeSource{}
	h := &handlers{ds: src, log: slog.New(slog.DiscardHandler)}

	res, err := h.adaptPlan(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError || src.trigger != "mcp" {
		t.Errorf("IsError = %v trigger = %q", res.IsError, src.trigger)
	}

	src.adaptErr = fmt.Errorf("adapting plan for user 1: %w", adjuster.ErrNoCurrentPlan)
	res, _ = h.adaptPlan(context.Background(), mcp.CallToolRequest{})
	if !res.IsError {
		t.Error("IsError = false, want true without a plan")
	}
}

// TestExerciseCatalogTool filters by focus and rejects unknown labels.
func TestExerciseCatalogTool(t *testing.T) {
	h := &handlers{ds: &fakeSource{}, log: slog.New(slog.DiscardHandler)}

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"focus": "core", "level": "beginner"}
	res, err := h.getExerciseCatalog(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string][]json.RawMessage
	if err := json.Unmarshal([]byte(text(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || len(got["Core"]) == 0 {
		t.Errorf("catalog keys = %d, Core entries = %d", len(got), len(got["Core"]))
	}

	req.Params.Arguments = map[string]any{"focus": "juggling"}
	res, _ = h.getExerciseCatalog(context.Background(), req)
	if !res.IsError {
		t.Error("unknown focus accepted")
	}
}

// TestNewRegistersTools builds the server against a fake source.
func TestNewRegistersTools(t *testing.T) {
	s := New(&fakeSource{}, "test", slog.New(slog.DiscardHandler))
	if s == nil {
		t.Fatal("New returned nil")
	}
}
