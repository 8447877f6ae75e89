package mcp

import (
	"context"
	"time"

	"github.com/claude/flexifit/internal/engine"
	"github.com/claude/flexifit/internal/models"
	"github.com/claude/flexifit/internal/planner"
	"github.com/claude/flexifit/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Local (database plus
// planner) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	GetActivePlan(ctx context.Context, userID int) (*storage.StoredPlan, error)
	ListPlans(ctx context.Context, userID, limit int) ([]storage.StoredPlan, error)
	QueryFeedback(ctx context.Context, userID int, start, end time.Time) ([]models.UserFeedback, error)
	ListAdaptations(ctx context.Context, userID, limit int) ([]storage.Adaptation, error)
	Analyze(ctx context.Context, userID int) (*engine.Analysis, error)
	Adapt(ctx context.Context, userID int, trigger string) (*planner.Result, error)
}

// Local serves MCP from the server's own database and planner.
type Local struct {
	*storage.DB
	*planner.Planner
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = Local{}
