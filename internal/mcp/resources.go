package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/flexifit/internal/storage"
)

func (h *handlers) activePlan(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	plan, err := h.ds.GetActivePlan(ctx, UserIDFromContext(ctx))
	if errors.Is(err, storage.ErrNotFound) {
		return textContents(req, map[string]any{"active_plan": nil})
	}
	if err != nil {
		return nil, err
	}
	return textContents(req, plan)
}

func (h *handlers) recentFeedback(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -14)

	fb, err := h.ds.QueryFeedback(ctx, UserIDFromContext(ctx), start, end)
	if err != nil {
		return nil, err
	}
	return textContents(req, fb)
}

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return textContents(req, catalogByFocus("", ""))
}

func textContents(req mcp.ReadResourceRequest, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
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
