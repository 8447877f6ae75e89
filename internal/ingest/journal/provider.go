package journal

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/flexifit/internal/ingest"
	"github.com/claude/flexifit/internal/models"
)

// Store receives validated feedback. *storage.DB implements it; the
// package does not import storage so the uploader can parse journals
// without the server dependencies.
type Store interface {
	InsertFeedback(ctx context.Context, userID int, entries []models.UserFeedback) (int64, error)
}

// Provider ingests feedback journals.
type Provider struct {
	db  Store
	log *slog.Logger
}

// NewProvider creates a new journal ingest provider.
func NewProvider(db Store, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// IngestJSON parses a JSON batch and stores the valid entries.
func (p *Provider) IngestJSON(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	entries, err := ParseJSON(r)
	if err != nil {
		return nil, err
	}
	return p.Store(ctx, entries, userID)
}

// IngestCSV parses a CSV journal and stores the valid entries.
func (p *Provider) IngestCSV(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	entries, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	return p.Store(ctx, entries, userID)
}

// Store inserts the entries without a parse error. Rejected entries are
// counted and reported, they do not fail the batch. Duplicates already
// stored count as skipped.
func (p *Provider) Store(ctx context.Context, entries []Entry, userID int) (*ingest.Result, error) {
	result := &ingest.Result{Received: len(entries)}
	valid := make([]models.UserFeedback, 0, len(entries))
	for i, e := range entries {
		if e.Err != nil {
			reason := e.Err.Error()
			if e.Line == 0 {
				reason = fmt.Sprintf("entry %d: %s", i, reason)
			}
			result.Reject(reason)
			continue
		}
		valid = append(valid, e.Feedback)
	}

	if len(valid) > 0 {
		inserted, err := p.db.InsertFeedback(ctx, userID, valid)
		if err != nil {
			return nil, fmt.Errorf("inserting feedback: %w", err)
		}
		result.Inserted = inserted
		result.Skipped = int64(len(valid)) - inserted
	}

	p.log.Info("feedback ingested",
		"user_id", userID,
		"received", result.Received,
		"inserted", result.Inserted,
		"skipped", result.Skipped,
		"rejected", result.Rejected)
	return result, nil
}
