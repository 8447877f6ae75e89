// Package importer loads an exported data directory into the database:
// the profile, the plan history and the feedback journals.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/claude/flexifit/internal/ingest/journal"
	"github.com/claude/flexifit/internal/models"
	"github.com/claude/flexifit/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	ProfileImported    bool
	PlansImported      int
	FeedbackReceived   int
	FeedbackInserted   int64
	FeedbackDuplicated int64
	FeedbackRejected   int
}

// Store is what the importer writes to. *storage.DB implements it.
type Store interface {
	UpsertProfile(ctx context.Context, userID int, p *models.UserProfile) error
	SavePlan(ctx context.Context, userID int, plan *models.WorkoutPlan, parentID string) error
	InsertFeedback(ctx context.Context, userID int, entries []models.UserFeedback) (int64, error)
}

var _ Store = (*storage.DB)(nil)

// Importer reads an export directory and inserts its data for one user.
type Importer struct {
	db      Store
	log     *slog.Logger
	userID  int
	dryRun  bool
	workers int
	stats   Stats
}

// New creates a new Importer.
func New(db Store, log *slog.Logger, userID int, dryRun bool) *Importer {
	return &Importer{db: db, log: log, userID: userID, dryRun: dryRun, workers: 4}
}

// Import processes profile.json, plans/ and feedback/ under dir. Each part
// is optional.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	if err := imp.importProfile(ctx, dir); err != nil {
		return &imp.stats, fmt.Errorf("importing profile: %w", err)
	}
	if err := imp.importPlans(ctx, filepath.Join(dir, "plans")); err != nil {
		return &imp.stats, fmt.Errorf("importing plans: %w", err)
	}
	if err := imp.importFeedback(ctx, filepath.Join(dir, "feedback")); err != nil {
		return &imp.stats, fmt.Errorf("importing feedback: %w", err)
	}
	return &imp.stats, nil
}

func (imp *Importer) importProfile(ctx context.Context, dir string) error {
	files, err := matching(dir, "profile", ".json")
	if err != nil || len(files) == 0 {
		return err
	}
	data, err := journal.ReadFile(files[0])
	if err != nil {
		imp.log.Warn("read failed", "file", files[0], "error", err)
		imp.stats.FilesErrored++
		return nil
	}
	var p models.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		imp.log.Warn("parse failed", "file", files[0], "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	imp.stats.FilesProcessed++
	imp.stats.ProfileImported = true
	if imp.dryRun {
		return nil
	}
	return imp.db.UpsertProfile(ctx, imp.userID, &p)
}

// importPlans stores plans oldest first, each linked to the previous one,
// so the newest ends up active. Ids that are not UUIDs are mapped to a
// stable name-based UUID so re-imports hit the same rows.
func (imp *Importer) importPlans(ctx context.Context, dir string) error {
	files, err := matching(dir, "", ".json")
	if err != nil {
		return err
	}

	var plans []*models.WorkoutPlan
	for _, f := range files {
		data, err := journal.ReadFile(f)
		if err != nil {
			imp.log.Warn("read failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}
		var p models.WorkoutPlan
		if err := json.Unmarshal(data, &p); err != nil {
			imp.log.Warn("parse failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}
		if p.ID == "" || len(p.Days) == 0 {
			imp.log.Warn("skipping plan without id or days", "file", f)
			imp.stats.FilesSkipped++
			continue
		}
		if _, err := uuid.Parse(p.ID); err != nil {
			p.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("flexifit:plan:"+p.ID)).String()
		}
		imp.stats.FilesProcessed++
		plans = append(plans, &p)
	}

	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].CreatedAt.Before(plans[j].CreatedAt)
	})

	parent := ""
	for _, p := range plans {
		if !imp.dryRun {
			if err := imp.db.SavePlan(ctx, imp.userID, p, parent); err != nil {
				return fmt.Errorf("saving plan %s: %w", p.ID, err)
			}
		}
		parent = p.ID
		imp.stats.PlansImported++
	}
	return nil
}

type parsedFile struct {
	path    string
	entries []journal.Entry
	err     error
}

// importFeedback decodes the journal files concurrently, then inserts them
// in file order.
func (imp *Importer) importFeedback(ctx context.Context, dir string) error {
	files, err := matching(dir, "", ".json", ".csv")
	if err != nil {
		return err
	}

	parsed := make([]parsedFile, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imp.workers)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed[i] = parseJournal(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, pf := range parsed {
		if pf.err != nil {
			imp.log.Warn("parse failed", "file", pf.path, "error", pf.err)
			imp.stats.FilesErrored++
			continue
		}
		if len(pf.entries) == 0 {
			imp.stats.FilesSkipped++
			continue
		}
		imp.stats.FilesProcessed++

		valid := make([]models.UserFeedback, 0, len(pf.entries))
		for _, e := range pf.entries {
			if e.Err != nil {
				imp.log.Debug("rejected feedback", "file", pf.path, "error", e.Err)
				imp.stats.FeedbackRejected++
				continue
			}
			valid = append(valid, e.Feedback)
		}
		imp.stats.FeedbackReceived += len(pf.entries)

		if imp.dryRun {
			imp.stats.FeedbackInserted += int64(len(valid))
			continue
		}
		if len(valid) == 0 {
			continue
		}
		inserted, err := imp.db.InsertFeedback(ctx, imp.userID, valid)
		if err != nil {
			return fmt.Errorf("inserting feedback from %s: %w", filepath.Base(pf.path), err)
		}
		imp.stats.FeedbackInserted += inserted
		imp.stats.FeedbackDuplicated += int64(len(valid)) - inserted
	}
	return nil
}

func parseJournal(path string) parsedFile {
	data, err := journal.ReadFile(path)
	if err != nil {
		return parsedFile{path: path, err: err}
	}
	entries, err := journal.Parse(path, bytes.NewReader(data))
	return parsedFile{path: path, entries: entries, err: err}
}

// matching lists files in dir whose base extension is one of exts, in
// name order. With a non-empty stem only stem+ext, optionally compressed,
// matches. A missing directory yields nothing.
func matching(dir, stem string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		ext := journal.BaseExt(name)
		if e.IsDir() || !slices.Contains(exts, ext) {
			continue
		}
		if stem != "" && journal.TrimCompression(name) != stem+ext {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

