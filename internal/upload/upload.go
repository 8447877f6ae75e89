// Package upload sends feedback journal files from a local directory to
// the FlexiFit server, remembering what was already sent.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/claude/flexifit/internal/ingest"
	"github.com/claude/flexifit/internal/ingest/journal"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	EntriesSent      int
	EntriesInserted  int64
	EntriesDuplicate int64
	EntriesRejected  int
}

// Sender delivers one journal. *Client implements it.
type Sender interface {
	SendJournal(ctx context.Context, format string, data []byte) (*ingest.Result, error)
}

// Uploader walks a journal directory and POSTs new or changed files.
type Uploader struct {
	client Sender
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader. client may be nil in dry-run mode.
func New(client Sender, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{client: client, state: state, dir: dir, dryRun: dryRun, log: log}
}

// Run uploads every journal under the directory. Files that fail are
// counted, left unmarked and retried on the next run. Cancelling ctx stops
// the walk.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	err := filepath.WalkDir(u.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !journal.IsJournal(d.Name()) {
			return nil
		}
		return u.processFile(ctx, path, d)
	})
	if err != nil {
		return &u.stats, fmt.Errorf("walking %s: %w", u.dir, err)
	}
	return &u.stats, nil
}

func (u *Uploader) processFile(ctx context.Context, path string, d fs.DirEntry) error {
	u.stats.FilesTotal++

	relPath, _ := filepath.Rel(u.dir, path)
	info, err := d.Info()
	if err != nil {
		u.log.Warn("stat failed", "file", relPath, "error", err)
		u.stats.FilesErrored++
		return nil
	}

	uploaded, err := u.state.IsUploaded(relPath, info.Size(), info.ModTime())
	if err != nil {
		u.log.Warn("state check failed", "file", relPath, "error", err)
		u.stats.FilesErrored++
		return nil
	}
	if uploaded {
		u.stats.FilesSkipped++
		return nil
	}

	data, err := journal.ReadFile(path)
	if err != nil {
		u.log.Warn("read failed", "file", relPath, "error", err)
		u.stats.FilesErrored++
		return nil
	}

	format := FormatJSON
	if journal.BaseExt(path) == ".csv" {
		format = FormatCSV
	}

	if u.dryRun {
		entries, err := journal.Parse(path, bytes.NewReader(data))
		if err != nil {
			u.log.Warn("parse failed", "file", relPath, "error", err)
			u.stats.FilesErrored++
			return nil
		}
		u.log.Info("dry-run: would send", "file", relPath, "entries", len(entries))
		u.stats.EntriesSent += len(entries)
		u.stats.FilesUploaded++
		return nil
	}

	res, err := u.client.SendJournal(ctx, format, data)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		u.log.Warn("upload failed", "file", relPath, "error", err)
		u.stats.FilesErrored++
		return nil
	}

	u.stats.EntriesSent += res.Received
	u.stats.EntriesInserted += res.Inserted
	u.stats.EntriesDuplicate += res.Skipped
	u.stats.EntriesRejected += res.Rejected
	if res.Rejected > 0 {
		u.log.Warn("server rejected entries", "file", relPath, "rejected", res.Rejected, "errors", res.Errors)
	}

	if err := u.state.MarkUploaded(relPath, info.Size(), info.ModTime(), res.Inserted); err != nil {
		u.log.Warn("failed to mark uploaded", "file", relPath, "error", err)
	}
	u.stats.FilesUploaded++
	u.log.Info("uploaded journal", "file", relPath, "received", res.Received, "inserted", res.Inserted)
	return nil
}
