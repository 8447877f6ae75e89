package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/claude/flexifit/internal/ingest"
	"github.com/claude/flexifit/internal/storage"
)

// maxJournal bounds uploaded feedback journals.
const maxJournal = 32 << 20

func (s *Server) handleIngestJSON(w http.ResponseWriter, r *http.Request) {
	s.ingest(w, r, "json", s.feedback.IngestJSON)
}

func (s *Server) handleIngestCSV(w http.ResponseWriter, r *http.Request) {
	s.ingest(w, r, "csv", s.feedback.IngestCSV)
}

type ingestFunc func(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error)

func (s *Server) ingest(w http.ResponseWriter, r *http.Request, source string, fn ingestFunc) {
	uid := userIDFromContext(r)
	start := time.Now()

	result, err := fn(r.Context(), http.MaxBytesReader(w, r.Body, maxJournal), uid)
	s.logImport(uid, source, result, err, int(time.Since(start).Milliseconds()))
	if err != nil {
		s.log.Warn("feedback ingest failed", "source", source, "user_id", uid, "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// logImport records an ingest to the import_logs table.
func (s *Server) logImport(uid int, source string, result *ingest.Result, importErr error, durationMs int) {
	status := "success"
	var errMsg *string
	if importErr != nil {
		status = "error"
		msg := importErr.Error()
		errMsg = &msg
	}
	if result == nil {
		result = &ingest.Result{}
	}

	log := storage.ImportLog{
		UserID:           uid,
		Source:           source,
		Status:           status,
		FeedbackReceived: result.Received,
		FeedbackInserted: result.Inserted,
		DurationMs:       &durationMs,
		ErrorMessage:     errMsg,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := s.db.InsertImportLog(ctx, log); err != nil {
		s.log.Error("failed to log import", "source", source, "error", err)
	}
}
