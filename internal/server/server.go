package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/claude/flexifit/internal/engine"
	"github.com/claude/flexifit/internal/ingest/journal"
	"github.com/claude/flexifit/internal/models"
	"github.com/claude/flexifit/internal/planner"
	"github.com/claude/flexifit/internal/storage"
)

// Store is the read side of the API plus user and import log bookkeeping.
// *storage.DB implements it.
type Store interface {
	UserResolver
	GetProfile(ctx context.Context, userID int) (*models.UserProfile, error)
	UpsertProfile(ctx context.Context, userID int, p *models.UserProfile) error
	GetActivePlan(ctx context.Context, userID int) (*storage.StoredPlan, error)
	GetPlan(ctx context.Context, id string, userID int) (*storage.StoredPlan, error)
	ListPlans(ctx context.Context, userID, limit int) ([]storage.StoredPlan, error)
	QueryFeedback(ctx context.Context, userID int, start, end time.Time) ([]models.UserFeedback, error)
	GetFeedbackSummary(ctx context.Context, userID int, start, end time.Time, bucket string) ([]storage.FeedbackSummaryPeriod, error)
	ListAdaptations(ctx context.Context, userID, limit int) ([]storage.Adaptation, error)
	GetDataStats(ctx context.Context, userID int, now time.Time) (*storage.DataStats, error)
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	QueryImportLogs(ctx context.Context, userID, limit int) ([]storage.ImportLog, error)
}

var _ Store = (*storage.DB)(nil)

// Planner runs and stores engine operations. *planner.Planner implements it.
type Planner interface {
	Adapt(ctx context.Context, userID int, trigger string) (*planner.Result, error)
	Analyze(ctx context.Context, userID int) (*engine.Analysis, error)
	Generate(ctx context.Context, userID int) (*models.WorkoutPlan, error)
	SetPlan(ctx context.Context, userID int, plan *models.WorkoutPlan) (*models.WorkoutPlan, error)
}

var _ Planner = (*planner.Planner)(nil)

// Options configure a Server.
type Options struct {
	APIKey string
	// AdaptPerMinute and AdaptBurst bound adapt/generate calls per user.
	// Zero disables the limit.
	AdaptPerMinute int
	AdaptBurst     int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       Store
	planner  Planner
	feedback *journal.Provider
	log      *slog.Logger
	apiKey   string
	limiter  *userLimiter
	identity func(http.Handler) http.Handler
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(db Store, plans Planner, feedback *journal.Provider, opts Options, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		planner:  plans,
		feedback: feedback,
		log:      log,
		apiKey:   opts.APIKey,
		identity: DevIdentity,
		router:   chi.NewRouter(),
	}
	if opts.AdaptPerMinute > 0 {
		burst := max(opts.AdaptBurst, 1)
		s.limiter = newUserLimiter(opts.AdaptPerMinute, burst)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale switches identity resolution from the dev user to tailnet
// WhoIs lookups.
func (s *Server) SetTailscale(lc WhoIser) {
	s.identity = TailscaleIdentity(lc, s.db, s.log)
}

// MountMCP serves an MCP handler at /mcp behind the identity middleware.
func (s *Server) MountMCP(h http.Handler) {
	s.router.With(s.identify, RequestLogging(s.log)).Handle("/mcp", h)
}

func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.identity(next).ServeHTTP(w, r)
	})
}

func (s *Server) routes() {
	s.router.Use(CORS)
	s.router.Get("/health", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		r.Use(s.identify)
		r.Use(RequestLogging(s.log))

		r.Get("/api/v1/me", s.handleMe)
		r.Get("/api/v1/profile", s.handleGetProfile)
		r.Get("/api/v1/plans", s.handleListPlans)
		r.Get("/api/v1/plans/active", s.handleActivePlan)
		r.Get("/api/v1/plans/{id}", s.handleGetPlan)
		r.Get("/api/v1/feedback", s.handleQueryFeedback)
		r.Get("/api/v1/feedback/summary", s.handleFeedbackSummary)
		r.Get("/api/v1/analysis", s.handleAnalysis)
		r.Get("/api/v1/adaptations", s.handleAdaptations)
		r.Get("/api/v1/stats", s.handleStats)
		r.Get("/api/v1/import-logs", s.handleImportLogs)

		// Writes need the API key on top of identity.
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Put("/api/v1/profile", s.handlePutProfile)
			r.Post("/api/v1/plans", s.handleSetPlan)
			r.Post("/api/v1/ingest/feedback", s.handleIngestJSON)
			r.Post("/api/v1/ingest/feedback/csv", s.handleIngestCSV)

			r.With(RateLimit(s.limiter)).Post("/api/v1/adapt", s.handleAdapt)
			r.With(RateLimit(s.limiter)).Post("/api/v1/plans/generate", s.handleGenerate)
		})
	})
}
