// Package api exposes the analysis service over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"bombardier/internal/analysis"
	"bombardier/internal/logging"
	"bombardier/internal/metrics"
	"bombardier/internal/model"
	"bombardier/internal/quality"
	"bombardier/internal/store/sqlite"
	"bombardier/internal/suggest"
)

// Version is reported by /health.
const Version = "1.0.0"

// AnalysisStore persists completed profile analyses and reads them back.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, at time.Time, platform, username string, a model.ProfileAnalysis) (string, error)
	LoadAnalysis(ctx context.Context, id string) (sqlite.AnalysisRecord, error)
	LatestAnalysis(ctx context.Context, platform, username string) (sqlite.AnalysisRecord, error)
}

// Options configure the router. Zero RatePerSecond disables rate limiting;
// a nil Store skips persistence and the /analysis lookups.
type Options struct {
	RatePerSecond float64
	Burst         int
	Timeout       time.Duration
	Store         AnalysisStore
	MinScore      float64
	MaxCount      int
}

type server struct {
	svc  *analysis.Service
	opts Options
}

// NewRouter builds the HTTP handler.
func NewRouter(svc *analysis.Service, opts Options) http.Handler {
	s := &server{svc: svc, opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
	}))
	if opts.RatePerSecond > 0 {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(opts.RatePerSecond), max(opts.Burst, 1))))
	}
	if opts.Timeout > 0 {
		r.Use(middleware.Timeout(opts.Timeout))
	}

	r.Get("/health", s.health)
	r.Handle("/metrics", metrics.Handler())
	r.Post("/analyze/profile", s.analyzeProfile)
	r.Post("/detect/bot", s.detectBot)
	r.Post("/analyze/sentiment", s.analyzeSentiment)
	r.Post("/extract/interests", s.extractInterests)
	r.Post("/generate/message-context", s.messageContext)
	r.Post("/rank/profiles", s.rankProfiles)
	if opts.Store != nil {
		r.Get("/analysis/{id}", s.getAnalysis)
		r.Get("/analysis/{platform}/{username}", s.latestAnalysis)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"version":       Version,
		"models_loaded": true,
	})
}

func (s *server) analyzeProfile(w http.ResponseWriter, r *http.Request) {
	var req analysis.ProfileRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := s.svc.AnalyzeProfile(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if s.opts.Store != nil {
		id, err := s.opts.Store.SaveAnalysis(r.Context(), time.Now(), req.Platform, req.Username, res)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.Header().Set("X-Analysis-Id", id)
	}
	writeData(w, res)
}

func (s *server) detectBot(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileSnapshot
	if !decode(w, r, &req) {
		return
	}
	res, err := s.svc.DetectBot(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, res)
}

type sentimentRequest struct {
	Text    *string `json:"text"`
	Context string  `json:"context,omitempty"`
}

func (s *server) analyzeSentiment(w http.ResponseWriter, r *http.Request) {
	var req sentimentRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Text == nil {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	res, err := s.svc.AnalyzeSentiment(r.Context(), *req.Text, req.Context)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, res)
}

type interestsRequest struct {
	Bio   string   `json:"bio"`
	Posts []string `json:"posts"`
}

func (s *server) extractInterests(w http.ResponseWriter, r *http.Request) {
	var req interestsRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := s.svc.ExtractInterests(r.Context(), req.Bio, req.Posts)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, res)
}

func (s *server) messageContext(w http.ResponseWriter, r *http.Request) {
	var req suggest.Request
	if !decode(w, r, &req) {
		return
	}
	res, err := s.svc.MessageContext(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, res)
}

type rankRequest struct {
	Profiles []quality.Input `json:"profiles"`
	MinScore *float64        `json:"min_score,omitempty"`
	MaxCount *int            `json:"max_count,omitempty"`
}

// rankProfiles takes min_score and max_count from the query string first,
// then the body, then the configured defaults.
func (s *server) rankProfiles(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if !decode(w, r, &req) {
		return
	}
	minScore, maxCount := s.opts.MinScore, s.opts.MaxCount
	if maxCount == 0 {
		minScore, maxCount = quality.DefaultMinScore, quality.DefaultMaxCount
	}
	if req.MinScore != nil {
		minScore = *req.MinScore
	}
	if req.MaxCount != nil {
		maxCount = *req.MaxCount
	}
	q := r.URL.Query()
	if v := q.Get("min_score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "min_score must be a number")
			return
		}
		minScore = f
	}
	if v := q.Get("max_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "max_count must be an integer")
			return
		}
		maxCount = n
	}

	ranked, err := s.svc.RankProfiles(r.Context(), req.Profiles, minScore, maxCount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	logging.Debug("profiles_ranked", logging.Fields{"in": len(req.Profiles), "out": len(ranked)})
	writeData(w, map[string]any{
		"profiles": ranked,
		"total":    len(req.Profiles),
		"returned": len(ranked),
	})
}

func (s *server) getAnalysis(w http.ResponseWriter, r *http.Request) {
	rec, err := s.opts.Store.LoadAnalysis(r.Context(), chi.URLParam(r, "id"))
	s.writeRecord(w, r, rec, err)
}

func (s *server) latestAnalysis(w http.ResponseWriter, r *http.Request) {
	rec, err := s.opts.Store.LatestAnalysis(r.Context(), chi.URLParam(r, "platform"), chi.URLParam(r, "username"))
	s.writeRecord(w, r, rec, err)
}

func (s *server) writeRecord(w http.ResponseWriter, r *http.Request, rec sqlite.AnalysisRecord, err error) {
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, rec)
}
