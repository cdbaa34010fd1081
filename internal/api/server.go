package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/examprep/internal/completion"
	"github.com/dgallion1/examprep/internal/config"
	"github.com/dgallion1/examprep/internal/pipeline"
	"github.com/dgallion1/examprep/internal/tutor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for examprep.
type Server struct {
	router chi.Router
	topics *pipeline.Orchestrator
	runner *pipeline.Runner
	tutor  *tutor.Service
	llm    *completion.Client
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server. llm may be nil when no
// completion service is configured.
func NewServer(topics *pipeline.Orchestrator, runner *pipeline.Runner, tut *tutor.Service, llm *completion.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		topics: topics,
		runner: runner,
		tutor:  tut,
		llm:    llm,
		log:    log,
		cfg:    cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/topics", s.handlePredictTopics)
		r.Post("/topics/upload", s.handlePredictUpload)

		r.Post("/papers", s.handleSubmitPapers)
		r.Get("/papers/{jobID}/status", s.handlePaperStatus)

		r.Post("/plan", s.handlePlan)
		r.Post("/explain", s.handleExplain)

		r.Get("/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"ai_enabled":  s.llm != nil,
		"queue_depth": s.runner.QueueDepth(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
