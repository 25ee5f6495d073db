package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/linewatch/internal/domain"
	apimw "github.com/hamed0406/linewatch/internal/httpapi/middleware"
	"github.com/hamed0406/linewatch/internal/monitor"
)

type Server struct {
	Logger *zap.Logger
	Runner *monitor.Runner
	Lines  []domain.LineConfig
}

func NewServer(l *zap.Logger, runner *monitor.Runner, lines []domain.LineConfig) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Runner: runner, Lines: lines}
}

// Router leaves /healthz and /api/lines open. Both check routes fetch the
// operator pages, so they sit behind the key guard. An empty origin list
// allows any origin.
func (s *Server) Router(keys []string, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(corsHandler(allowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/lines", s.handleLines)
	r.Group(func(r chi.Router) {
		r.Use(apimw.RequireKey(keys))
		r.Get("/api/check", s.handleCheck)
		r.Post("/api/run", s.handleRun)
	})

	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return cors.AllowAll().Handler
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "X-API-Key", "Content-Type"},
		MaxAge:         300,
	})
}

func (s *Server) handleLines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Lines)
}

// handleCheck reports current statuses without notifying anyone.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	out := s.Runner.Check(r.Context())
	s.Logger.Info("api_check", zap.String("run_id", out.RunID), zap.String("summary", out.Summary))
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	out := s.Runner.Run(r.Context())
	s.Logger.Info("api_run",
		zap.String("run_id", out.RunID),
		zap.String("summary", out.Summary),
		zap.Bool("notified", out.Notified),
	)
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
