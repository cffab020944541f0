package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	directoryservice "foreman/contexts/identity-access/directory-service"
	projectservice "foreman/contexts/project-management/project-service"
	"foreman/internal/platform/auth"
	"foreman/internal/platform/metrics"
	"foreman/internal/shared/identity"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "foreman/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	handler   http.Handler
	logger    *slog.Logger
	addr      string
	verifier  auth.Verifier
	metrics   *metrics.HTTPMetrics
	projects  projectservice.Module
	directory directoryservice.Module
}

// Options carries the platform concerns that wrap every route.
type Options struct {
	Addr           string
	Verifier       auth.Verifier
	Metrics        *metrics.HTTPMetrics
	RateLimitRPS   float64
	RateLimitBurst int
	Logger         *slog.Logger
}

func New(
	projects projectservice.Module,
	directory directoryservice.Module,
	opts Options,
) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr := opts.Addr
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		verifier:  opts.Verifier,
		metrics:   opts.Metrics,
		projects:  projects,
		directory: directory,
	}
	s.registerRoutes()

	s.handler = http.Handler(s.mux)
	if opts.RateLimitRPS > 0 {
		s.handler = rateLimit(opts.RateLimitRPS, opts.RateLimitBurst, opts.Metrics, logger)(s.handler)
	}
	s.handler = requestLogging(logger, opts.Metrics)(s.handler)
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.handler)
}

// Handler exposes the full middleware chain for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("GET /metrics", metricsHandler())

	s.mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	s.mux.HandleFunc("GET /api/projects", s.handleListProjects)
	s.mux.HandleFunc("GET /api/projects/{project_id}", s.handleGetProject)
	s.mux.HandleFunc("PUT /api/projects/{project_id}", s.handleUpdateProject)
	s.mux.HandleFunc("DELETE /api/projects/{project_id}", s.handleDeleteProject)
	s.mux.HandleFunc("POST /api/projects/{project_id}/users", s.handleAssignUser)
	s.mux.HandleFunc("PUT /api/projects/{project_id}/users/{user_id}", s.handleUpdateMemberRole)
	s.mux.HandleFunc("DELETE /api/projects/{project_id}/users/{user_id}", s.handleRemoveUser)
	s.mux.HandleFunc("GET /api/projects/{project_id}/users", s.handleGetAssignedUsers)

	s.mux.HandleFunc("POST /api/clients", s.handleCreateClient)
	s.mux.HandleFunc("GET /api/clients", s.handleListClients)
	s.mux.HandleFunc("GET /api/clients/{client_id}", s.handleGetClient)
	s.mux.HandleFunc("GET /api/user/list", s.handleListUsers)
	s.mux.HandleFunc("GET /api/me", s.handleGetMe)
}

// requireIdentity verifies the bearer token and writes 401 on failure.
func (s *Server) requireIdentity(w http.ResponseWriter, r *http.Request) (identity.Identity, bool) {
	actor, err := s.verifier.IdentityFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		if s.metrics != nil {
			s.metrics.AuthFailures.Inc()
		}
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
		return identity.Identity{}, false
	}
	return actor, true
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
