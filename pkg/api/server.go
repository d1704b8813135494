package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/stride-app/stride/pkg/auth"
	"github.com/stride-app/stride/pkg/events"
	"github.com/stride-app/stride/pkg/log"
	"github.com/stride-app/stride/pkg/manager"
	"github.com/stride-app/stride/pkg/metrics"
)

// Server implements the Stride HTTP API: REST mutation endpoints plus the
// long-lived event stream.
type Server struct {
	manager   *manager.Manager
	registry  *events.Registry
	auth      *auth.Authenticator
	heartbeat time.Duration
	router    *mux.Router
	http      *http.Server
	logger    zerolog.Logger
}

// Config holds the collaborators a Server needs.
type Config struct {
	Manager           *manager.Manager
	Registry          *events.Registry
	Authenticator     *auth.Authenticator
	HeartbeatInterval time.Duration
}

// NewServer creates a new API server and wires up its routes.
func NewServer(cfg Config) *Server {
	s := &Server{
		manager:   cfg.Manager,
		registry:  cfg.Registry,
		auth:      cfg.Authenticator,
		heartbeat: cfg.HeartbeatInterval,
		logger:    log.WithComponent("api"),
	}
	if s.heartbeat <= 0 {
		s.heartbeat = 30 * time.Second
	}

	r := mux.NewRouter()
	r.Use(s.observeMiddleware)

	// The stream endpoint authenticates itself (token arrives as a query
	// parameter, EventSource cannot set headers).
	r.HandleFunc("/v1/events", s.handleEvents).Methods(http.MethodGet)

	// Operational endpoints, unauthenticated.
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Use(s.authMiddleware)

	// Tasks. Reorder is registered before the {id} routes so the literal
	// path wins.
	v1.HandleFunc("/tasks/reorder", s.handleReorderTasks).Methods(http.MethodPut)
	v1.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	v1.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	v1.HandleFunc("/tasks/{id}", s.handleGetTask).Methods(http.MethodGet)
	v1.HandleFunc("/tasks/{id}", s.handleUpdateTask).Methods(http.MethodPut)
	v1.HandleFunc("/tasks/{id}", s.handleDeleteTask).Methods(http.MethodDelete)

	// Sections
	v1.HandleFunc("/sections/reorder", s.handleReorderSections).Methods(http.MethodPut)
	v1.HandleFunc("/sections", s.handleListSections).Methods(http.MethodGet)
	v1.HandleFunc("/sections", s.handleCreateSection).Methods(http.MethodPost)
	v1.HandleFunc("/sections/{id}", s.handleGetSection).Methods(http.MethodGet)
	v1.HandleFunc("/sections/{id}", s.handleUpdateSection).Methods(http.MethodPut)
	v1.HandleFunc("/sections/{id}", s.handleDeleteSection).Methods(http.MethodDelete)

	// Folders
	v1.HandleFunc("/folders", s.handleListFolders).Methods(http.MethodGet)
	v1.HandleFunc("/folders", s.handleCreateFolder).Methods(http.MethodPost)
	v1.HandleFunc("/folders/{id}", s.handleGetFolder).Methods(http.MethodGet)
	v1.HandleFunc("/folders/{id}", s.handleUpdateFolder).Methods(http.MethodPut)
	v1.HandleFunc("/folders/{id}", s.handleDeleteFolder).Methods(http.MethodDelete)

	// Smart folders
	v1.HandleFunc("/smart-folders", s.handleListSmartFolders).Methods(http.MethodGet)
	v1.HandleFunc("/smart-folders", s.handleCreateSmartFolder).Methods(http.MethodPost)
	v1.HandleFunc("/smart-folders/{id}/tasks", s.handleQuerySmartFolder).Methods(http.MethodGet)
	v1.HandleFunc("/smart-folders/{id}", s.handleGetSmartFolder).Methods(http.MethodGet)
	v1.HandleFunc("/smart-folders/{id}", s.handleUpdateSmartFolder).Methods(http.MethodPut)
	v1.HandleFunc("/smart-folders/{id}", s.handleDeleteSmartFolder).Methods(http.MethodDelete)

	// Tags
	v1.HandleFunc("/tags", s.handleListTags).Methods(http.MethodGet)
	v1.HandleFunc("/tags", s.handleCreateTag).Methods(http.MethodPost)
	v1.HandleFunc("/tags/{id}", s.handleGetTag).Methods(http.MethodGet)
	v1.HandleFunc("/tags/{id}", s.handleUpdateTag).Methods(http.MethodPut)
	v1.HandleFunc("/tags/{id}", s.handleDeleteTag).Methods(http.MethodDelete)

	s.router = r
	return s
}

// Handler returns the router for embedding in tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops. Write timeouts
// stay unset because event streams hold their response open indefinitely;
// the heartbeat keeps intermediaries from reaping them.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info().Str("addr", addr).Msg("HTTP API listening")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully stops the HTTP server. Open event streams are closed by
// the shutdown; their handlers unregister on the way out.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	if err := s.http.Shutdown(ctx); err != nil {
		// Streams still open past the deadline: force-close them.
		return s.http.Close()
	}
	return nil
}
