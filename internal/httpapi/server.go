// Package httpapi exposes the village registry, resolver and
// per-session preferences over JSON.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/Sandip-2006/diigital-village-hub/internal/service"
	"github.com/Sandip-2006/diigital-village-hub/internal/store"
)

// SessionCookie carries the opaque session id preferences are keyed by.
const SessionCookie = "vp_session"

// Deps are the collaborators a Server needs.
type Deps struct {
	Villages    service.VillageService
	Preferences service.PreferenceService
	// Visitors is the process-wide store whose counter /visitors reports.
	Visitors    *store.Store
	Logger      *slog.Logger
	CORSOrigins []string
	SessionTTL  time.Duration
	Now         func() time.Time
}

type Server struct {
	villages   service.VillageService
	prefs      service.PreferenceService
	visitors   *store.Store
	logger     *slog.Logger
	origins    []string
	sessionTTL time.Duration
	now        func() time.Time
}

func NewServer(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Server{
		villages:   d.Villages,
		prefs:      d.Preferences,
		visitors:   d.Visitors,
		logger:     d.Logger,
		origins:    d.CORSOrigins,
		sessionTTL: d.SessionTTL,
		now:        d.Now,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(recoveryMiddleware(s.logger))
	r.Use(loggingMiddleware(s.logger))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api.HandleFunc("/villages", s.listVillages).Methods(http.MethodGet)
	api.HandleFunc("/villages/{id}", s.getVillage).Methods(http.MethodGet)
	api.HandleFunc("/locate", s.locate).Methods(http.MethodGet)

	api.HandleFunc("/themes", s.listThemes).Methods(http.MethodGet)
	api.HandleFunc("/themes/current", s.currentTheme).Methods(http.MethodGet)

	api.HandleFunc("/preferences", s.getPreferences).Methods(http.MethodGet)
	api.HandleFunc("/preferences", s.patchPreferences).Methods(http.MethodPatch)
	api.HandleFunc("/preferences", s.resetPreferences).Methods(http.MethodDelete)
	api.HandleFunc("/preferences/detect", s.detect).Methods(http.MethodPost)

	api.HandleFunc("/visitors", s.liveVisitors).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Origin"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400,
	})
	return c.Handler(r)
}

// NewHTTPServer wraps h with the portal's timeouts.
func NewHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
