// Package server exposes the assistant over HTTP: a streaming chat
// endpoint, read-only catalog queries backed by the store, and health
// checks. Routing is a stdlib ServeMux wrapped in permissive CORS so
// browser frontends can talk to it directly.
package server

import (
	"net/http"
	"time"

	"github.com/rs/cors"

	"rxchat/agent"
	"rxchat/i18n"
	"rxchat/model"
	"rxchat/store"
	"rxchat/tools"
)

// Config collects the server's collaborators. Ledger is optional; the
// health endpoint reports it only when present.
type Config struct {
	Agent    *agent.Orchestrator
	Provider model.Provider
	Registry *tools.Registry
	Store    *store.Store
	Ledger   *store.Ledger

	DefaultLanguage i18n.Locale
	RequestTimeout  time.Duration
	Version         string
}

// Server is the HTTP transport for the assistant. The zero value is not
// usable; construct with New.
type Server struct {
	agent    *agent.Orchestrator
	provider model.Provider
	registry *tools.Registry
	store    *store.Store
	ledger   *store.Ledger

	defaultLanguage i18n.Locale
	timeout         time.Duration
	version         string
}

func New(cfg Config) *Server {
	s := &Server{
		agent:           cfg.Agent,
		provider:        cfg.Provider,
		registry:        cfg.Registry,
		store:           cfg.Store,
		ledger:          cfg.Ledger,
		defaultLanguage: cfg.DefaultLanguage,
		timeout:         cfg.RequestTimeout,
		version:         cfg.Version,
	}
	if s.defaultLanguage == "" {
		s.defaultLanguage = i18n.English
	}
	if s.timeout <= 0 {
		s.timeout = 2 * time.Minute
	}
	return s
}

// Handler returns the full route table wrapped in the CORS middleware.
// The caller owns the http.Server around it (timeouts, shutdown).
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /chat_sse", s.handleChatSSE)

	mux.HandleFunc("GET /medications", s.handleListMedications)
	mux.HandleFunc("GET /medications/{name}", s.handleGetMedication)
	mux.HandleFunc("GET /users/{id}/prescriptions", s.handleUserPrescriptions)
	mux.HandleFunc("GET /stock/{name}", s.handleCheckStock)

	mux.HandleFunc("GET /demo/flows", s.handleDemoFlows)

	return cors.AllowAll().Handler(mux)
}

// locale resolves the response language for a request: explicit query
// parameter first, configured default otherwise.
func (s *Server) locale(r *http.Request) i18n.Locale {
	if lang := r.URL.Query().Get("language"); lang != "" {
		return i18n.NormalizeLocale(lang)
	}
	return s.defaultLanguage
}
