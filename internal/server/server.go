package server

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/files"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/tracker"
)

// Server renders vault notes over HTTP.
type Server struct {
	router    chi.Router
	vault     *files.Vault
	processor *tracker.Processor
	language  string
	log       *slog.Logger
}

// New creates and configures the HTTP server. Blocks are recognised by
// their fence language.
func New(vault *files.Vault, processor *tracker.Processor, language string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		vault:     vault,
		processor: processor,
		language:  language,
		log:       log,
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

	r.Get("/notes", s.handleListNotes)
	r.Get("/notes/{name}", s.handleNote)
	r.Get("/summary", s.handleSummaryPage)
	r.Get("/api/summary", s.handleSummaryJSON)

	s.router = r
}
