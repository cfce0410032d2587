// Package server provides the web front end for interactive
// upload/convert/download workflows over the conversion pipeline.
package server

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ukaji3/sheetmd-go/pkg/sheetmd"
)

// DefaultMaxUploadBytes caps a single upload request at 50 MiB.
const DefaultMaxUploadBytes = 50 * 1024 * 1024

// Workspace is the explicit pair of directories a server instance works
// in. It is passed in rather than held in process-wide state so tests
// and deployments can isolate their file trees.
type Workspace struct {
	// UploadDir receives uploaded input files.
	UploadDir string
	// OutputDir receives conversion artifacts.
	OutputDir string
}

// Ensure creates both workspace directories.
func (w Workspace) Ensure() error {
	for _, dir := range []string{w.UploadDir, w.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("workspace dir %s: %w", dir, err)
		}
	}
	return nil
}

// Config carries server settings.
type Config struct {
	// MaxUploadBytes caps a single upload request body. Zero means
	// DefaultMaxUploadBytes.
	MaxUploadBytes int64
	// Options is passed through to the conversion pipeline.
	Options sheetmd.Options
}

// Server serves the upload/convert/download API over a workspace.
type Server struct {
	ws        Workspace
	maxUpload int64
	opts      sheetmd.Options
	router    chi.Router
}

// New creates a Server for the given workspace, creating its
// directories if needed.
func New(ws Workspace, cfg Config) (*Server, error) {
	if err := ws.Ensure(); err != nil {
		return nil, err
	}

	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}

	s := &Server{
		ws:        ws,
		maxUpload: maxUpload,
		opts:      cfg.Options,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Post("/convert", s.handleConvert)
		r.Get("/files", s.handleListFiles)
		r.Delete("/files/*", s.handleDeleteFile)
		r.Get("/download/*", s.handleDownload)
		r.Get("/download-all", s.handleDownloadAll)
		r.Delete("/clear", s.handleClear)
	})
	return r
}
