package server

import (
	"net/http"

	"prompt-library/internal/config"
	"prompt-library/internal/library"
)

type Server struct {
	library *library.Library
	cfg     config.Config
}

func New(lib *library.Library, cfg config.Config) *Server {
	return &Server{
		library: lib,
		cfg:     cfg,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /api/prompts", s.handleListPrompts)
	mux.HandleFunc("POST /api/prompts", s.handleCreatePrompt)
	mux.HandleFunc("PUT /api/prompts/{id}", s.handleUpdatePrompt)
	mux.HandleFunc("DELETE /api/prompts/{id}", s.handleDeletePrompt)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("POST /api/save-all", s.handleSaveAll)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return mux
}
