package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"prompt-library/internal/library"
	"prompt-library/internal/store"
	"prompt-library/internal/web"

	"github.com/a-h/templ"
)

type promptRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type itemFailureView struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Error string `json:"error"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	templ.Handler(web.LibraryPage()).ServeHTTP(w, r)
}

func (s *Server) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	category := r.URL.Query().Get("category")
	if category == "" {
		category = library.AllCategories
	}

	filtered := library.Filter(s.library.Prompts(), query, category)
	resp := map[string]any{
		"prompts":    filtered,
		"groups":     library.GroupByCategory(filtered),
		"categories": s.library.Categories(),
		"loading":    s.library.Loading(),
	}
	if updated, ok := s.library.LastUpdated(); ok {
		resp["last_updated"] = updated
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatePrompt(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	title, content, category, err := validatePromptFields(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.library.Add(r.Context(), title, content, category)
	if err != nil {
		log.Printf("add prompt failed: %v", err)
		writeError(w, storeStatus(err), "failed to save prompt")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req promptRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	title, content, category, err := validatePromptFields(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := s.library.Edit(r.Context(), id, title, content, category)
	if err != nil {
		log.Printf("edit prompt failed id=%s: %v", id, err)
		writeError(w, storeStatus(err), "failed to update prompt")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.library.Delete(r.Context(), id); err != nil {
		log.Printf("delete prompt failed id=%s: %v", id, err)
		writeError(w, storeStatus(err), "failed to delete prompt")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": s.library.Categories(),
	})
}

func (s *Server) handleSaveAll(w http.ResponseWriter, r *http.Request) {
	result, err := s.library.SaveAll(r.Context())
	if err != nil {
		log.Printf("save all failed: %v", err)
		writeJSON(w, storeStatus(err), map[string]any{
			"error":  "failed to save prompts",
			"failed": failureViews(result.Failed),
		})
		return
	}
	if err := s.library.Refresh(r.Context()); err != nil {
		log.Printf("refresh after save all failed: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"saved":  len(result.Succeeded),
		"failed": failureViews(result.Failed),
	})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.library.Import(r.Context(), raw)
	if err != nil {
		var validationErr *library.ValidationError
		if errors.As(err, &validationErr) {
			writeError(w, http.StatusBadRequest, validationErr.Error())
			return
		}
		log.Printf("import failed: %v", err)
		writeError(w, storeStatus(err), "failed to import prompts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"imported": len(result.Succeeded),
		"failed":   failureViews(result.Failed),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	payload := s.library.Export()
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export prompts")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="prompt-library-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func validatePromptFields(req promptRequest) (title, content, category string, err error) {
	if title, err = validateTitle(req.Title); err != nil {
		return "", "", "", err
	}
	if content, err = validateContent(req.Content); err != nil {
		return "", "", "", err
	}
	if category, err = validateCategory(req.Category); err != nil {
		return "", "", "", err
	}
	return title, content, category, nil
}

func failureViews(failures []library.ItemFailure) []itemFailureView {
	views := make([]itemFailureView, 0, len(failures))
	for _, f := range failures {
		views = append(views, itemFailureView{
			ID:    f.Prompt.ID,
			Title: f.Prompt.Title,
			Error: f.Err.Error(),
		})
	}
	return views
}

func storeStatus(err error) int {
	var storeErr *store.StoreError
	if errors.As(err, &storeErr) && storeErr.Code == store.CodeNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
