package library

import (
	"context"
	"encoding/json"
	"log"

	"prompt-library/internal/db"
	"prompt-library/internal/store"
)

const untitledPrompt = "Untitled Prompt"

// ValidationError reports a malformed import payload. It is raised before
// any store call, so a rejected import never partially applies.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid import: " + e.Message
}

// ExportPayload is the import/export file format: exactly two top-level
// fields. Prompt ids and timestamps are carried on export and ignored on
// import.
type ExportPayload struct {
	Prompts    []db.Prompt `json:"prompts"`
	Categories []string    `json:"categories"`
}

type importPrompt struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type importPayload struct {
	// Pointers so an absent field is distinguishable from an empty one.
	Prompts    *[]importPrompt `json:"prompts"`
	Categories *[]string       `json:"categories"`
}

// Export snapshots the mirror as {prompts, categories}. Pure read, no store
// interaction.
func (l *Library) Export() ExportPayload {
	return ExportPayload{
		Prompts:    l.Prompts(),
		Categories: l.Categories(),
	}
}

// Import creates every prompt in the payload individually, treating each as
// new regardless of any id it carries. Missing fields default: title to
// "Untitled Prompt", content to empty, category to "General". Per-record
// failures are isolated and reported in the BatchResult; afterwards the
// mirror is refreshed and the imported category labels are unioned in.
func (l *Library) Import(ctx context.Context, raw []byte) (BatchResult, error) {
	var payload importPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return BatchResult{}, &ValidationError{Message: "payload is not valid JSON"}
	}
	if payload.Prompts == nil {
		return BatchResult{}, &ValidationError{Message: "missing prompts field"}
	}
	if payload.Categories == nil {
		return BatchResult{}, &ValidationError{Message: "missing categories field"}
	}

	var result BatchResult
	for _, item := range *payload.Prompts {
		draft := store.Draft{
			Title:    item.Title,
			Content:  item.Content,
			Category: item.Category,
		}
		if draft.Title == "" {
			draft.Title = untitledPrompt
		}
		if draft.Category == "" {
			draft.Category = store.DefaultCategory
		}
		created, err := l.store.Create(ctx, draft)
		if err != nil {
			log.Printf("import: create failed title=%q: %v", draft.Title, err)
			result.Failed = append(result.Failed, ItemFailure{
				Prompt: db.Prompt{Title: draft.Title, Content: draft.Content, Category: draft.Category},
				Err:    err,
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, created)
	}

	if err := l.Refresh(ctx); err != nil {
		log.Printf("import: refresh failed: %v", err)
	}
	l.mu.Lock()
	for _, label := range *payload.Categories {
		if label != "" {
			l.addCategoryLocked(label)
		}
	}
	l.mu.Unlock()
	log.Printf("import: %d created, %d failed", len(result.Succeeded), len(result.Failed))
	return result, nil
}
