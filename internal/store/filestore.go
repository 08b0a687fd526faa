package store

import (
	"context"
	"log"
	"time"

	"prompt-library/internal/db"
	"prompt-library/internal/state"

	"github.com/google/uuid"
)

// FileStore implements Store over a persisted JSON slot, for running the
// library without a database. Unlike the Postgres client it mints ids on the
// client side, so the rest of the contract is unchanged.
type FileStore struct {
	slot *state.Persisted[[]db.Prompt]
}

func OpenFileStore(path string) (*FileStore, error) {
	slot, err := state.Open(path, []db.Prompt{})
	if err != nil {
		return nil, err
	}
	return &FileStore{slot: slot}, nil
}

func (f *FileStore) List(ctx context.Context) ([]db.Prompt, error) {
	prompts := f.slot.Get()
	out := make([]db.Prompt, len(prompts))
	copy(out, prompts)
	return out, nil
}

func (f *FileStore) ListIDs(ctx context.Context) ([]string, error) {
	prompts := f.slot.Get()
	ids := make([]string, 0, len(prompts))
	for _, p := range prompts {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (f *FileStore) Count(ctx context.Context) (int64, error) {
	return int64(len(f.slot.Get())), nil
}

func (f *FileStore) Create(ctx context.Context, draft Draft) (db.Prompt, error) {
	now := time.Now().UTC()
	record := db.Prompt{
		ID:        uuid.NewString(),
		Title:     draft.Title,
		Content:   draft.Content,
		Category:  draft.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := f.slot.Update(func(prompts []db.Prompt) []db.Prompt {
		// Newest first, matching the Postgres client's list order.
		return append([]db.Prompt{record}, prompts...)
	})
	if err != nil {
		return db.Prompt{}, &StoreError{Code: CodeUnavailable, Message: "create prompt: " + err.Error(), Err: err}
	}
	log.Printf("prompt created id=%s category=%s (file store)", record.ID, record.Category)
	return record, nil
}

func (f *FileStore) CreateBatch(ctx context.Context, drafts []Draft) ([]db.Prompt, error) {
	created := make([]db.Prompt, 0, len(drafts))
	for _, draft := range drafts {
		record, err := f.Create(ctx, draft)
		if err != nil {
			return nil, err
		}
		created = append(created, record)
	}
	return created, nil
}

func (f *FileStore) Update(ctx context.Context, id string, draft Draft) (db.Prompt, error) {
	var updated db.Prompt
	found := false
	err := f.slot.Update(func(prompts []db.Prompt) []db.Prompt {
		out := make([]db.Prompt, len(prompts))
		copy(out, prompts)
		for i := range out {
			if out[i].ID != id {
				continue
			}
			out[i].Title = draft.Title
			out[i].Content = draft.Content
			out[i].Category = draft.Category
			out[i].UpdatedAt = time.Now().UTC()
			updated = out[i]
			found = true
			break
		}
		return out
	})
	if err != nil {
		return db.Prompt{}, &StoreError{Code: CodeUnavailable, Message: "update prompt: " + err.Error(), Err: err}
	}
	if !found {
		return db.Prompt{}, notFoundError("update prompt", id)
	}
	log.Printf("prompt updated id=%s (file store)", id)
	return updated, nil
}

func (f *FileStore) Delete(ctx context.Context, id string) error {
	err := f.slot.Update(func(prompts []db.Prompt) []db.Prompt {
		out := prompts[:0:0]
		for _, p := range prompts {
			if p.ID != id {
				out = append(out, p)
			}
		}
		return out
	})
	if err != nil {
		return &StoreError{Code: CodeUnavailable, Message: "delete prompt: " + err.Error(), Err: err}
	}
	log.Printf("prompt deleted id=%s (file store)", id)
	return nil
}

func (f *FileStore) ListDistinctCategories(ctx context.Context) ([]string, error) {
	prompts := f.slot.Get()
	seen := make(map[string]struct{})
	var categories []string
	for _, p := range prompts {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	if len(categories) == 0 {
		return []string{DefaultCategory}, nil
	}
	return categories, nil
}
