package library

import (
	"context"
	"log"

	"prompt-library/internal/db"
	"prompt-library/internal/store"
)

// ItemFailure pairs a prompt that failed to persist with the error that
// stopped it.
type ItemFailure struct {
	Prompt db.Prompt
	Err    error
}

// BatchResult is the structured outcome of SaveAll and Import: callers see
// exactly which items persisted and which did not, instead of partial
// failures disappearing into logs.
type BatchResult struct {
	Succeeded []db.Prompt
	Failed    []ItemFailure
}

// SaveAll reconciles the whole mirrored prompt list against the store. Each
// prompt whose id the store already knows becomes an update; everything else
// becomes a create with its id dropped, so the store mints a fresh one.
// Creates go out as one batch; updates run sequentially and independently.
// A batch-create failure aborts the operation before any update runs. The
// caller is expected to Refresh afterwards for canonical server state.
func (l *Library) SaveAll(ctx context.Context) (BatchResult, error) {
	local := l.Prompts()
	var result BatchResult

	ids, err := l.store.ListIDs(ctx)
	if err != nil {
		return result, err
	}
	existing := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		existing[id] = struct{}{}
	}

	var creates []db.Prompt
	var updates []db.Prompt
	for _, p := range local {
		if p.ID != "" {
			if _, ok := existing[p.ID]; ok {
				updates = append(updates, p)
				continue
			}
		}
		creates = append(creates, p)
	}
	log.Printf("save all: %d to create, %d to update", len(creates), len(updates))

	if len(creates) > 0 {
		drafts := make([]store.Draft, 0, len(creates))
		for _, p := range creates {
			drafts = append(drafts, store.Draft{Title: p.Title, Content: p.Content, Category: p.Category})
		}
		created, err := l.store.CreateBatch(ctx, drafts)
		if err != nil {
			for _, p := range creates {
				result.Failed = append(result.Failed, ItemFailure{Prompt: p, Err: err})
			}
			return result, err
		}
		result.Succeeded = append(result.Succeeded, created...)
	}

	for _, p := range updates {
		updated, err := l.store.Update(ctx, p.ID, store.Draft{Title: p.Title, Content: p.Content, Category: p.Category})
		if err != nil {
			log.Printf("save all: update failed id=%s: %v", p.ID, err)
			result.Failed = append(result.Failed, ItemFailure{Prompt: p, Err: err})
			continue
		}
		result.Succeeded = append(result.Succeeded, updated)
	}
	return result, nil
}
