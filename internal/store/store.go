// Package store is the boundary to the prompt store: a Postgres-backed
// client for the hosted deployment and a file-backed variant for running
// without a database. Every failure crossing the boundary is a StoreError.
package store

import (
	"context"

	"prompt-library/internal/db"
)

// DefaultCategory is returned when the store holds no categories at all, so
// the UI always has at least one selectable label.
const DefaultCategory = "General"

// Draft carries the client-writable fields of a prompt. Ids and timestamps
// are always minted by the store.
type Draft struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// Store is the contract the reconciliation engine works against.
type Store interface {
	// List returns every prompt, newest first. An empty store is a valid
	// empty result, not an error.
	List(ctx context.Context) ([]db.Prompt, error)

	// ListIDs returns the identifiers currently present in the store.
	ListIDs(ctx context.Context) ([]string, error)

	// Count reports the number of stored prompts.
	Count(ctx context.Context) (int64, error)

	// Create inserts a draft and returns the stored row.
	Create(ctx context.Context, draft Draft) (db.Prompt, error)

	// CreateBatch inserts all drafts in a single batch and returns the
	// stored rows. A failure aborts the whole batch.
	CreateBatch(ctx context.Context, drafts []Draft) ([]db.Prompt, error)

	// Update rewrites the writable fields of the prompt with the given id
	// and returns the updated row. A missing row is a StoreError.
	Update(ctx context.Context, id string, draft Draft) (db.Prompt, error)

	// Delete removes the prompt with the given id. Deleting a missing row
	// is indistinguishable from success.
	Delete(ctx context.Context, id string) error

	// ListDistinctCategories returns the deduplicated category labels across
	// all stored prompts, falling back to [DefaultCategory] when empty.
	ListDistinctCategories(ctx context.Context) ([]string, error)
}
