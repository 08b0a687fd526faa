// Package library holds the in-memory mirror of the prompt store and
// mediates all read/write traffic to it. Local state changes only after a
// confirmed remote write; a failed call leaves the mirror untouched.
package library

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"prompt-library/internal/db"
	"prompt-library/internal/store"

	"golang.org/x/sync/errgroup"
)

type Library struct {
	store store.Store

	mu          sync.Mutex
	prompts     []db.Prompt
	categories  []string
	loading     bool
	lastUpdated time.Time
}

func New(st store.Store) *Library {
	return &Library{
		store:   st,
		loading: true,
	}
}

// Initialize fetches prompts and categories concurrently. Either fetch
// failing is surfaced, but the other's result is still applied. The loading
// flag clears once the prompt fetch settles, success or failure.
func (l *Library) Initialize(ctx context.Context) error {
	var (
		prompts    []db.Prompt
		promptsErr error
		categories []string
		catsErr    error
	)
	var g errgroup.Group
	g.Go(func() error {
		prompts, promptsErr = l.store.List(ctx)
		return nil
	})
	g.Go(func() error {
		categories, catsErr = l.store.ListDistinctCategories(ctx)
		return nil
	})
	_ = g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if promptsErr == nil {
		l.prompts = prompts
		l.lastUpdated = time.Now().UTC()
	}
	if catsErr == nil {
		l.categories = categories
	}
	return errors.Join(promptsErr, catsErr)
}

// Refresh replaces the mirror with the store's canonical state.
func (l *Library) Refresh(ctx context.Context) error {
	return l.Initialize(ctx)
}

// Prompts returns a copy of the mirrored prompt list, newest first.
func (l *Library) Prompts() []db.Prompt {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]db.Prompt, len(l.prompts))
	copy(out, l.prompts)
	return out
}

// Categories returns a copy of the category set in insertion order.
func (l *Library) Categories() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.categories))
	copy(out, l.categories)
	return out
}

func (l *Library) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// LastUpdated reports when the mirror last changed; ok is false before the
// first successful fetch or mutation.
func (l *Library) LastUpdated() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastUpdated, !l.lastUpdated.IsZero()
}

// Add creates a prompt and prepends it to the mirror, preserving newest-first
// order without a refetch. The category set grows if the label is new.
func (l *Library) Add(ctx context.Context, title, content, category string) (db.Prompt, error) {
	created, err := l.store.Create(ctx, store.Draft{Title: title, Content: content, Category: category})
	if err != nil {
		return db.Prompt{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prompts = append([]db.Prompt{created}, l.prompts...)
	l.addCategoryLocked(created.Category)
	l.lastUpdated = time.Now().UTC()
	return created, nil
}

// Edit rewrites a prompt's fields and replaces the matching mirror element
// in place with the row the store returned.
func (l *Library) Edit(ctx context.Context, id, title, content, category string) (db.Prompt, error) {
	updated, err := l.store.Update(ctx, id, store.Draft{Title: title, Content: content, Category: category})
	if err != nil {
		return db.Prompt{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.prompts {
		if l.prompts[i].ID == id {
			l.prompts[i] = updated
			break
		}
	}
	l.addCategoryLocked(updated.Category)
	l.lastUpdated = time.Now().UTC()
	return updated, nil
}

// Delete removes a prompt and recomputes the category set from the store's
// distinct categories, so labels no longer referenced by any prompt drop out.
func (l *Library) Delete(ctx context.Context, id string) error {
	if err := l.store.Delete(ctx, id); err != nil {
		return err
	}
	categories, catsErr := l.store.ListDistinctCategories(ctx)
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.prompts[:0:0]
	for _, p := range l.prompts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	l.prompts = kept
	if catsErr != nil {
		// Keep the stale set; the next refresh corrects it.
		log.Printf("category recompute after delete failed: %v", catsErr)
	} else {
		l.categories = categories
	}
	l.lastUpdated = time.Now().UTC()
	return nil
}

// addCategoryLocked grows the category set, preserving insertion order.
// Callers must hold l.mu.
func (l *Library) addCategoryLocked(label string) {
	for _, existing := range l.categories {
		if existing == label {
			return
		}
	}
	l.categories = append(l.categories, label)
}
