package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"prompt-library/internal/db"
	"prompt-library/internal/store"
)

// fakeStore implements store.Store in memory and records the calls the
// engine makes, so tests can assert on classification and failure handling.
type fakeStore struct {
	mu      sync.Mutex
	prompts []db.Prompt
	nextID  int

	batchSizes  []int
	updateCalls []string
	createCalls int

	listErr          error
	categoriesErr    error
	batchErr         error
	updateErrs       map[string]error
	createErrByTitle map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		updateErrs:       make(map[string]error),
		createErrByTitle: make(map[string]error),
	}
}

func (f *fakeStore) List(ctx context.Context) ([]db.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]db.Prompt, len(f.prompts))
	copy(out, f.prompts)
	return out, nil
}

func (f *fakeStore) ListIDs(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.prompts))
	for _, p := range f.prompts {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (f *fakeStore) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.prompts)), nil
}

func (f *fakeStore) Create(ctx context.Context, draft store.Draft) (db.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if err := f.createErrByTitle[draft.Title]; err != nil {
		return db.Prompt{}, err
	}
	return f.insertLocked(draft), nil
}

func (f *fakeStore) CreateBatch(ctx context.Context, drafts []store.Draft) ([]db.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchSizes = append(f.batchSizes, len(drafts))
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	created := make([]db.Prompt, 0, len(drafts))
	for _, draft := range drafts {
		created = append(created, f.insertLocked(draft))
	}
	return created, nil
}

func (f *fakeStore) Update(ctx context.Context, id string, draft store.Draft) (db.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls = append(f.updateCalls, id)
	if err := f.updateErrs[id]; err != nil {
		return db.Prompt{}, err
	}
	for i := range f.prompts {
		if f.prompts[i].ID != id {
			continue
		}
		f.prompts[i].Title = draft.Title
		f.prompts[i].Content = draft.Content
		f.prompts[i].Category = draft.Category
		f.prompts[i].UpdatedAt = time.Now().UTC()
		return f.prompts[i], nil
	}
	return db.Prompt{}, &store.StoreError{Code: store.CodeNotFound, Message: "update prompt: not found"}
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.prompts[:0:0]
	for _, p := range f.prompts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.prompts = kept
	return nil
}

func (f *fakeStore) ListDistinctCategories(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.categoriesErr != nil {
		return nil, f.categoriesErr
	}
	seen := make(map[string]struct{})
	var categories []string
	for _, p := range f.prompts {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	if len(categories) == 0 {
		return []string{store.DefaultCategory}, nil
	}
	return categories, nil
}

func (f *fakeStore) insertLocked(draft store.Draft) db.Prompt {
	f.nextID++
	now := time.Now().UTC()
	record := db.Prompt{
		ID:        fmt.Sprintf("p-%d", f.nextID),
		Title:     draft.Title,
		Content:   draft.Content,
		Category:  draft.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.prompts = append([]db.Prompt{record}, f.prompts...)
	return record
}

func (f *fakeStore) seed(title, content, category string) db.Prompt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertLocked(store.Draft{Title: title, Content: content, Category: category})
}

func TestInitializeLoadsState(t *testing.T) {
	fake := newFakeStore()
	fake.seed("Foo", "foo body", "Writing")
	fake.seed("Bar", "bar body", "Code")

	lib := New(fake)
	if !lib.Loading() {
		t.Fatal("expected loading before initialize")
	}
	if err := lib.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if lib.Loading() {
		t.Fatal("expected loading to clear after initialize")
	}
	if got := lib.Prompts(); len(got) != 2 || got[0].Title != "Bar" {
		t.Fatalf("expected 2 prompts newest first, got %#v", got)
	}
	if got := lib.Categories(); len(got) != 2 {
		t.Fatalf("expected 2 categories, got %v", got)
	}
	if _, ok := lib.LastUpdated(); !ok {
		t.Fatal("expected last updated to be set")
	}
}

func TestInitializePartialFailure(t *testing.T) {
	fake := newFakeStore()
	fake.seed("Foo", "foo body", "Writing")
	fake.listErr = errors.New("list unavailable")

	lib := New(fake)
	err := lib.Initialize(context.Background())
	if err == nil {
		t.Fatal("expected initialize to surface the list failure")
	}
	if lib.Loading() {
		t.Fatal("expected loading to clear even on failure")
	}
	// The category fetch succeeded and its result still applies.
	if got := lib.Categories(); len(got) != 1 || got[0] != "Writing" {
		t.Fatalf("expected categories applied, got %v", got)
	}
	if got := lib.Prompts(); len(got) != 0 {
		t.Fatalf("expected no prompts applied, got %#v", got)
	}
}

func TestAddPrependsAndGrowsCategories(t *testing.T) {
	fake := newFakeStore()
	fake.seed("Foo", "foo body", "Writing")
	lib := New(fake)
	if err := lib.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	before := lib.Categories()

	created, err := lib.Add(context.Background(), "Bar", "bar body", "Code")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected store-assigned id")
	}
	prompts := lib.Prompts()
	if prompts[0].ID != created.ID {
		t.Fatalf("expected new prompt first, got %#v", prompts[0])
	}
	after := lib.Categories()
	if len(after) != len(before)+1 || after[len(after)-1] != "Code" {
		t.Fatalf("expected category set to grow with Code, got %v", after)
	}
}

func TestAddFailureLeavesStateUnchanged(t *testing.T) {
	fake := newFakeStore()
	fake.seed("Foo", "foo body", "Writing")
	fake.createErrByTitle["Bad"] = errors.New("insert rejected")
	lib := New(fake)
	if err := lib.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	before := lib.Prompts()

	if _, err := lib.Add(context.Background(), "Bad", "body", "Code"); err == nil {
		t.Fatal("expected add to fail")
	}
	after := lib.Prompts()
	if len(after) != len(before) {
		t.Fatalf("expected prompts unchanged, got %d then %d", len(before), len(after))
	}
	if got := lib.Categories(); len(got) != 1 {
		t.Fatalf("expected categories unchanged, got %v", got)
	}
}

func TestEditReplacesInPlace(t *testing.T) {
	fake := newFakeStore()
	first := fake.seed("Foo", "foo body", "Writing")
	fake.seed("Bar", "bar body", "Writing")
	lib := New(fake)
	if err := lib.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	updated, err := lib.Edit(context.Background(), first.ID, "Foo v2", "new body", "Code")
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	prompts := lib.Prompts()
	if prompts[1].ID != first.ID || prompts[1].Title != "Foo v2" {
		t.Fatalf("expected in-place replacement, got %#v", prompts)
	}
	if updated.Category != "Code" {
		t.Fatalf("expected returned record, got %#v", updated)
	}
	categories := lib.Categories()
	if categories[len(categories)-1] != "Code" {
		t.Fatalf("expected category set to grow, got %v", categories)
	}
}

func TestEditFailureLeavesPromptUntouched(t *testing.T) {
	fake := newFakeStore()
	target := fake.seed("Foo", "foo body", "Writing")
	fake.updateErrs[target.ID] = errors.New("update rejected")
	lib := New(fake)
	if err := lib.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	before := lib.Prompts()[0]

	if _, err := lib.Edit(context.Background(), target.ID, "Changed", "changed", "Changed"); err == nil {
		t.Fatal("expected edit to fail")
	}
	after := lib.Prompts()[0]
	if before != after {
		t.Fatalf("expected prompt unchanged, got %#v then %#v", before, after)
	}
}

func TestDeleteKeepsSharedCategory(t *testing.T) {
	fake := newFakeStore()
	first := fake.seed("Foo", "foo body", "X")
	fake.seed("Bar", "bar body", "X")
	lib := New(fake)
	if err := lib.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	if err := lib.Delete(context.Background(), first.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := lib.Prompts(); len(got) != 1 {
		t.Fatalf("expected 1 prompt left, got %#v", got)
	}
	categories := lib.Categories()
	if len(categories) != 1 || categories[0] != "X" {
		t.Fatalf("expected X to survive, got %v", categories)
	}
}

func TestDeleteDropsUnreferencedCategory(t *testing.T) {
	fake := newFakeStore()
	fake.seed("Foo", "foo body", "Writing")
	only := fake.seed("Bar", "bar body", "Code")
	lib := New(fake)
	if err := lib.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	if err := lib.Delete(context.Background(), only.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	categories := lib.Categories()
	if len(categories) != 1 || categories[0] != "Writing" {
		t.Fatalf("expected Code to drop out, got %v", categories)
	}
}

func TestSaveAllClassification(t *testing.T) {
	fake := newFakeStore()
	existing := fake.seed("Foo", "foo body", "Writing")
	lib := New(fake)
	if err := lib.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	// Simulate an unsaved local prompt by mutating the mirror directly.
	lib.mu.Lock()
	lib.prompts = append(lib.prompts, db.Prompt{Title: "Bar", Content: "bar body", Category: "Code"})
	lib.mu.Unlock()

	result, err := lib.SaveAll(context.Background())
	if err != nil {
		t.Fatalf("save all failed: %v", err)
	}
	if len(fake.updateCalls) != 1 || fake.updateCalls[0] != existing.ID {
		t.Fatalf("expected exactly one update for %s, got %v", existing.ID, fake.updateCalls)
	}
	if len(fake.batchSizes) != 1 || fake.batchSizes[0] != 1 {
		t.Fatalf("expected one batch create of size 1, got %v", fake.batchSizes)
	}
	if len(result.Succeeded) != 2 || len(result.Failed) != 0 {
		t.Fatalf("expected 2 successes, got %#v", result)
	}
}

func TestSaveAllUpdateFailureContinues(t *testing.T) {
	fake := newFakeStore()
	first := fake.seed("Foo", "foo body", "Writing")
	second := fake.seed("Bar", "bar body", "Writing")
	fake.updateErrs[second.ID] = errors.New("update rejected")
	lib := New(fake)
	if err := lib.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	result, err := lib.SaveAll(context.Background())
	if err != nil {
		t.Fatalf("save all failed: %v", err)
	}
	if len(fake.updateCalls) != 2 {
		t.Fatalf("expected both updates attempted, got %v", fake.updateCalls)
	}
	if len(result.Failed) != 1 || result.Failed[0].Prompt.ID != second.ID {
		t.Fatalf("expected %s in failures, got %#v", second.ID, result.Failed)
	}
	if len(result.Succeeded) != 1 || result.Succeeded[0].ID != first.ID {
		t.Fatalf("expected %s to succeed, got %#v", first.ID, result.Succeeded)
	}
}

func TestSaveAllBatchFailureAborts(t *testing.T) {
	fake := newFakeStore()
	fake.seed("Foo", "foo body", "Writing")
	fake.batchErr = errors.New("insert rejected")
	lib := New(fake)
	if err := lib.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	lib.mu.Lock()
	lib.prompts = append(lib.prompts, db.Prompt{Title: "Bar", Content: "bar body", Category: "Code"})
	lib.mu.Unlock()

	result, err := lib.SaveAll(context.Background())
	if err == nil {
		t.Fatal("expected batch failure to surface")
	}
	if len(result.Failed) != 1 || result.Failed[0].Prompt.Title != "Bar" {
		t.Fatalf("expected the create marked failed, got %#v", result.Failed)
	}
	if len(fake.updateCalls) != 0 {
		t.Fatalf("expected no updates after batch failure, got %v", fake.updateCalls)
	}
}

func TestImportDefaults(t *testing.T) {
	fake := newFakeStore()
	lib := New(fake)
	if err := lib.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	result, err := lib.Import(context.Background(), []byte(`{"prompts":[{"content":"hi"}],"categories":[]}`))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(result.Succeeded) != 1 {
		t.Fatalf("expected 1 created prompt, got %#v", result)
	}
	created := result.Succeeded[0]
	if created.Title != "Untitled Prompt" || created.Category != "General" || created.Content != "hi" {
		t.Fatalf("expected defaults applied, got %#v", created)
	}
}

func TestImportMissingFieldRejected(t *testing.T) {
	fake := newFakeStore()
	lib := New(fake)

	_, err := lib.Import(context.Background(), []byte(`{"prompts":[]}`))
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if fake.createCalls != 0 {
		t.Fatalf("expected no store calls, got %d creates", fake.createCalls)
	}
}

func TestImportDiscardsIDs(t *testing.T) {
	fake := newFakeStore()
	existing := fake.seed("Foo", "foo body", "Writing")
	lib := New(fake)
	if err := lib.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	payload := fmt.Sprintf(`{"prompts":[{"id":%q,"title":"Copy","content":"body","category":"Writing"}],"categories":["Writing"]}`, existing.ID)
	result, err := lib.Import(context.Background(), []byte(payload))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(result.Succeeded) != 1 || result.Succeeded[0].ID == existing.ID {
		t.Fatalf("expected a fresh id, got %#v", result.Succeeded)
	}
	if len(fake.updateCalls) != 0 {
		t.Fatalf("expected no updates during import, got %v", fake.updateCalls)
	}
}

func TestImportPartialFailureContinues(t *testing.T) {
	fake := newFakeStore()
	fake.createErrByTitle["Bad"] = errors.New("insert rejected")
	lib := New(fake)
	if err := lib.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	payload := `{"prompts":[{"title":"Bad","content":"x","category":"C"},{"title":"Good","content":"y","category":"C"}],"categories":["C"]}`
	result, err := lib.Import(context.Background(), []byte(payload))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(result.Succeeded) != 1 || result.Succeeded[0].Title != "Good" {
		t.Fatalf("expected Good to persist, got %#v", result.Succeeded)
	}
	if len(result.Failed) != 1 || result.Failed[0].Prompt.Title != "Bad" {
		t.Fatalf("expected Bad in failures, got %#v", result.Failed)
	}
}

func TestImportUnionsCategories(t *testing.T) {
	fake := newFakeStore()
	lib := New(fake)
	if err := lib.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	payload := `{"prompts":[],"categories":["Research","Ideas"]}`
	if _, err := lib.Import(context.Background(), []byte(payload)); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	categories := lib.Categories()
	want := map[string]bool{"Research": false, "Ideas": false}
	for _, label := range categories {
		if _, ok := want[label]; ok {
			want[label] = true
		}
	}
	for label, seen := range want {
		if !seen {
			t.Fatalf("expected %s in category set, got %v", label, categories)
		}
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	source := newFakeStore()
	sourceLib := New(source)
	if err := sourceLib.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if _, err := sourceLib.Add(context.Background(), "Foo", "foo body", "Writing"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := sourceLib.Add(context.Background(), "Bar", "bar\n  body", "Code"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	raw, err := json.Marshal(sourceLib.Export())
	if err != nil {
		t.Fatalf("export encode failed: %v", err)
	}

	dest := newFakeStore()
	destLib := New(dest)
	if err := destLib.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	result, err := destLib.Import(context.Background(), raw)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(result.Failed) != 0 {
		t.Fatalf("expected clean import, got failures %#v", result.Failed)
	}

	type tuple struct{ title, content, category string }
	collect := func(prompts []db.Prompt) map[tuple]int {
		out := make(map[tuple]int)
		for _, p := range prompts {
			out[tuple{p.Title, p.Content, p.Category}]++
		}
		return out
	}
	got := collect(destLib.Prompts())
	want := collect(sourceLib.Prompts())
	if len(got) != len(want) {
		t.Fatalf("expected %d distinct tuples, got %d", len(want), len(got))
	}
	for k, n := range want {
		if got[k] != n {
			t.Fatalf("tuple %v: expected %d, got %d", k, n, got[k])
		}
	}
}
