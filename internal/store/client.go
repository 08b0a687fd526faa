package store

import (
	"context"
	"log"

	"prompt-library/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Client implements Store against Postgres. It is constructed once by the
// composition root and injected into the engine; it holds no state beyond
// the connection.
type Client struct {
	conn *gorm.DB
}

func NewClient(conn *gorm.DB) *Client {
	return &Client{conn: conn}
}

// Initialize probes connectivity and schema presence. It replaces any
// load-time self-test: the caller decides what to do with the result.
func (c *Client) Initialize(ctx context.Context) error {
	count, err := c.Count(ctx)
	if err != nil {
		storeErr := normalizeError("initialize", err)
		switch storeErr.Code {
		case CodePermissionDenied:
			log.Println("store initialize failed: permission denied; check database grants for the prompts table")
		case CodeUndefinedTable:
			log.Println("store initialize failed: prompts table does not exist; run cmd/migrate")
		default:
			log.Printf("store initialize failed: %v", storeErr)
		}
		return storeErr
	}
	log.Printf("store connection ok, prompt count=%d", count)
	return nil
}

func (c *Client) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := c.conn.WithContext(ctx).Model(&db.Prompt{}).Count(&count).Error; err != nil {
		return 0, normalizeError("count prompts", err)
	}
	return count, nil
}

func (c *Client) List(ctx context.Context) ([]db.Prompt, error) {
	// Count probe first: an empty table short-circuits the full fetch.
	count, err := c.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		log.Println("no prompts in store")
		return []db.Prompt{}, nil
	}
	var prompts []db.Prompt
	if err := c.conn.WithContext(ctx).Order("created_at DESC").Find(&prompts).Error; err != nil {
		return nil, normalizeError("list prompts", err)
	}
	log.Printf("fetched %d prompts", len(prompts))
	return prompts, nil
}

func (c *Client) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.conn.WithContext(ctx).Model(&db.Prompt{}).Pluck("id", &ids).Error; err != nil {
		return nil, normalizeError("list prompt ids", err)
	}
	return ids, nil
}

func (c *Client) Create(ctx context.Context, draft Draft) (db.Prompt, error) {
	record := db.Prompt{
		Title:    draft.Title,
		Content:  draft.Content,
		Category: draft.Category,
	}
	result := c.conn.WithContext(ctx).Create(&record)
	if result.Error != nil {
		return db.Prompt{}, normalizeError("create prompt", result.Error)
	}
	if result.RowsAffected == 0 || record.ID == "" {
		return db.Prompt{}, &StoreError{Code: CodeNoRows, Message: "create prompt: no row returned by insert"}
	}
	log.Printf("prompt created id=%s category=%s", record.ID, record.Category)
	c.appendEvent(ctx, "prompt_created", eventPayload{PromptID: record.ID, Category: record.Category})
	return record, nil
}

func (c *Client) CreateBatch(ctx context.Context, drafts []Draft) ([]db.Prompt, error) {
	if len(drafts) == 0 {
		return []db.Prompt{}, nil
	}
	records := make([]db.Prompt, 0, len(drafts))
	for _, draft := range drafts {
		records = append(records, db.Prompt{
			Title:    draft.Title,
			Content:  draft.Content,
			Category: draft.Category,
		})
	}
	if err := c.conn.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, normalizeError("batch create prompts", err)
	}
	log.Printf("batch created %d prompts", len(records))
	c.appendEvent(ctx, "prompts_batch_created", eventPayload{Count: len(records)})
	return records, nil
}

func (c *Client) Update(ctx context.Context, id string, draft Draft) (db.Prompt, error) {
	var record db.Prompt
	result := c.conn.WithContext(ctx).
		Model(&record).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":    draft.Title,
			"content":  draft.Content,
			"category": draft.Category,
		})
	if result.Error != nil {
		return db.Prompt{}, normalizeError("update prompt", result.Error)
	}
	if result.RowsAffected == 0 {
		return db.Prompt{}, notFoundError("update prompt", id)
	}
	log.Printf("prompt updated id=%s", id)
	c.appendEvent(ctx, "prompt_updated", eventPayload{PromptID: id, Category: record.Category})
	return record, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	// Idempotent: a missing row is not reported by the store interface, so
	// it is not distinguishable from success here either.
	if err := c.conn.WithContext(ctx).Delete(&db.Prompt{}, "id = ?", id).Error; err != nil {
		return normalizeError("delete prompt", err)
	}
	log.Printf("prompt deleted id=%s", id)
	c.appendEvent(ctx, "prompt_deleted", eventPayload{PromptID: id})
	return nil
}

func (c *Client) ListDistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := c.conn.WithContext(ctx).
		Model(&db.Prompt{}).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, normalizeError("list categories", err)
	}
	if len(categories) == 0 {
		return []string{DefaultCategory}, nil
	}
	log.Printf("fetched %d categories", len(categories))
	return categories, nil
}
