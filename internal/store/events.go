package store

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"prompt-library/internal/db"

	"gorm.io/datatypes"
)

type eventPayload struct {
	PromptID string `json:"prompt_id,omitempty"`
	Category string `json:"category,omitempty"`
	Count    int    `json:"count,omitempty"`
}

// appendEvent records a mutation trace. Event rows are best-effort: a failed
// append is logged and never fails the operation that triggered it.
func (c *Client) appendEvent(ctx context.Context, eventType string, payload eventPayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("event payload encode failed type=%s: %v", eventType, err)
		return
	}
	event := db.Event{
		Type:      eventType,
		Payload:   datatypes.JSON(data),
		CreatedAt: time.Now().UTC(),
	}
	if err := c.conn.WithContext(ctx).Create(&event).Error; err != nil {
		log.Printf("event append failed type=%s: %v", eventType, err)
	}
}
