package db

import (
	"time"

	"gorm.io/datatypes"
)

// Prompt is the single persisted entity: a titled block of text filed under a
// free-form category label. The id and timestamps are assigned by Postgres;
// clients never mint ids for stored rows.
type Prompt struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Category  string    `gorm:"size:64;not null;index" json:"category"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Event is an append-only trace of store mutations.
type Event struct {
	ID        uint           `gorm:"primaryKey"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
