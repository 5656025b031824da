package models

import "time"

// GenerationLog is the append-only audit record of one paraphrase operation.
// Rows are never updated or deleted by the application.
type GenerationLog struct {
	ID           uint      `gorm:"primarykey"`
	CreatedAt    time.Time `gorm:"index;precision:3"`
	UserID       uint      `gorm:"index;not null"`
	InputText    string    `gorm:"type:text;not null"`
	OutputText   string    `gorm:"type:text;not null"`
	ModelUsed    string    `gorm:"type:varchar(100)"`
	TokensInput  int       `gorm:"default:0"`
	TokensOutput int       `gorm:"default:0"`
	LatencyMs    int64     `gorm:"default:0"`
}
