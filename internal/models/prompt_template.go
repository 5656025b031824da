package models

import "time"

// PromptTemplate holds the admin-editable rewrite instruction for one
// document type. When no row exists for a type, the rewriter falls back to
// its built-in default.
type PromptTemplate struct {
	ID           uint `gorm:"primarykey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DocumentType string `gorm:"uniqueIndex;type:varchar(50);not null"`
	Content      string `gorm:"type:text;not null"`
}
