package models

import "time"

type EventType string

const (
	EventAccessDenied     EventType = "access_denied"
	EventStoreError       EventType = "store_error"
	EventTimestampAnomaly EventType = "timestamp_anomaly"
	EventCreditsReset     EventType = "credits_reset"
	EventRewriteFailed    EventType = "rewrite_failed"
	EventLogWriteFailed   EventType = "log_write_failed"
)

// SystemEvent is a best-effort diagnostic record. Writes to it must never
// block or fail a user-facing flow.
type SystemEvent struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UserID    uint      `gorm:"index"`
	EventType EventType `gorm:"type:varchar(50);index;not null"`
	Details   string    `gorm:"type:text"`
}
