package models

import "time"

type User struct {
	ID             uint `gorm:"primarykey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Email          string     `gorm:"uniqueIndex;not null"`
	PasswordHash   string     `gorm:"not null"`
	PlanStatus     PlanStatus `gorm:"type:varchar(20);not null;default:'free'"`
	CreditsBalance int        `gorm:"not null;default:0"`
	// LastCreditReset is nil until the first free-tier refill. Stored in UTC.
	LastCreditReset *time.Time
	Version         int `gorm:"default:1"`
}
