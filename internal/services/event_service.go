package services

import (
	"docketclear-backend/internal/database"
	"docketclear-backend/internal/models"
	"time"

	"go.uber.org/zap"
)

// LogEvent records a diagnostic event. Best effort: a failed write is logged
// and dropped, never surfaced to the caller.
func LogEvent(userID uint, eventType models.EventType, details string) {
	if database.DB == nil {
		return
	}

	event := &models.SystemEvent{
		CreatedAt: time.Now().UTC(),
		UserID:    userID,
		EventType: eventType,
		Details:   details,
	}

	if err := database.DB.Create(event).Error; err != nil {
		zap.L().Warn("failed to record system event",
			zap.Uint("user_id", userID),
			zap.String("event_type", string(eventType)),
			zap.Error(err),
		)
	}
}

// FindEvents retrieves a paginated list of system events, newest first.
func FindEvents(userID *uint, eventType *models.EventType, page, limit int) ([]models.SystemEvent, int64, error) {
	var events []models.SystemEvent
	var total int64

	query := database.DB.Model(&models.SystemEvent{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if eventType != nil {
		query = query.Where("event_type = ?", *eventType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}
