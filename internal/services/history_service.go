package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"docketclear-backend/internal/database"
	"docketclear-backend/internal/models"

	"go.uber.org/zap"
)

const (
	freeRetentionWindow = 24 * time.Hour
	paidRetentionWindow = 30 * 24 * time.Hour
)

// RetentionWindow is the plan-dependent lookback for history visibility.
func RetentionWindow(plan models.PlanStatus) time.Duration {
	if plan == models.PlanFree {
		return freeRetentionWindow
	}
	return paidRetentionWindow
}

// LogGeneration appends one audit record. The rewrite flow ignores a failed
// write for the user-facing path but routes it to the diagnostic sink.
func LogGeneration(entry *models.GenerationLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return database.DB.Create(entry).Error
}

// GetHistory returns the user's entries inside the plan's retention window,
// newest first. A store failure or an empty window both yield an empty
// slice, never an error: history is a convenience view, not a gate.
func GetHistory(userID uint, plan models.PlanStatus) []models.GenerationLog {
	cutoff := time.Now().UTC().Add(-RetentionWindow(plan))

	var entries []models.GenerationLog
	err := database.DB.
		Where("user_id = ? AND created_at >= ?", userID, cutoff).
		Order("created_at desc").
		Find(&entries).Error
	if err != nil {
		zap.L().Warn("history fetch failed", zap.Uint("user_id", userID), zap.Error(err))
		LogEvent(userID, models.EventStoreError, fmt.Sprintf("history fetch: %v", err))
		return []models.GenerationLog{}
	}

	return entries
}

// GenerationLogFilter defines criteria for the admin log listing.
type GenerationLogFilter struct {
	UserID    *uint
	Model     *string
	StartTime *time.Time
	EndTime   *time.Time
	Page      int
	Limit     int
}

// FindGenerationLogs retrieves a paginated, filtered list of audit records.
func FindGenerationLogs(filter GenerationLogFilter) ([]models.GenerationLog, int64, error) {
	var entries []models.GenerationLog
	var total int64

	query := database.DB.Model(&models.GenerationLog{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Model != nil {
		query = query.Where("model_used = ?", *filter.Model)
	}
	if filter.StartTime != nil {
		query = query.Where("created_at >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("created_at <= ?", *filter.EndTime)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("created_at desc").Limit(filter.Limit).Offset(offset).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// GenerateHistoryCSV renders audit records as a CSV export.
func GenerateHistoryCSV(entries []models.GenerationLog) ([]byte, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{
		"ID", "Time", "User ID", "Model",
		"Tokens In", "Tokens Out", "Latency (ms)",
		"Input Text", "Output Text",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, e := range entries {
		record := []string{
			fmt.Sprintf("%d", e.ID),
			e.CreatedAt.Format(time.RFC3339),
			fmt.Sprintf("%d", e.UserID),
			e.ModelUsed,
			fmt.Sprintf("%d", e.TokensInput),
			fmt.Sprintf("%d", e.TokensOutput),
			fmt.Sprintf("%d", e.LatencyMs),
			e.InputText,
			e.OutputText,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
