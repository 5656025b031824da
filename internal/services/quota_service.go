package services

import (
	"errors"
	"fmt"
	"time"

	"docketclear-backend/internal/database"
	"docketclear-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// FreeTierCredits is the balance a free account is refilled to.
	FreeTierCredits = 3

	// creditResetInterval is the rolling window between free-tier refills.
	creditResetInterval = 24 * time.Hour

	// clockSkewTolerance guards against a stored reset timestamp that sits
	// in the future relative to this process. Anything beyond it is treated
	// as a data anomaly and forces a refill.
	clockSkewTolerance = time.Minute
)

// CanGenerate reports whether the account may perform a paraphrase right
// now. It fails closed: a missing account, an unreadable store, or a plan
// value outside the known set all deny access. It has no side effects on
// the account row.
func CanGenerate(userID uint) bool {
	var user models.User
	err := database.DB.Select("plan_status", "credits_balance").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		LogEvent(userID, models.EventAccessDenied, "account not found")
		return false
	}
	if err != nil {
		zap.L().Warn("quota check failed, denying", zap.Uint("user_id", userID), zap.Error(err))
		LogEvent(userID, models.EventStoreError, fmt.Sprintf("quota check: %v", err))
		return false
	}

	switch user.PlanStatus {
	case models.PlanProMonthly, models.PlanProAnnual, models.PlanAdmin:
		return true
	case models.PlanFree:
		// A negative balance should not exist; treat it as zero.
		return user.CreditsBalance > 0
	default:
		LogEvent(userID, models.EventAccessDenied, fmt.Sprintf("unknown plan status %q", user.PlanStatus))
		return false
	}
}

// RefreshFreeCreditsIfNeeded refills a free account to FreeTierCredits when
// the 24-hour window has elapsed, when no reset has ever happened, or when
// the stored timestamp is unusable. Safe to call arbitrarily often: the
// write is a conditional update that matches at most once per window, so
// concurrent callers converge on a single reset.
func RefreshFreeCreditsIfNeeded(userID uint) error {
	var user models.User
	err := database.DB.Select("plan_status", "last_credit_reset").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		LogEvent(userID, models.EventStoreError, fmt.Sprintf("credit refresh: %v", err))
		return err
	}

	if user.PlanStatus != models.PlanFree {
		return nil
	}

	now := time.Now().UTC()
	if user.LastCreditReset != nil {
		last := *user.LastCreditReset
		if last.IsZero() || last.After(now.Add(clockSkewTolerance)) {
			LogEvent(userID, models.EventTimestampAnomaly,
				fmt.Sprintf("unusable last_credit_reset %q, forcing refill", last.Format(time.RFC3339)))
		} else if now.Sub(last.UTC()) < creditResetInterval {
			return nil
		}
	}

	cutoff := now.Add(-creditResetInterval)
	result := database.DB.Model(&models.User{}).
		Where("id = ? AND plan_status = ?", userID, models.PlanFree).
		Where("last_credit_reset IS NULL OR last_credit_reset <= ? OR last_credit_reset > ?",
			cutoff, now.Add(clockSkewTolerance)).
		Updates(map[string]interface{}{
			"credits_balance":   FreeTierCredits,
			"last_credit_reset": now,
		})
	if result.Error != nil {
		LogEvent(userID, models.EventStoreError, fmt.Sprintf("credit refresh write: %v", result.Error))
		return result.Error
	}

	if result.RowsAffected > 0 {
		InvalidateUserCache(userID)
		LogEvent(userID, models.EventCreditsReset, fmt.Sprintf("balance refilled to %d", FreeTierCredits))
	}

	return nil
}

// DebitCredit consumes one credit after a confirmed rewrite. The decrement
// is conditional on the row still being a free plan with a positive balance,
// so the balance never goes below zero and a since-upgraded account is never
// charged. A no-op outcome is not an error.
func DebitCredit(userID uint) error {
	result := database.DB.Model(&models.User{}).
		Where("id = ? AND plan_status = ? AND credits_balance > 0", userID, models.PlanFree).
		UpdateColumn("credits_balance", gorm.Expr("credits_balance - 1"))
	if result.Error != nil {
		LogEvent(userID, models.EventStoreError, fmt.Sprintf("credit debit: %v", result.Error))
		return result.Error
	}

	if result.RowsAffected > 0 {
		InvalidateUserCache(userID)
	}

	return nil
}

// TimeUntilNextReset returns how long until the free-tier window elapses.
// Zero means a reset is due now.
func TimeUntilNextReset(lastReset *time.Time) time.Duration {
	return timeUntilNextReset(lastReset, time.Now().UTC())
}

func timeUntilNextReset(lastReset *time.Time, now time.Time) time.Duration {
	if lastReset == nil || lastReset.IsZero() {
		return 0
	}

	remaining := creditResetInterval - now.Sub(lastReset.UTC())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FormatResetCountdown renders a duration from TimeUntilNextReset for
// display, e.g. "1h 0min" or "due now".
func FormatResetCountdown(d time.Duration) string {
	if d <= 0 {
		return "due now"
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dmin", hours, minutes)
}
