package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"docketclear-backend/internal/database"
	"docketclear-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

var testUserSeq uint64

func createTestUser(t *testing.T, plan models.PlanStatus, credits int, lastReset *time.Time) models.User {
	t.Helper()

	user := models.User{
		Email:           fmt.Sprintf("%s-%d@example.com", plan, atomic.AddUint64(&testUserSeq, 1)),
		PasswordHash:    "x",
		PlanStatus:      plan,
		CreditsBalance:  credits,
		LastCreditReset: lastReset,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func reloadUser(t *testing.T, id uint) models.User {
	t.Helper()

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	return user
}

func TestCanGenerate(t *testing.T) {
	setupTestDB(t)

	tests := []struct {
		name    string
		plan    models.PlanStatus
		credits int
		want    bool
	}{
		{"free with credits", models.PlanFree, 1, true},
		{"free without credits", models.PlanFree, 0, false},
		{"free with negative balance", models.PlanFree, -2, false},
		{"pro monthly with zero balance", models.PlanProMonthly, 0, true},
		{"pro annual with zero balance", models.PlanProAnnual, 0, true},
		{"admin with negative balance", models.PlanAdmin, -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := createTestUser(t, tt.plan, tt.credits, nil)
			assert.Equal(t, tt.want, CanGenerate(user.ID))
		})
	}
}

func TestCanGenerateUnknownUserFailsClosed(t *testing.T) {
	setupTestDB(t)

	assert.False(t, CanGenerate(99999))

	// A denial event must be recorded
	var count int64
	database.DB.Model(&models.SystemEvent{}).
		Where("user_id = ? AND event_type = ?", 99999, models.EventAccessDenied).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCanGenerateUnknownPlanFailsClosed(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, models.PlanFree, 5, nil)
	database.DB.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("plan_status", "enterprise")

	assert.False(t, CanGenerate(user.ID))
}

func TestDebitCredit(t *testing.T) {
	setupTestDB(t)

	t.Run("free account loses exactly one credit", func(t *testing.T) {
		user := createTestUser(t, models.PlanFree, 3, nil)

		assert.NoError(t, DebitCredit(user.ID))
		assert.Equal(t, 2, reloadUser(t, user.ID).CreditsBalance)
	})

	t.Run("never goes below zero", func(t *testing.T) {
		user := createTestUser(t, models.PlanFree, 1, nil)

		assert.NoError(t, DebitCredit(user.ID))
		assert.NoError(t, DebitCredit(user.ID))
		assert.NoError(t, DebitCredit(user.ID))
		assert.Equal(t, 0, reloadUser(t, user.ID).CreditsBalance)
	})

	t.Run("paid plans are never debited", func(t *testing.T) {
		for _, plan := range []models.PlanStatus{models.PlanProMonthly, models.PlanProAnnual, models.PlanAdmin} {
			user := createTestUser(t, plan, 7, nil)
			assert.NoError(t, DebitCredit(user.ID))
			assert.NoError(t, DebitCredit(user.ID))
			assert.Equal(t, 7, reloadUser(t, user.ID).CreditsBalance)
		}
	})

	t.Run("missing user is a no-op", func(t *testing.T) {
		assert.NoError(t, DebitCredit(424242))
	})
}

func TestRefreshFreeCreditsFirstRun(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, models.PlanFree, 0, nil)

	assert.NoError(t, RefreshFreeCreditsIfNeeded(user.ID))

	got := reloadUser(t, user.ID)
	assert.Equal(t, FreeTierCredits, got.CreditsBalance)
	assert.NotNil(t, got.LastCreditReset)
}

func TestRefreshFreeCreditsAfterWindow(t *testing.T) {
	setupTestDB(t)

	past := time.Now().UTC().Add(-25 * time.Hour)
	user := createTestUser(t, models.PlanFree, 0, &past)

	assert.NoError(t, RefreshFreeCreditsIfNeeded(user.ID))

	got := reloadUser(t, user.ID)
	assert.Equal(t, FreeTierCredits, got.CreditsBalance)
	assert.WithinDuration(t, time.Now().UTC(), *got.LastCreditReset, time.Minute)
}

func TestRefreshFreeCreditsInsideWindowIsNoOp(t *testing.T) {
	setupTestDB(t)

	recent := time.Now().UTC().Add(-1 * time.Hour)
	user := createTestUser(t, models.PlanFree, 1, &recent)

	assert.NoError(t, RefreshFreeCreditsIfNeeded(user.ID))

	got := reloadUser(t, user.ID)
	assert.Equal(t, 1, got.CreditsBalance)
	assert.WithinDuration(t, recent, *got.LastCreditReset, time.Second)
}

func TestRefreshFreeCreditsIdempotent(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, models.PlanFree, 0, nil)

	assert.NoError(t, RefreshFreeCreditsIfNeeded(user.ID))
	first := reloadUser(t, user.ID)

	// Immediate second call must not move the reset timestamp again
	assert.NoError(t, RefreshFreeCreditsIfNeeded(user.ID))
	second := reloadUser(t, user.ID)

	assert.Equal(t, FreeTierCredits, second.CreditsBalance)
	assert.Equal(t, first.LastCreditReset.Unix(), second.LastCreditReset.Unix())
}

func TestRefreshFreeCreditsSkipsPaidPlans(t *testing.T) {
	setupTestDB(t)

	past := time.Now().UTC().Add(-48 * time.Hour)
	for _, plan := range []models.PlanStatus{models.PlanProMonthly, models.PlanProAnnual, models.PlanAdmin} {
		user := createTestUser(t, plan, 0, &past)

		assert.NoError(t, RefreshFreeCreditsIfNeeded(user.ID))

		got := reloadUser(t, user.ID)
		assert.Equal(t, 0, got.CreditsBalance)
		assert.WithinDuration(t, past, *got.LastCreditReset, time.Second)
	}
}

func TestRefreshFreeCreditsFutureTimestampForcesRefill(t *testing.T) {
	setupTestDB(t)

	future := time.Now().UTC().Add(12 * time.Hour)
	user := createTestUser(t, models.PlanFree, 0, &future)

	assert.NoError(t, RefreshFreeCreditsIfNeeded(user.ID))

	got := reloadUser(t, user.ID)
	assert.Equal(t, FreeTierCredits, got.CreditsBalance)
	assert.WithinDuration(t, time.Now().UTC(), *got.LastCreditReset, time.Minute)

	var count int64
	database.DB.Model(&models.SystemEvent{}).
		Where("user_id = ? AND event_type = ?", user.ID, models.EventTimestampAnomaly).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestTimeUntilNextReset(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("nil is due now", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), timeUntilNextReset(nil, now))
	})

	t.Run("exactly 24h ago is due now", func(t *testing.T) {
		last := now.Add(-24 * time.Hour)
		assert.Equal(t, time.Duration(0), timeUntilNextReset(&last, now))
	})

	t.Run("23h ago leaves one hour", func(t *testing.T) {
		last := now.Add(-23 * time.Hour)
		assert.Equal(t, time.Hour, timeUntilNextReset(&last, now))
	})

	t.Run("25h ago is due now", func(t *testing.T) {
		last := now.Add(-25 * time.Hour)
		assert.Equal(t, time.Duration(0), timeUntilNextReset(&last, now))
	})
}

func TestFormatResetCountdown(t *testing.T) {
	assert.Equal(t, "due now", FormatResetCountdown(0))
	assert.Equal(t, "due now", FormatResetCountdown(-time.Minute))
	assert.Equal(t, "1h 0min", FormatResetCountdown(time.Hour))
	assert.Equal(t, "23h 59min", FormatResetCountdown(23*time.Hour+59*time.Minute))
	assert.Equal(t, "0h 5min", FormatResetCountdown(5*time.Minute))
}
