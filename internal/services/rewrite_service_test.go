package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"docketclear-backend/internal/database"
	"docketclear-backend/internal/models"
	"docketclear-backend/internal/rewriter"

	"github.com/stretchr/testify/assert"
)

type stubRewriter struct {
	result *rewriter.Result
	err    error
	calls  int
}

func (s *stubRewriter) Rewrite(ctx context.Context, req rewriter.Request) (*rewriter.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testRewriteRequest() rewriter.Request {
	return rewriter.Request{
		DocumentType: rewriter.DocOrder,
		Tone:         rewriter.ToneEmpathetic,
		ClientName:   "Joan",
		SourceText:   "The court hereby orders...",
	}
}

func TestGenerateParaphraseSuccess(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, models.PlanFree, 3, nil)
	rw := &stubRewriter{result: &rewriter.Result{
		Text:      "Hi Joan, the judge made a ruling today.",
		TokensIn:  100,
		TokensOut: 40,
		Model:     "gemini-2.5-flash-lite",
	}}

	entry, err := GenerateParaphrase(context.Background(), user.ID, rw, testRewriteRequest())
	assert.NoError(t, err)
	assert.Equal(t, "Hi Joan, the judge made a ruling today.", entry.OutputText)
	assert.Equal(t, 1, rw.calls)

	// One credit debited, one audit record written
	assert.Equal(t, 2, reloadUser(t, user.ID).CreditsBalance)

	var logCount int64
	database.DB.Model(&models.GenerationLog{}).Where("user_id = ?", user.ID).Count(&logCount)
	assert.Equal(t, int64(1), logCount)
}

func TestGenerateParaphraseRewriteFailureDoesNotBill(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, models.PlanFree, 3, nil)
	rw := &stubRewriter{err: errors.New("upstream timeout")}

	_, err := GenerateParaphrase(context.Background(), user.ID, rw, testRewriteRequest())
	assert.ErrorIs(t, err, ErrRewriteFailed)

	// No debit, no audit record
	assert.Equal(t, 3, reloadUser(t, user.ID).CreditsBalance)

	var logCount int64
	database.DB.Model(&models.GenerationLog{}).Where("user_id = ?", user.ID).Count(&logCount)
	assert.Equal(t, int64(0), logCount)

	// But a diagnostic event exists
	var eventCount int64
	database.DB.Model(&models.SystemEvent{}).
		Where("user_id = ? AND event_type = ?", user.ID, models.EventRewriteFailed).
		Count(&eventCount)
	assert.Equal(t, int64(1), eventCount)
}

func TestGenerateParaphraseDeniedWithoutCredits(t *testing.T) {
	setupTestDB(t)

	recent := time.Now().UTC().Add(-time.Hour)
	user := createTestUser(t, models.PlanFree, 0, &recent)
	rw := &stubRewriter{result: &rewriter.Result{Text: "never seen"}}

	_, err := GenerateParaphrase(context.Background(), user.ID, rw, testRewriteRequest())
	assert.ErrorIs(t, err, ErrGenerationNotAllowed)
	assert.Equal(t, 0, rw.calls, "rewriter must not be called when the quota gate denies")
}

func TestGenerateParaphraseUnknownUser(t *testing.T) {
	setupTestDB(t)

	rw := &stubRewriter{result: &rewriter.Result{Text: "never seen"}}

	_, err := GenerateParaphrase(context.Background(), 55555, rw, testRewriteRequest())
	assert.ErrorIs(t, err, ErrGenerationNotAllowed)
	assert.Equal(t, 0, rw.calls)
}

func TestGenerateParaphrasePaidPlanUnmetered(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, models.PlanProAnnual, 0, nil)
	rw := &stubRewriter{result: &rewriter.Result{Text: "ok", Model: "gemini-2.5-flash-lite"}}

	for i := 0; i < 5; i++ {
		_, err := GenerateParaphrase(context.Background(), user.ID, rw, testRewriteRequest())
		assert.NoError(t, err)
	}

	assert.Equal(t, 0, reloadUser(t, user.ID).CreditsBalance)
	assert.Equal(t, 5, rw.calls)
}

// Full free-tier lifecycle: signup, three generations, exhaustion, refill
// after the window elapses.
func TestFreeTierLifecycle(t *testing.T) {
	setupTestDB(t)

	user, err := RegisterUser("lifecycle@example.com", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, FreeTierCredits, user.CreditsBalance)

	rw := &stubRewriter{result: &rewriter.Result{Text: "plain words", Model: "gemini-2.5-flash-lite"}}

	for i := 0; i < FreeTierCredits; i++ {
		_, err := GenerateParaphrase(context.Background(), user.ID, rw, testRewriteRequest())
		assert.NoError(t, err)
	}

	assert.Equal(t, 0, reloadUser(t, user.ID).CreditsBalance)

	// Fourth attempt is blocked
	_, err = GenerateParaphrase(context.Background(), user.ID, rw, testRewriteRequest())
	assert.ErrorIs(t, err, ErrGenerationNotAllowed)
	assert.Equal(t, FreeTierCredits, rw.calls)

	// Simulate the 24h window elapsing
	past := time.Now().UTC().Add(-25 * time.Hour)
	database.DB.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("last_credit_reset", past)

	assert.NoError(t, RefreshFreeCreditsIfNeeded(user.ID))
	assert.Equal(t, FreeTierCredits, reloadUser(t, user.ID).CreditsBalance)

	_, err = GenerateParaphrase(context.Background(), user.ID, rw, testRewriteRequest())
	assert.NoError(t, err)
}
