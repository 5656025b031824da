package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"docketclear-backend/internal/models"
	"docketclear-backend/internal/rewriter"

	"go.uber.org/zap"
)

// ErrGenerationNotAllowed is returned when the quota engine denies the
// request: missing account, unknown plan, or an exhausted free balance.
var ErrGenerationNotAllowed = errors.New("generation not allowed: no credits remaining or access denied")

// ErrRewriteFailed wraps any rewriter failure or timeout. It is retryable:
// nothing was debited and nothing was logged.
var ErrRewriteFailed = errors.New("rewrite failed, please try again")

// GenerateParaphrase runs the full paraphrase sequence for one request:
// opportunistic credit refresh, quota gate, rewriter call, audit log, debit.
// The debit happens only after a confirmed rewrite; the audit write is best
// effort and never blocks the response.
func GenerateParaphrase(ctx context.Context, userID uint, rw rewriter.Rewriter, req rewriter.Request) (*models.GenerationLog, error) {
	if err := RefreshFreeCreditsIfNeeded(userID); err != nil {
		// Refresh is opportunistic; the quota gate below still decides.
		zap.L().Warn("credit refresh failed", zap.Uint("user_id", userID), zap.Error(err))
	}

	if !CanGenerate(userID) {
		return nil, ErrGenerationNotAllowed
	}

	start := time.Now()
	result, err := rw.Rewrite(ctx, req)
	if err != nil {
		LogEvent(userID, models.EventRewriteFailed, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrRewriteFailed, err)
	}

	entry := &models.GenerationLog{
		CreatedAt:    time.Now().UTC(),
		UserID:       userID,
		InputText:    req.SourceText,
		OutputText:   result.Text,
		ModelUsed:    result.Model,
		TokensInput:  result.TokensIn,
		TokensOutput: result.TokensOut,
		LatencyMs:    time.Since(start).Milliseconds(),
	}

	if err := LogGeneration(entry); err != nil {
		zap.L().Warn("audit log write failed", zap.Uint("user_id", userID), zap.Error(err))
		LogEvent(userID, models.EventLogWriteFailed, err.Error())
	}

	if err := DebitCredit(userID); err != nil {
		// Store error during debit; the event is already recorded inside.
		zap.L().Warn("credit debit failed", zap.Uint("user_id", userID), zap.Error(err))
	}

	return entry, nil
}
