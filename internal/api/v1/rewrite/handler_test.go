package rewrite_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"docketclear-backend/internal/api/v1/rewrite"
	"docketclear-backend/internal/database"
	"docketclear-backend/internal/models"
	"docketclear-backend/internal/rewriter"
	"docketclear-backend/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	db.Migrator().DropTable(&models.User{}, &models.GenerationLog{}, &models.SystemEvent{})
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.GenerationLog{}, &models.SystemEvent{}))

	database.DB = db
}

func setupMockRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

type stubRewriter struct {
	result *rewriter.Result
	err    error
}

func (s *stubRewriter) Rewrite(_ context.Context, _ rewriter.Request) (*rewriter.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func setupRouter(u models.User, rw rewriter.Rewriter) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user", u)
		c.Next()
	})
	r.POST("/rewrite", rewrite.Generate(rw))
	return r
}

func postRewrite(r *gin.Engine, body map[string]any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, "/rewrite", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	validBody := map[string]any{
		"document_type": "order",
		"tone":          "formal",
		"client_name":   "Ms. Alvarez",
		"source_text":   "ORDER granting motion to continue. Hearing reset to 10/12.",
	}

	t.Run("Success Debits One Credit", func(t *testing.T) {
		setupTestDB(t)
		setupMockRedis(t)

		u := models.User{Email: "success@example.com", PasswordHash: "x", PlanStatus: models.PlanFree, CreditsBalance: 3}
		require.NoError(t, database.DB.Create(&u).Error)

		rw := &stubRewriter{result: &rewriter.Result{
			Text:      "Good news: the judge approved the request to move your hearing to October 12.",
			TokensIn:  42,
			TokensOut: 28,
			Model:     "gemini-2.5-flash-lite",
		}}

		w := postRewrite(setupRouter(u, rw), validBody)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Status int                     `json:"status"`
			Data   rewrite.RewriteResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 200, resp.Status)
		assert.Contains(t, resp.Data.Text, "October 12")
		assert.Equal(t, "gemini-2.5-flash-lite", resp.Data.ModelUsed)
		assert.Equal(t, 42, resp.Data.TokensInput)

		var reloaded models.User
		require.NoError(t, database.DB.First(&reloaded, u.ID).Error)
		assert.Equal(t, 2, reloaded.CreditsBalance)

		var logCount int64
		database.DB.Model(&models.GenerationLog{}).Where("user_id = ?", u.ID).Count(&logCount)
		assert.Equal(t, int64(1), logCount)
	})

	t.Run("Exhausted Free Plan Returns Forbidden", func(t *testing.T) {
		setupTestDB(t)
		setupMockRedis(t)

		now := time.Now().UTC()
		u := models.User{Email: "broke@example.com", PasswordHash: "x", PlanStatus: models.PlanFree, CreditsBalance: 0, LastCreditReset: &now}
		require.NoError(t, database.DB.Create(&u).Error)

		rw := &stubRewriter{result: &rewriter.Result{Text: "should not run"}}

		w := postRewrite(setupRouter(u, rw), validBody)
		assert.Equal(t, http.StatusForbidden, w.Code)

		var resp utils.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Message, "not allowed")
	})

	t.Run("Rewriter Failure Returns Bad Gateway", func(t *testing.T) {
		setupTestDB(t)
		setupMockRedis(t)

		u := models.User{Email: "gateway@example.com", PasswordHash: "x", PlanStatus: models.PlanFree, CreditsBalance: 3}
		require.NoError(t, database.DB.Create(&u).Error)

		rw := &stubRewriter{err: errors.New("upstream 429")}

		w := postRewrite(setupRouter(u, rw), validBody)
		assert.Equal(t, http.StatusBadGateway, w.Code)

		// Failed rewrite must not consume a credit.
		var reloaded models.User
		require.NoError(t, database.DB.First(&reloaded, u.ID).Error)
		assert.Equal(t, 3, reloaded.CreditsBalance)
	})

	t.Run("Unknown Document Type Rejected", func(t *testing.T) {
		setupTestDB(t)
		setupMockRedis(t)

		u := models.User{Email: "badtype@example.com", PasswordHash: "x", PlanStatus: models.PlanProMonthly}
		require.NoError(t, database.DB.Create(&u).Error)

		body := map[string]any{
			"document_type": "subpoena",
			"tone":          "formal",
			"source_text":   "text",
		}
		w := postRewrite(setupRouter(u, &stubRewriter{}), body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown Tone Rejected", func(t *testing.T) {
		setupTestDB(t)
		setupMockRedis(t)

		u := models.User{Email: "badtone@example.com", PasswordHash: "x", PlanStatus: models.PlanProMonthly}
		require.NoError(t, database.DB.Create(&u).Error)

		body := map[string]any{
			"document_type": "order",
			"tone":          "sarcastic",
			"source_text":   "text",
		}
		w := postRewrite(setupRouter(u, &stubRewriter{}), body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing Source Text Rejected", func(t *testing.T) {
		setupTestDB(t)
		setupMockRedis(t)

		u := models.User{Email: "nosrc@example.com", PasswordHash: "x", PlanStatus: models.PlanProMonthly}
		require.NoError(t, database.DB.Create(&u).Error)

		body := map[string]any{
			"document_type": "order",
			"tone":          "formal",
		}
		w := postRewrite(setupRouter(u, &stubRewriter{}), body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Paid Plan Skips Debit", func(t *testing.T) {
		setupTestDB(t)
		setupMockRedis(t)

		u := models.User{Email: "pro@example.com", PasswordHash: "x", PlanStatus: models.PlanProAnnual, CreditsBalance: 0}
		require.NoError(t, database.DB.Create(&u).Error)

		rw := &stubRewriter{result: &rewriter.Result{Text: "ok", Model: "gemini-2.5-flash-lite"}}

		w := postRewrite(setupRouter(u, rw), validBody)
		assert.Equal(t, http.StatusOK, w.Code)

		var reloaded models.User
		require.NoError(t, database.DB.First(&reloaded, u.ID).Error)
		assert.Equal(t, 0, reloaded.CreditsBalance)
	})
}
