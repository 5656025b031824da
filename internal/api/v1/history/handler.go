package history

import (
	"net/http"
	"time"

	"docketclear-backend/internal/models"
	"docketclear-backend/internal/services"
	"docketclear-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type HistoryItem struct {
	ID           uint      `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	InputText    string    `json:"input_text"`
	OutputText   string    `json:"output_text"`
	ModelUsed    string    `json:"model_used"`
	TokensInput  int       `json:"tokens_input"`
	TokensOutput int       `json:"tokens_output"`
	LatencyMs    int64     `json:"latency_ms"`
}

type HistoryResponse struct {
	Entries []HistoryItem `json:"entries"`
	Window  string        `json:"window"`
}

// GetHistory godoc
// @Summary Get generation history
// @Description List the account's past paraphrases inside the plan's retention window, newest first
// @Tags history
// @Produce  json
// @Security Bearer
// @Success 200 {object} utils.Response{data=HistoryResponse}
// @Failure 401 {object} utils.Response
// @Router /history [get]
func GetHistory(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	u := userVal.(models.User)

	entries := services.GetHistory(u.ID, u.PlanStatus)

	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{
			ID:           e.ID,
			CreatedAt:    e.CreatedAt,
			InputText:    e.InputText,
			OutputText:   e.OutputText,
			ModelUsed:    e.ModelUsed,
			TokensInput:  e.TokensInput,
			TokensOutput: e.TokensOutput,
			LatencyMs:    e.LatencyMs,
		})
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("History retrieved successfully", HistoryResponse{
		Entries: items,
		Window:  services.RetentionWindow(u.PlanStatus).String(),
	}))
}
