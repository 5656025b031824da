package logs

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"docketclear-backend/internal/services"
	"docketclear-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

func parseFilter(c *gin.Context) (*services.GenerationLogFilter, bool) {
	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "20")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid page number"))
		return nil, false
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid limit number"))
		return nil, false
	}

	filter := services.GenerationLogFilter{
		Page:  page,
		Limit: limit,
	}

	if userIDStr, exists := c.GetQuery("user_id"); exists {
		userID, err := strconv.Atoi(userIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid user_id"))
			return nil, false
		}
		uid := uint(userID)
		filter.UserID = &uid
	}

	if modelStr, exists := c.GetQuery("model"); exists {
		filter.Model = &modelStr
	}

	if startTimeStr, exists := c.GetQuery("start_time"); exists {
		startTime, err := time.Parse(time.RFC3339, startTimeStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid start_time format"))
			return nil, false
		}
		filter.StartTime = &startTime
	}

	if endTimeStr, exists := c.GetQuery("end_time"); exists {
		endTime, err := time.Parse(time.RFC3339, endTimeStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid end_time format"))
			return nil, false
		}
		filter.EndTime = &endTime
	}

	return &filter, true
}

// ListLogs godoc
// @Summary List generation logs
// @Description Get a paginated list of generation audit records with filtering. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param user_id query int false "Filter by user ID"
// @Param model query string false "Filter by model"
// @Param start_time query string false "Filter by start time (RFC3339)"
// @Param end_time query string false "Filter by end time (RFC3339)"
// @Success 200 {object} utils.Response{data=LogListResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/logs [get]
func ListLogs(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	entries, total, err := services.FindGenerationLogs(*filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch logs"))
		return
	}

	var items []LogListItem
	for _, e := range entries {
		items = append(items, LogListItem{
			ID:           e.ID,
			CreatedAt:    e.CreatedAt,
			UserID:       e.UserID,
			ModelUsed:    e.ModelUsed,
			TokensInput:  e.TokensInput,
			TokensOutput: e.TokensOutput,
			LatencyMs:    e.LatencyMs,
			InputText:    e.InputText,
			OutputText:   e.OutputText,
		})
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Logs retrieved successfully", LogListResponse{
		Logs:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}))
}

// ExportLogs godoc
// @Summary Export generation logs
// @Description Export filtered generation audit records as CSV. Admin only.
// @Tags admin
// @Produce text/csv
// @Security Bearer
// @Param user_id query int false "Filter by user ID"
// @Param model query string false "Filter by model"
// @Param start_time query string false "Filter by start time (RFC3339)"
// @Param end_time query string false "Filter by end time (RFC3339)"
// @Success 200 {string} string "CSV content"
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/logs/export [get]
func ExportLogs(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	// Exports are not paginated; cap the row count instead.
	filter.Page = 1
	filter.Limit = 10000

	entries, _, err := services.FindGenerationLogs(*filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch logs"))
		return
	}

	csvData, err := services.GenerateHistoryCSV(entries)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to generate CSV"))
		return
	}

	filename := fmt.Sprintf("generation_logs_%s.csv", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", csvData)
}
