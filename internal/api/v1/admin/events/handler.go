package events

import (
	"net/http"
	"strconv"
	"time"

	"docketclear-backend/internal/models"
	"docketclear-backend/internal/services"
	"docketclear-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type EventListItem struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id"`
	EventType string    `json:"event_type"`
	Details   string    `json:"details"`
}

type EventListResponse struct {
	Events []EventListItem `json:"events"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// ListEvents godoc
// @Summary List system events
// @Description Get a paginated list of diagnostic events. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param user_id query int false "Filter by user ID"
// @Param event_type query string false "Filter by event type"
// @Success 200 {object} utils.Response{data=EventListResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/events [get]
func ListEvents(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid page number"))
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid limit number"))
		return
	}

	var userID *uint
	if userIDStr, exists := c.GetQuery("user_id"); exists {
		id, err := strconv.Atoi(userIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid user_id"))
			return
		}
		uid := uint(id)
		userID = &uid
	}

	var eventType *models.EventType
	if typeStr, exists := c.GetQuery("event_type"); exists {
		t := models.EventType(typeStr)
		eventType = &t
	}

	eventRows, total, err := services.FindEvents(userID, eventType, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch events"))
		return
	}

	var items []EventListItem
	for _, e := range eventRows {
		items = append(items, EventListItem{
			ID:        e.ID,
			CreatedAt: e.CreatedAt,
			UserID:    e.UserID,
			EventType: string(e.EventType),
			Details:   e.Details,
		})
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Events retrieved successfully", EventListResponse{
		Events: items,
		Total:  total,
		Page:   page,
		Limit:  limit,
	}))
}
