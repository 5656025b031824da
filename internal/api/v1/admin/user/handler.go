package user

import (
	"net/http"
	"strconv"
	"time"

	"docketclear-backend/internal/models"
	"docketclear-backend/internal/services"
	"docketclear-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserListItem struct {
	ID              uint       `json:"id"`
	Email           string     `json:"email"`
	PlanStatus      string     `json:"plan_status"`
	CreditsBalance  int        `json:"credits_balance"`
	LastCreditReset *time.Time `json:"last_credit_reset"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type UserListResponse struct {
	Users []UserListItem `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

func toListItem(u models.User) UserListItem {
	return UserListItem{
		ID:              u.ID,
		Email:           u.Email,
		PlanStatus:      string(u.PlanStatus),
		CreditsBalance:  u.CreditsBalance,
		LastCreditReset: u.LastCreditReset,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// ListUsers godoc
// @Summary List all users
// @Description Get a paginated list of users. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} utils.Response{data=UserListResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/users [get]
func ListUsers(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "20")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid page number"))
		return
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid limit number"))
		return
	}

	users, total, err := services.FindUsers(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch users"))
		return
	}

	var userItems []UserListItem
	for _, u := range users {
		userItems = append(userItems, toListItem(u))
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Users retrieved successfully", UserListResponse{
		Users: userItems,
		Total: total,
		Page:  page,
		Limit: limit,
	}))
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Password       *string `json:"password,omitempty" binding:"omitempty,min=6"`
	PlanStatus     *string `json:"plan_status,omitempty" binding:"omitempty,oneof=free pro_monthly pro_annual admin"`
	CreditsBalance *int    `json:"credits_balance,omitempty" binding:"omitempty,min=0"`
}

// UpdateUser godoc
// @Summary Update a user
// @Description Update a user's plan, credits, or password. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "User ID"
// @Param body body UpdateUserRequest true "User details to update"
// @Success 200 {object} utils.Response{data=UserListItem}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/users/{id} [patch]
func UpdateUser(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid user ID"))
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	updates := make(map[string]interface{})
	if req.Password != nil {
		updates["password"] = *req.Password
	}
	if req.PlanStatus != nil {
		updates["plan_status"] = *req.PlanStatus
	}
	if req.CreditsBalance != nil {
		updates["credits_balance"] = *req.CreditsBalance
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "No fields to update"))
		return
	}

	operator := "unknown"
	if userVal, exists := c.Get("user"); exists {
		if u, ok := userVal.(models.User); ok {
			operator = u.Email
		}
	}

	updatedUser, err := services.UpdateUser(uint(id), updates, operator)
	if err != nil {
		switch err {
		case services.ErrUserNotFound:
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, "User not found"))
		case services.ErrOptimisticLock:
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
		case services.ErrInvalidPlan, services.ErrNegativeCredits:
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to update user"))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("User updated successfully", toListItem(*updatedUser)))
}
