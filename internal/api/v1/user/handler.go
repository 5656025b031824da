package user

import (
	"net/http"

	"docketclear-backend/internal/database"
	"docketclear-backend/internal/models"
	"docketclear-backend/internal/services"
	"docketclear-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// CurrentUser godoc
// @Summary Get current user
// @Description Get the authenticated account's plan, balance, and next reset countdown
// @Tags user
// @Produce  json
// @Security Bearer
// @Success 200 {object} utils.Response{data=user.UserResponse}
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /auth/user [get]
func CurrentUser(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	u := userVal.(models.User)

	// The refill check is opportunistic: running it on every profile view
	// keeps free balances current without a background timer.
	services.RefreshFreeCreditsIfNeeded(u.ID)

	// Reload from the store so the response reflects the balance after a
	// possible refill, not the cached copy from the middleware.
	var latestUser models.User
	if err := database.DB.First(&latestUser, u.ID).Error; err == nil {
		u = latestUser
	}

	token, err := utils.GenerateToken(u.ID, services.RoleForPlan(u.PlanStatus))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Could not generate token"))
		return
	}

	resp := UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		PlanStatus:     string(u.PlanStatus),
		CreditsBalance: u.CreditsBalance,
		Token:          token,
	}
	if u.PlanStatus == models.PlanFree {
		resp.NextResetIn = services.FormatResetCountdown(services.TimeUntilNextReset(u.LastCreditReset))
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("User information retrieved successfully", resp))
}
