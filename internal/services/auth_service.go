package services

import (
	"errors"

	"docketclear-backend/internal/database"
	"docketclear-backend/internal/models"
	"docketclear-backend/internal/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrUserAlreadyExists = errors.New("an account with this email already exists")
var ErrInvalidCredentials = errors.New("invalid email or password")

// RegisterUser creates a free-tier account. The balance starts at
// FreeTierCredits and last_credit_reset stays null until the first refill
// check runs.
func RegisterUser(email, password string) (*models.User, error) {
	var existingUser models.User
	result := database.DB.Where("email = ?", email).First(&existingUser)
	if result.Error == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:          email,
		PasswordHash:   string(hashedPassword),
		PlanStatus:     models.PlanFree,
		CreditsBalance: FreeTierCredits,
	}

	if err := database.DB.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// LoginUser checks the password and issues a JWT. The role claim is derived
// from the plan so admin endpoints stay closed to everyone else.
func LoginUser(email, password string) (string, *models.User, error) {
	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, RoleForPlan(user.PlanStatus))
	if err != nil {
		return "", nil, err
	}

	return token, &user, nil
}

// RoleForPlan maps a plan to the JWT role claim.
func RoleForPlan(plan models.PlanStatus) string {
	if plan == models.PlanAdmin {
		return "admin"
	}
	return "user"
}
