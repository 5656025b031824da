package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"docketclear-backend/internal/database"
	"docketclear-backend/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")
var ErrOptimisticLock = errors.New("data has been modified by another user, please refresh and try again")
var ErrInvalidPlan = errors.New("invalid plan status")
var ErrNegativeCredits = errors.New("credits balance cannot be negative")

const userCacheTTL = time.Hour

func userCacheKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// FindUserByID loads a user through the Redis read-through cache. The quota
// engine does not use this path: its decisions always re-read the row.
func FindUserByID(userID uint) (models.User, error) {
	cacheKey := userCacheKey(userID)
	if database.RedisClient != nil {
		val, err := database.RedisClient.Get(database.Ctx, cacheKey).Result()
		if err == nil {
			var user models.User
			if err := json.Unmarshal([]byte(val), &user); err == nil {
				return user, nil
			}
		}
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return user, err
	}

	if database.RedisClient != nil {
		if data, err := json.Marshal(user); err == nil {
			database.RedisClient.Set(database.Ctx, cacheKey, data, userCacheTTL)
		}
	}

	return user, nil
}

// InvalidateUserCache drops the cached copy after any balance or plan change.
func InvalidateUserCache(userID uint) {
	if database.RedisClient != nil {
		database.RedisClient.Del(database.Ctx, userCacheKey(userID))
	}
}

// FindUsers retrieves a paginated list of users.
func FindUsers(page, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	offset := (page - 1) * limit

	if err := database.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := database.DB.Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// UpdateUser applies admin edits with optimistic locking. Plan and balance
// values are validated before they reach the row so the store never holds an
// unknown plan or a negative balance.
func UpdateUser(id uint, updates map[string]interface{}, operator string) (*models.User, error) {
	if raw, ok := updates["plan_status"].(string); ok {
		plan, err := models.ParsePlanStatus(raw)
		if err != nil {
			return nil, ErrInvalidPlan
		}
		updates["plan_status"] = plan
	}
	if balance, ok := updates["credits_balance"].(int); ok && balance < 0 {
		return nil, ErrNegativeCredits
	}

	tx := database.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var user models.User
	if err := tx.First(&user, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if password, ok := updates["password"].(string); ok && password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		delete(updates, "password")
		updates["password_hash"] = string(hashedPassword)
	}

	currentVersion := user.Version
	updates["version"] = currentVersion + 1

	result := tx.Model(&user).Where("version = ?", currentVersion).Updates(updates)
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrOptimisticLock
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	InvalidateUserCache(id)

	zap.L().Info("user updated",
		zap.Uint("user_id", id),
		zap.String("operator", operator),
	)

	database.DB.First(&user, id)

	return &user, nil
}
