package services

import (
	"encoding/json"
	"errors"
	"time"

	"docketclear-backend/internal/database"
	"docketclear-backend/internal/models"
	"docketclear-backend/internal/rewriter"

	"gorm.io/gorm"
)

const (
	promptCacheKeyPrefix = "prompt:doctype:"
	promptCacheDuration  = 24 * time.Hour
)

var ErrTemplateNotFound = errors.New("prompt template not found")

// UpsertPromptTemplate creates or replaces the template for a document type.
func UpsertPromptTemplate(docType rewriter.DocumentType, content string) (*models.PromptTemplate, error) {
	var tmpl models.PromptTemplate
	err := database.DB.Where("document_type = ?", string(docType)).First(&tmpl).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		tmpl = models.PromptTemplate{
			DocumentType: string(docType),
			Content:      content,
		}
		if err := database.DB.Create(&tmpl).Error; err != nil {
			return nil, err
		}
	} else {
		tmpl.Content = content
		if err := database.DB.Save(&tmpl).Error; err != nil {
			return nil, err
		}
	}

	invalidatePromptCache(string(docType))
	return &tmpl, nil
}

// DeletePromptTemplate removes a stored template; the rewriter falls back to
// its built-in default afterwards.
func DeletePromptTemplate(docType rewriter.DocumentType) error {
	result := database.DB.Where("document_type = ?", string(docType)).Delete(&models.PromptTemplate{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}

	invalidatePromptCache(string(docType))
	return nil
}

// ListPromptTemplates returns all stored templates.
func ListPromptTemplates() ([]models.PromptTemplate, error) {
	var templates []models.PromptTemplate
	if err := database.DB.Order("document_type").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// PromptTemplateFor resolves the effective template content for a document
// type, going through the Redis cache. An empty string means "use the
// built-in default", which is also the answer when the store is unreachable:
// a missing template must never block a rewrite.
func PromptTemplateFor(docType rewriter.DocumentType) string {
	cacheKey := promptCacheKeyPrefix + string(docType)

	if database.RedisClient != nil {
		val, err := database.RedisClient.Get(database.Ctx, cacheKey).Result()
		if err == nil {
			var tmpl models.PromptTemplate
			if err := json.Unmarshal([]byte(val), &tmpl); err == nil {
				return tmpl.Content
			}
		}
	}

	var tmpl models.PromptTemplate
	if err := database.DB.Where("document_type = ?", string(docType)).First(&tmpl).Error; err != nil {
		return ""
	}

	if database.RedisClient != nil {
		if data, err := json.Marshal(tmpl); err == nil {
			database.RedisClient.Set(database.Ctx, cacheKey, data, promptCacheDuration)
		}
	}

	return tmpl.Content
}

func invalidatePromptCache(docType string) {
	if database.RedisClient != nil {
		database.RedisClient.Del(database.Ctx, promptCacheKeyPrefix+docType)
	}
}
