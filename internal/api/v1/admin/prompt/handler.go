package prompt

import (
	"errors"
	"net/http"
	"time"

	"docketclear-backend/internal/rewriter"
	"docketclear-backend/internal/services"
	"docketclear-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type TemplateItem struct {
	ID           uint      `json:"id"`
	DocumentType string    `json:"document_type"`
	Content      string    `json:"content"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UpsertTemplateInput struct {
	Content string `json:"content" binding:"required"`
}

// ListTemplates godoc
// @Summary List prompt templates
// @Description List the stored per-document-type rewrite templates. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=[]TemplateItem}
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/prompts [get]
func ListTemplates(c *gin.Context) {
	templates, err := services.ListPromptTemplates()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch templates"))
		return
	}

	items := make([]TemplateItem, 0, len(templates))
	for _, t := range templates {
		items = append(items, TemplateItem{
			ID:           t.ID,
			DocumentType: t.DocumentType,
			Content:      t.Content,
			UpdatedAt:    t.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Templates retrieved successfully", items))
}

// UpsertTemplate godoc
// @Summary Create or replace a prompt template
// @Description Set the rewrite template used for one document type. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param document_type path string true "Document type"
// @Param body body UpsertTemplateInput true "Template content"
// @Success 200 {object} utils.Response{data=TemplateItem}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/prompts/{document_type} [put]
func UpsertTemplate(c *gin.Context) {
	docType, err := rewriter.ParseDocumentType(c.Param("document_type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	var input UpsertTemplateInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	tmpl, err := services.UpsertPromptTemplate(docType, input.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to save template"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Template saved successfully", TemplateItem{
		ID:           tmpl.ID,
		DocumentType: tmpl.DocumentType,
		Content:      tmpl.Content,
		UpdatedAt:    tmpl.UpdatedAt,
	}))
}

// DeleteTemplate godoc
// @Summary Delete a prompt template
// @Description Remove the stored template for a document type; the built-in default applies afterwards. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param document_type path string true "Document type"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/prompts/{document_type} [delete]
func DeleteTemplate(c *gin.Context) {
	docType, err := rewriter.ParseDocumentType(c.Param("document_type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	if err := services.DeletePromptTemplate(docType); err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, "Template not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to delete template"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Template deleted successfully", nil))
}
