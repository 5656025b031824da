package rewrite

import (
	"errors"
	"net/http"

	"docketclear-backend/internal/models"
	"docketclear-backend/internal/rewriter"
	"docketclear-backend/internal/services"
	"docketclear-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// Generate godoc
// @Summary Paraphrase a docket update
// @Description Rewrite a court docket update as a plain-language client message. Consumes one credit on the free plan.
// @Tags rewrite
// @Accept  json
// @Produce  json
// @Security Bearer
// @Param   input     body   RewriteInput  true  "Rewrite Input"
// @Success 200 {object} utils.Response{data=RewriteResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Router /rewrite [post]
func Generate(rw rewriter.Rewriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
			return
		}
		u := userVal.(models.User)

		var input RewriteInput
		if !utils.BindAndValidate(c, &input) {
			return
		}

		docType, err := rewriter.ParseDocumentType(input.DocumentType)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
			return
		}

		tone, err := rewriter.ParseTone(input.Tone)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
			return
		}

		req := rewriter.Request{
			DocumentType: docType,
			Tone:         tone,
			ClientName:   input.ClientName,
			SourceText:   input.SourceText,
		}

		entry, err := services.GenerateParaphrase(c.Request.Context(), u.ID, rw, req)
		if err != nil {
			if errors.Is(err, services.ErrGenerationNotAllowed) {
				c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, err.Error()))
				return
			}
			if errors.Is(err, services.ErrRewriteFailed) {
				c.JSON(http.StatusBadGateway, utils.NewErrorResponse(http.StatusBadGateway, services.ErrRewriteFailed.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to generate message"))
			return
		}

		c.JSON(http.StatusOK, utils.NewSuccessResponse("Message generated successfully", RewriteResponse{
			Text:         entry.OutputText,
			ModelUsed:    entry.ModelUsed,
			TokensInput:  entry.TokensInput,
			TokensOutput: entry.TokensOutput,
			LatencyMs:    entry.LatencyMs,
			CreatedAt:    entry.CreatedAt,
		}))
	}
}
