package rewrite

import (
	"docketclear-backend/internal/rewriter"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, rw rewriter.Rewriter) {
	router.POST("/rewrite", Generate(rw))
}
