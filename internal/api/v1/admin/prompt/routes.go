package prompt

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/prompts", ListTemplates)
	router.PUT("/prompts/:document_type", UpsertTemplate)
	router.DELETE("/prompts/:document_type", DeleteTemplate)
}
