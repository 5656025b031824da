package logs

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/logs", ListLogs)
	router.GET("/logs/export", ExportLogs)
}
