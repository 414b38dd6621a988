package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/codeandtesttea/songsbackend/controllers"
)

func StatsRoute(router *gin.Engine, controller *controllers.StatsController) {
	router.GET("/api/stats", controller.GetLibraryStats())
}
