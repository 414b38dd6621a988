package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/codeandtesttea/songsbackend/controllers"
)

func HealthRoute(router *gin.Engine, controller *controllers.HealthController) {
	router.GET("/health", controller.HealthCheck())
}
