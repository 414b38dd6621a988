package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/codeandtesttea/songsbackend/controllers"
	"github.com/codeandtesttea/songsbackend/middleware"
)

func AuthRoute(router *gin.Engine, controller *controllers.UserController) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", controller.Register())
		auth.POST("/login", controller.Login())
		auth.GET("/me", middleware.Authentication(), controller.MyProfile())
	}
}
