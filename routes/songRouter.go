package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/codeandtesttea/songsbackend/controllers"
	"github.com/codeandtesttea/songsbackend/middleware"
)

func SongRoute(router *gin.Engine, controller *controllers.SongController) {
	songs := router.Group("/api/songs")
	{
		songs.POST("", middleware.RequireMultipart(), controller.UploadSong())
		songs.GET("", controller.GetAllSongs())
		songs.GET("/:song_id", controller.GetSongByID())
		songs.PUT("/:song_id", controller.UpdateSong())
		songs.DELETE("/:song_id", controller.DeleteSong())
		songs.PUT("/play/:song_id", controller.PlaySong())
	}
}
