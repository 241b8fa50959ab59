package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/PraiseNight/controllers"
	"github.com/PraiseNight/initializers"
	"github.com/PraiseNight/middlewares"
	"github.com/PraiseNight/realtime"
	"github.com/PraiseNight/services"
)

func init() {
	initializers.LoadEnv()
	initializers.ConnectDB()
	services.InitObjectStorage()
	services.InitPushNotificationService()
	services.InitEmailService()
}

func main() {
	ctx := context.Background()

	hub := realtime.NewHub()
	go func() {
		if err := realtime.NewListener(os.Getenv("DB_URL"), hub).Run(ctx); err != nil {
			log.Println("Change listener stopped:", err)
		}
	}()
	controllers.SetChangeHub(hub)
	services.NewChangeNotifier(services.GetPushNotificationService()).Start(ctx, hub)

	router := gin.Default()
	router.MaxMultipartMemory = services.MaxUploadBytes()

	getKey := middlewares.ClientKey

	router.POST("/login", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.Login)
	router.GET("/ping", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.Ping)

	auth := router.Group("/")
	auth.Use(middlewares.CheckAuth)
	{
		// change streams are long-lived, keep them out of the request limiter
		auth.GET("/realtime/:table", controllers.StreamChanges)
	}

	read := auth.Group("/")
	read.Use(middlewares.RateLimitMiddleware(10, 10, getKey))
	{
		// praise night routes
		read.GET("/pages", controllers.GetPages)
		read.GET("/pages/:page_id", controllers.GetPage)
		read.GET("/pages/:page_id/songs", controllers.GetPageSongs)
		read.GET("/pages/:page_id/categories", controllers.GetPageCategoryStats)

		// song routes
		read.GET("/songs/:song_id", controllers.GetSong)
		read.GET("/songs/:song_id/comments", controllers.GetSongComments)
		read.GET("/songs/:song_id/history", controllers.GetSongHistory)

		read.GET("/categories", controllers.GetCategories)
		read.GET("/media", controllers.GetMedia)

		//admin only routes
		admin := read.Group("/")
		admin.Use(middlewares.CheckAdmin)
		{
			admin.POST("/pages", controllers.CreatePage)
			admin.PUT("/pages/:page_id", controllers.UpdatePage)
			admin.DELETE("/pages/:page_id", controllers.DeletePage)
			admin.POST("/pages/:page_id/songs", controllers.CreateSong)

			admin.PUT("/songs/:song_id", controllers.UpdateSong)
			admin.DELETE("/songs/:song_id", controllers.DeleteSong)
			admin.POST("/songs/:song_id/comments", controllers.CreateSongComment)
			admin.DELETE("/songs/:song_id/comments/:comment_id", controllers.DeleteSongComment)

			admin.POST("/categories", controllers.CreateCategory)
			admin.PUT("/categories/:category_id", controllers.UpdateCategory)
			admin.DELETE("/categories/:category_id", controllers.DeleteCategory)

			admin.POST("/media", controllers.UploadMedia)
			admin.DELETE("/media/:media_id", controllers.DeleteMedia)
		}
	}

	if err := router.Run(); err != nil {
		log.Fatal(err)
	}
}
