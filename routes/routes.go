package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pitchmate/pitchmate-server/controllers"
	"github.com/pitchmate/pitchmate-server/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/health", controllers.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthJWT())
		{
			protected.GET("/me", controllers.Me)
		}

		facilities := api.Group("/facilities")
		facilities.Use(middleware.AuthJWT())
		{
			facilities.POST("", controllers.CreateFacility)
			facilities.POST("/:id/fields", middleware.CheckFacilityOwner(), controllers.AddField)
		}
		api.GET("/fields", controllers.ListFields)

		reservations := api.Group("/reservations")
		reservations.Use(middleware.AuthJWT())
		{
			reservations.POST("", controllers.CreateReservation)
			reservations.POST("/:id/deposit", controllers.PayDeposit)
			reservations.GET("/my", controllers.MyReservations)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", controllers.ListPosts)
			posts.GET("/share/:code", controllers.ResolveShareCode)
			posts.GET("/:id", controllers.GetPost)

			authed := posts.Group("")
			authed.Use(middleware.AuthJWT())
			{
				authed.POST("", middleware.RateLimitPostsCreate(), controllers.CreatePost)
				authed.POST("/:id/invite", middleware.CheckPostOwner(), controllers.InvitePlayer)
				authed.PUT("/:id/respond", controllers.RespondInvite)
				authed.POST("/:id/share", middleware.CheckPostOwner(), controllers.SharePost)
			}
		}
		api.GET("/invites", middleware.AuthJWT(), controllers.MyInvites)

		stories := api.Group("/stories")
		{
			stories.GET("", controllers.ListActiveStories)

			authed := stories.Group("")
			authed.Use(middleware.AuthJWT())
			{
				authed.POST("", controllers.CreateStory)
				authed.POST("/:id/view", controllers.ViewStory)
				authed.GET("/archive", controllers.MyArchivedStories)
			}
		}

		notifications := api.Group("/notifications")
		notifications.Use(middleware.AuthJWT())
		{
			notifications.GET("", controllers.MyNotifications)
			notifications.PUT("/:id/read", controllers.MarkNotificationRead)
		}

		api.POST("/uploads", middleware.AuthJWT(), controllers.UploadFile)
	}
}
