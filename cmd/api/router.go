package api

import (
	"net/http"

	authDelivery "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/auth/delivery"
	authUsecase "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/auth/usecase"
	calendarDelivery "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/delivery"
	calendarUsecase "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, syncUc calendarUsecase.CalendarSyncUsecase) {
	authHandler := authDelivery.NewAuthHandler(authUc)
	calendarHandler := calendarDelivery.NewCalendarHandler(syncUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", authDelivery.AuthMiddleware(authUc), authHandler.Me)
		}

		// Calendar routes (protected)
		cal := api.Group("/calendar")
		cal.Use(authDelivery.AuthMiddleware(authUc))
		{
			cal.GET("/auth/url", calendarHandler.GetAuthURL)
			cal.POST("/auth/exchange", calendarHandler.ExchangeCode)
			cal.GET("/status", calendarHandler.GetConnectionStatus)
			cal.GET("/calendars", calendarHandler.ListCalendars)
			cal.POST("/sync/start", calendarHandler.StartSync)
			cal.POST("/sync/pause", calendarHandler.PauseSync)
			cal.GET("/sync/progress", calendarHandler.GetProgress)
		}
	}
}
