package api

import (
	authUsecase "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/auth/usecase"
	calendarUsecase "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/usecase"
	"github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase authUsecase.AuthUsecase
	syncUsecase calendarUsecase.CalendarSyncUsecase
	config      *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, syncUc calendarUsecase.CalendarSyncUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase: authUc,
		syncUsecase: syncUc,
		config:      cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.syncUsecase)

	return r.Run(addr)
}
