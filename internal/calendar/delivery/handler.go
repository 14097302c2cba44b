package delivery

import (
	"errors"
	"net/http"

	"github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/usecase"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	syncUsecase usecase.CalendarSyncUsecase
}

func NewCalendarHandler(syncUsecase usecase.CalendarSyncUsecase) *CalendarHandler {
	return &CalendarHandler{
		syncUsecase: syncUsecase,
	}
}

func (h *CalendarHandler) GetAuthURL(c *gin.Context) {
	userID := c.GetString("userID")
	c.JSON(http.StatusOK, gin.H{"auth_url": h.syncUsecase.GetAuthURL(userID)})
}

type exchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *CalendarHandler) ExchangeCode(c *gin.Context) {
	userID := c.GetString("userID")

	var req exchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	if err := h.syncUsecase.ExchangeCode(c.Request.Context(), userID, req.Code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"connected": true})
}

func (h *CalendarHandler) GetConnectionStatus(c *gin.Context) {
	userID := c.GetString("userID")

	status, err := h.syncUsecase.ConnectionStatus(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *CalendarHandler) ListCalendars(c *gin.Context) {
	userID := c.GetString("userID")

	calendars, err := h.syncUsecase.ListCalendars(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotConnected) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "needs_reauth": true})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"calendars": calendars})
}

type startSyncRequest struct {
	CalendarID string `json:"calendar_id"`
}

func (h *CalendarHandler) StartSync(c *gin.Context) {
	userID := c.GetString("userID")

	var req startSyncRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.syncUsecase.StartSync(c.Request.Context(), userID, req.CalendarID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotConnected) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "needs_reauth": true})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CalendarHandler) PauseSync(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.syncUsecase.PauseSync(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "paused"})
}

func (h *CalendarHandler) GetProgress(c *gin.Context) {
	userID := c.GetString("userID")

	report, err := h.syncUsecase.Progress(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
