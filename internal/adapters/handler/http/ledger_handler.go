package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codescalper/sankalp/internal/core/domain"
	"github.com/codescalper/sankalp/internal/core/services"
)

type LedgerHandler struct {
	svc *services.LedgerService
}

func NewLedgerHandler(svc *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		svc: svc,
	}
}

// Days arrives as the raw string the user typed; validation of blank and
// non-numeric input belongs to the service, not the JSON binding.
type startSankalpRequest struct {
	Days string `json:"days"`
}

func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup) {
	sankalp := router.Group("/sankalp")
	{
		sankalp.POST("", h.Start)
		sankalp.GET("", h.Get)
		sankalp.GET("/stats", h.Stats)
		sankalp.POST("/days/:day/toggle", h.Toggle)
		sankalp.DELETE("", h.Reset)
	}
}

func (h *LedgerHandler) Start(c *gin.Context) {
	var req startSankalpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	projection, fieldErrs, err := h.svc.Start(c.Request.Context(), req.Days)
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrs})
		return
	}
	if err != nil {
		if errors.Is(err, domain.ErrGenerationMismatch) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start sankalp"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, projection)
}

func (h *LedgerHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Projection())
}

func (h *LedgerHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Stats())
}

func (h *LedgerHandler) Toggle(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be an integer"})
		return
	}

	err = h.svc.Toggle(c.Request.Context(), day)
	if err != nil {
		if errors.Is(err, domain.ErrNotStarted) {
			c.JSON(http.StatusConflict, gin.H{"error": "no active sankalp"})
			return
		}
		if errors.Is(err, domain.ErrDayOutOfRange) || errors.Is(err, domain.ErrDayNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "day not found"})
			return
		}
		if errors.Is(err, domain.ErrFutureDay) {
			c.JSON(http.StatusConflict, gin.H{"error": "future days cannot be marked complete"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, h.svc.Projection())
}

func (h *LedgerHandler) Reset(c *gin.Context) {
	if err := h.svc.Reset(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}
