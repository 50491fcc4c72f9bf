package handler

import (
	"net/http"

	"ticketya/internal/service"

	"github.com/gin-gonic/gin"
)

// SweepHandler exposes the lifecycle sweep for manual or cron-driven runs,
// on top of the in-process interval loop.
type SweepHandler struct {
	service service.SweeperService
}

func NewSweepHandler(service service.SweeperService) *SweepHandler {
	return &SweepHandler{service: service}
}

func (h *SweepHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/sweep", h.Sweep)
}

func (h *SweepHandler) Sweep(c *gin.Context) {
	report, err := h.service.Sweep(c)
	if err != nil {
		handleError(c, err, "Sweep")
		return
	}

	c.JSON(http.StatusOK, report)
}
