package handler

import (
	"net/http"

	"ticketya/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/events/:id", h.GetEvent)
	r.GET("/ticket-types/:id/availability", h.Availability)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	event, active, err := h.service.GetWithPricing(c, eventID)
	if err != nil {
		handleError(c, err, "GetEvent")
		return
	}

	resp := gin.H{"event": event}
	if active != nil {
		resp["active_tanda_id"] = active.ID
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) Availability(c *gin.Context) {
	ticketTypeID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	availability, err := h.service.Availability(c, ticketTypeID)
	if err != nil {
		handleError(c, err, "Availability")
		return
	}

	c.JSON(http.StatusOK, availability)
}
