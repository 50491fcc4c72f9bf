package handler

import (
	"net/http"

	"ticketya/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.Me)
	r.GET("/me/qr", h.PersonalQR)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := MustUserID(c)
	if !ok {
		return
	}

	user, err := h.service.GetByID(c, userID)
	if err != nil {
		handleError(c, err, "Me")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) PersonalQR(c *gin.Context) {
	userID, ok := MustUserID(c)
	if !ok {
		return
	}

	token, err := h.service.PersonalQR(c, userID)
	if err != nil {
		handleError(c, err, "PersonalQR")
		return
	}

	c.JSON(http.StatusOK, gin.H{"qr_code": token})
}
