package handler

import (
	"net/http"

	"ticketya/internal/service"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	service service.ReferralService
}

func NewReferralHandler(service service.ReferralService) *ReferralHandler {
	return &ReferralHandler{service: service}
}

// RegisterRoutes: referral clicks are unauthenticated; the link lands in
// group chats and stories.
func (h *ReferralHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/referrals/:code/click", h.Click)
}

func (h *ReferralHandler) Click(c *gin.Context) {
	code := c.Param("code")

	ref, err := h.service.Click(c, code)
	if err != nil {
		handleError(c, err, "ReferralClick")
		return
	}

	c.JSON(http.StatusOK, gin.H{"event_id": ref.EventID})
}
