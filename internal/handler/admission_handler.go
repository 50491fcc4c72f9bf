package handler

import (
	"net/http"
	"strconv"

	"ticketya/internal/service"

	"github.com/gin-gonic/gin"
)

type AdmissionHandler struct {
	service service.AdmissionService
}

func NewAdmissionHandler(service service.AdmissionService) *AdmissionHandler {
	return &AdmissionHandler{service: service}
}

func (h *AdmissionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/scan", h.Scan)
	r.GET("/scan/history", h.History)
}

type scanBody struct {
	Code string `json:"code" binding:"required"`
}

func (h *AdmissionHandler) Scan(c *gin.Context) {
	validatorID, ok := MustUserID(c)
	if !ok {
		return
	}

	var body scanBody
	if err := BindJson(c, &body); err != nil {
		return
	}

	// verdicts, including rejections, are 200s; errors here mean the
	// decision itself could not be made
	result, err := h.service.Scan(c, validatorID, body.Code)
	if err != nil {
		handleError(c, err, "Scan")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdmissionHandler) History(c *gin.Context) {
	validatorID, ok := MustUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	history, err := h.service.ScanHistory(c, validatorID, limit)
	if err != nil {
		handleError(c, err, "ScanHistory")
		return
	}

	c.JSON(http.StatusOK, history)
}
