package handler

import (
	"net/http"

	"ticketya/internal/gateway"
	"ticketya/internal/model"
	"ticketya/internal/queue"
	"ticketya/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebhookHandler receives gateway payment notifications. The notification
// only names a payment id; the authoritative verdict is fetched back from
// the gateway, never trusted from the request body.
type WebhookHandler struct {
	payments gateway.PaymentClient
	queue    queue.ConfirmationQueue
}

func NewWebhookHandler(payments gateway.PaymentClient, queue queue.ConfirmationQueue) *WebhookHandler {
	return &WebhookHandler{payments: payments, queue: queue}
}

func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/webhooks/payments", h.PaymentNotification)
}

type paymentNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (h *WebhookHandler) PaymentNotification(c *gin.Context) {
	var note paymentNotification
	if err := c.ShouldBindJSON(&note); err != nil {
		// malformed notifications are acked; retrying the same bytes
		// cannot help
		logger.WithComponent("webhook").Warn("unparseable payment notification", zap.Error(err))
		c.Status(http.StatusOK)
		return
	}

	if note.Type != "payment" || note.Data.ID == "" {
		c.Status(http.StatusOK)
		return
	}

	payment, err := h.payments.GetPayment(c, note.Data.ID)
	if err != nil {
		// transient lookup failure; non-2xx makes the gateway redeliver
		logger.WithComponent("webhook").Error("payment lookup failed",
			zap.String("payment_id", note.Data.ID), zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}

	orderID, err := uuid.Parse(payment.ExternalReference)
	if err != nil {
		logger.WithComponent("webhook").Warn("payment references no known order",
			zap.String("payment_id", payment.ID),
			zap.String("external_reference", payment.ExternalReference))
		c.Status(http.StatusOK)
		return
	}

	status, ok := mapPaymentStatus(payment.Status)
	if !ok {
		logger.WithComponent("webhook").Warn("unhandled payment status",
			zap.String("payment_id", payment.ID), zap.String("status", payment.Status))
		c.Status(http.StatusOK)
		return
	}

	err = h.queue.PublishConfirmation(c, &model.PaymentConfirmation{
		OrderID:   orderID,
		PaymentID: payment.ID,
		Status:    status,
	})
	if err != nil {
		logger.WithComponent("webhook").Error("failed to enqueue confirmation",
			zap.String("payment_id", payment.ID), zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusOK)
}

func mapPaymentStatus(status string) (model.ConfirmationStatus, bool) {
	switch status {
	case "approved":
		return model.ConfirmationApproved, true
	case "pending", "in_process":
		return model.ConfirmationPending, true
	case "rejected":
		return model.ConfirmationRejected, true
	case "cancelled":
		return model.ConfirmationCancelled, true
	}
	return "", false
}
