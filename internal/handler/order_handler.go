package handler

import (
	"net/http"

	"ticketya/internal/middleware"
	"ticketya/internal/model"
	"ticketya/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/preference", h.CreatePreference)
	}

	// cash is settled at the door or the box office, never by the buyer
	settle := r.Group("/orders", middleware.RequireRole(model.RoleOrganizer, model.RolePortero))
	{
		settle.POST("/:id/settle-cash", h.SettleCash)
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := MustUserID(c)
	if !ok {
		return
	}

	var req model.CreateOrderRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	order, err := h.service.CreateOrder(c, userID, req)
	if err != nil {
		handleError(c, err, "CreateOrder")
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := MustUserID(c)
	if !ok {
		return
	}

	orders, err := h.service.ListOrdersByUser(c, userID)
	if err != nil {
		handleError(c, err, "ListOrders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := MustUserID(c)
	if !ok {
		return
	}
	orderID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.service.GetOrderByID(c, userID, orderID)
	if err != nil {
		handleError(c, err, "GetOrder")
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) CreatePreference(c *gin.Context) {
	userID, ok := MustUserID(c)
	if !ok {
		return
	}
	orderID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	pref, err := h.service.CreatePaymentPreference(c, userID, orderID)
	if err != nil {
		handleError(c, err, "CreatePreference")
		return
	}

	c.JSON(http.StatusCreated, pref)
}

func (h *OrderHandler) SettleCash(c *gin.Context) {
	orderID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.service.SettleCash(c, orderID)
	if err != nil {
		handleError(c, err, "SettleCash")
		return
	}

	c.JSON(http.StatusOK, order)
}
