package handler

import (
	"net/http"

	"ticketya/internal/middleware"
	"ticketya/internal/model"
	"ticketya/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	tickets   service.TicketService
	transfers service.TransferService
}

func NewTicketHandler(tickets service.TicketService, transfers service.TransferService) *TicketHandler {
	return &TicketHandler{tickets: tickets, transfers: transfers}
}

func (h *TicketHandler) RegisterRoutes(r *gin.RouterGroup) {
	tickets := r.Group("/tickets")
	{
		tickets.GET("", h.ListTickets)
		tickets.GET("/:id", h.GetTicket)
		tickets.POST("/:id/transfer", h.Transfer)
	}
	r.GET("/transfers", h.TransferHistory)
}

func (h *TicketHandler) ListTickets(c *gin.Context) {
	userID, ok := MustUserID(c)
	if !ok {
		return
	}

	// ?filter=upcoming | past, default all
	var upcoming *bool
	switch c.Query("filter") {
	case "upcoming":
		v := true
		upcoming = &v
	case "past":
		v := false
		upcoming = &v
	case "":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "filter must be upcoming or past"})
		return
	}

	tickets, err := h.tickets.ListByOwner(c, userID, upcoming)
	if err != nil {
		handleError(c, err, "ListTickets")
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	userID, ok := MustUserID(c)
	if !ok {
		return
	}
	ticketID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	role, _ := middleware.CurrentRole(c)
	ticket, err := h.tickets.GetByID(c, userID, role, ticketID)
	if err != nil {
		handleError(c, err, "GetTicket")
		return
	}

	c.JSON(http.StatusOK, ticket)
}

type transferBody struct {
	ToEmail       string `json:"to_email"`
	PersonalToken string `json:"personal_token"`
}

// Transfer accepts either a recipient email or a scanned personal QR token,
// exactly one of the two.
func (h *TicketHandler) Transfer(c *gin.Context) {
	userID, ok := MustUserID(c)
	if !ok {
		return
	}
	ticketID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	var body transferBody
	if err := BindJson(c, &body); err != nil {
		return
	}

	var transfer *model.TicketTransfer
	var err error
	switch {
	case body.ToEmail != "" && body.PersonalToken != "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide to_email or personal_token, not both"})
		return
	case body.ToEmail != "":
		transfer, err = h.transfers.TransferByEmail(c, userID, ticketID, body.ToEmail)
	case body.PersonalToken != "":
		transfer, err = h.transfers.TransferByPersonalQR(c, userID, ticketID, body.PersonalToken)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide to_email or personal_token"})
		return
	}
	if err != nil {
		handleError(c, err, "Transfer")
		return
	}

	c.JSON(http.StatusOK, transfer)
}

func (h *TicketHandler) TransferHistory(c *gin.Context) {
	userID, ok := MustUserID(c)
	if !ok {
		return
	}

	sent, received, err := h.transfers.History(c, userID, 50)
	if err != nil {
		handleError(c, err, "TransferHistory")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": sent, "received": received})
}
