package apperrors

import (
	"errors"
	"net/http"
)

// Not found (404)
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrTandaNotFound      = errors.New("no tanda available for event")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrReferralNotFound   = errors.New("referral not found")
	ErrVendorNotFound     = errors.New("vendor not found")
)

// Conflict (409)
var (
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrTicketAlreadyUsed     = errors.New("ticket already used")
	ErrTicketNotTransferable = errors.New("ticket is not transferable")
	ErrOrderNotPending       = errors.New("order is not in a confirmable state")
)

// Forbidden (403)
var (
	ErrNotTicketOwner = errors.New("acting user is not the ticket owner")
	ErrNotOrderOwner  = errors.New("acting user is not the order owner")
	ErrForbidden      = errors.New("forbidden")
)

// Validation (400)
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrMissingTandaPrice  = errors.New("no price for ticket type in active tanda")
	ErrInvalidPrice       = errors.New("resolved price is not positive")
	ErrSelfTransfer       = errors.New("cannot transfer a ticket to yourself")
	ErrTicketExpired      = errors.New("ticket has expired")
	ErrInvalidQRCode      = errors.New("invalid code")
	ErrInvalidPersonalQR = errors.New("invalid personal code")
)

// Internal
var ErrInternalServerError = errors.New("internal server error")

// HTTPStatus maps a domain error to its HTTP status code. Signature
// failures and malformed tokens intentionally share ErrInvalidQRCode so the
// API cannot be used as an oracle on the signing scheme.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEventNotFound),
		errors.Is(err, ErrTandaNotFound),
		errors.Is(err, ErrTicketNotFound),
		errors.Is(err, ErrTicketTypeNotFound),
		errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrReferralNotFound),
		errors.Is(err, ErrVendorNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientInventory),
		errors.Is(err, ErrTicketAlreadyUsed),
		errors.Is(err, ErrTicketNotTransferable),
		errors.Is(err, ErrOrderNotPending):
		return http.StatusConflict
	case errors.Is(err, ErrNotTicketOwner),
		errors.Is(err, ErrNotOrderOwner),
		errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrMissingTandaPrice),
		errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrSelfTransfer),
		errors.Is(err, ErrTicketExpired),
		errors.Is(err, ErrInvalidQRCode),
		errors.Is(err, ErrInvalidPersonalQR):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
