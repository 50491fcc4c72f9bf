package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketya/internal/businessdays"
	"ticketya/internal/database"
	"ticketya/internal/gateway"
	"ticketya/internal/model"
	"ticketya/internal/qrtoken"
	"ticketya/internal/repository"
	"ticketya/monitoring"
	"ticketya/pkg/apperrors"
	"ticketya/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderService interface {
	// CreateOrder prices the request against the active tanda, reserves
	// inventory and persists the order atomically. Cash orders get their
	// tickets minted immediately in PENDING_PAYMENT.
	CreateOrder(ctx context.Context, userID uuid.UUID, req model.CreateOrderRequest) (*model.Order, error)
	GetOrderByID(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]*model.Order, error)
	// CreatePaymentPreference opens a gateway checkout session for a pending
	// gateway order.
	CreatePaymentPreference(ctx context.Context, userID, orderID uuid.UUID) (*gateway.Preference, error)
	// SettleCash records an in-person cash payment. Same settlement path as
	// an approved gateway confirmation.
	SettleCash(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	// ApplyConfirmation applies one payment outcome to its order. Idempotent:
	// replays of an already-applied confirmation are no-ops.
	ApplyConfirmation(ctx context.Context, conf *model.PaymentConfirmation) error
}

type OrderServiceImpl struct {
	txRunner  database.TxRunner
	orders    repository.OrderRepository
	tickets   repository.TicketRepository
	inventory repository.InventoryRepository
	events    repository.EventRepository
	referrals repository.ReferralRepository
	users     repository.UserRepository
	codec     *qrtoken.Codec
	payments  gateway.PaymentClient

	// notificationURL is where the gateway posts payment webhooks.
	notificationURL string
}

func NewOrderService(
	txRunner database.TxRunner,
	orders repository.OrderRepository,
	tickets repository.TicketRepository,
	inventory repository.InventoryRepository,
	events repository.EventRepository,
	referrals repository.ReferralRepository,
	users repository.UserRepository,
	codec *qrtoken.Codec,
	payments gateway.PaymentClient,
	notificationURL string,
) OrderService {
	return &OrderServiceImpl{
		txRunner:        txRunner,
		orders:          orders,
		tickets:         tickets,
		inventory:       inventory,
		events:          events,
		referrals:       referrals,
		users:           users,
		codec:           codec,
		payments:        payments,
		notificationURL: notificationURL,
	}
}

func (s *OrderServiceImpl) CreateOrder(ctx context.Context, userID uuid.UUID, req model.CreateOrderRequest) (*model.Order, error) {
	if !req.PaymentMethod.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}
	if len(req.Items) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	event, err := s.events.FindWithTandas(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tanda := model.ResolveActiveTanda(event.Tandas, now)
	if tanda == nil {
		return nil, apperrors.ErrTandaNotFound
	}

	orderID := uuid.New()
	total := decimal.Zero
	items := make([]*model.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apperrors.ErrInvalidInput
		}
		row, ok := tanda.PriceFor(item.TicketTypeID)
		if !ok {
			return nil, apperrors.ErrMissingTandaPrice
		}
		if !row.Price.IsPositive() {
			return nil, apperrors.ErrInvalidPrice
		}
		total = total.Add(row.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items = append(items, &model.OrderItem{
			ID:           uuid.New(),
			OrderID:      orderID,
			TicketTypeID: item.TicketTypeID,
			TandaID:      tanda.ID,
			Quantity:     item.Quantity,
			UnitPrice:    row.Price,
		})
	}

	referralID := s.resolveReferral(ctx, req.ReferralCode, req.EventID)

	reservation := model.GatewayReservation
	if req.PaymentMethod == model.PaymentMethodCash {
		reservation = model.CashReservation
	}
	reservedUntil := now.Add(reservation)

	order := &model.Order{
		ID:            orderID,
		UserID:        userID,
		EventID:       req.EventID,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: model.PaymentStatusPending,
		TotalAmount:   total,
		ReservedUntil: &reservedUntil,
		ReferralID:    referralID,
	}

	var created *model.Order
	err = s.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		for _, item := range items {
			if err := s.inventory.Reserve(ctx, tx, item.TandaID, item.TicketTypeID, item.Quantity); err != nil {
				return err
			}
		}

		created, err = s.orders.Create(ctx, tx, order)
		if err != nil {
			return err
		}
		if err := s.orders.CreateItems(ctx, tx, items); err != nil {
			return err
		}

		// Cash buyers walk away with tickets in hand; the QR stays inert
		// until the order is settled.
		if req.PaymentMethod == model.PaymentMethodCash {
			return s.mintTickets(ctx, tx, created, items, model.TicketStatusPendingPayment)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientInventory) {
			monitoring.ReservationsRejected.Inc()
		}
		return nil, err
	}

	created.Items = items
	monitoring.OrdersCreated.WithLabelValues(string(req.PaymentMethod)).Inc()
	return created, nil
}

// resolveReferral maps an optional code to a referral id. An unknown code
// does not fail the purchase; attribution is lost, the sale is not.
func (s *OrderServiceImpl) resolveReferral(ctx context.Context, code *string, eventID uuid.UUID) *uuid.UUID {
	if code == nil || *code == "" {
		return nil
	}
	ref, err := s.referrals.FindByCode(ctx, *code)
	if err != nil {
		logger.WithComponent("order").Warn("referral code did not resolve",
			zap.String("code", *code), zap.Error(err))
		return nil
	}
	if ref.EventID != eventID {
		logger.WithComponent("order").Warn("referral code belongs to another event",
			zap.String("code", *code))
		return nil
	}
	return &ref.ID
}

func (s *OrderServiceImpl) mintTickets(ctx context.Context, tx pgx.Tx, order *model.Order, items []*model.OrderItem, status model.TicketStatus) error {
	purchaseDate := time.Now().UTC()
	expiresAt := businessdays.Add(purchaseDate, model.ExpiryBusinessDays)

	var batch []*model.Ticket
	for _, item := range items {
		for i := 0; i < item.Quantity; i++ {
			ticketID := uuid.New()
			token, err := s.codec.IssueTicketToken(ticketID.String(), order.EventID.String(), order.UserID.String())
			if err != nil {
				return fmt.Errorf("issue ticket token: %w", err)
			}
			batch = append(batch, &model.Ticket{
				ID:           ticketID,
				TicketTypeID: item.TicketTypeID,
				TandaID:      item.TandaID,
				EventID:      order.EventID,
				OrderID:      order.ID,
				OwnerID:      order.UserID,
				QRCode:       token,
				QRHash:       s.codec.IntegrityHash(ticketID.String(), order.EventID.String(), order.UserID.String()),
				Status:       status,
				PurchaseDate: purchaseDate,
				ExpiresAt:    expiresAt,
			})
		}
	}

	return s.tickets.CreateBatch(ctx, tx, batch)
}

func (s *OrderServiceImpl) GetOrderByID(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperrors.ErrNotOrderOwner
	}

	items, err := s.orders.FindItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (s *OrderServiceImpl) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]*model.Order, error) {
	return s.orders.FindByUserID(ctx, userID)
}

func (s *OrderServiceImpl) CreatePaymentPreference(ctx context.Context, userID, orderID uuid.UUID) (*gateway.Preference, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperrors.ErrNotOrderOwner
	}
	if order.PaymentMethod != model.PaymentMethodGateway {
		return nil, apperrors.ErrInvalidInput
	}
	if order.PaymentStatus != model.PaymentStatusPending {
		return nil, apperrors.ErrOrderNotPending
	}

	items, err := s.orders.FindItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	buyer, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefItems := make([]gateway.PreferenceItem, 0, len(items))
	for _, item := range items {
		tt, err := s.events.FindTicketType(ctx, item.TicketTypeID)
		if err != nil {
			return nil, err
		}
		prefItems = append(prefItems, gateway.PreferenceItem{
			Title:     tt.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	pref, err := s.payments.CreatePreference(ctx, gateway.CreatePreferenceRequest{
		Items:             prefItems,
		ExternalReference: order.ID.String(),
		NotificationURL:   s.notificationURL,
		PayerEmail:        buyer.Email,
	})
	if err != nil {
		return nil, err
	}

	// Record the checkout session on the order so an abandoned payment can
	// be traced back to its preference. The webhook overwrites this with
	// the real payment id on settlement.
	if err := s.orders.SetPaymentID(ctx, order.ID, pref.ID); err != nil {
		logger.WithComponent("order").Warn("failed to record preference id",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}

	return pref, nil
}

func (s *OrderServiceImpl) SettleCash(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != model.PaymentMethodCash {
		return nil, apperrors.ErrInvalidInput
	}
	if order.PaymentStatus.IsTerminal() {
		return nil, apperrors.ErrOrderNotPending
	}

	err = s.ApplyConfirmation(ctx, &model.PaymentConfirmation{
		OrderID:   orderID,
		PaymentID: "cash:" + orderID.String(),
		Status:    model.ConfirmationApproved,
	})
	if err != nil {
		return nil, err
	}

	return s.orders.FindByID(ctx, orderID)
}

func (s *OrderServiceImpl) ApplyConfirmation(ctx context.Context, conf *model.PaymentConfirmation) error {
	err := s.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		order, err := s.orders.FindByIDForUpdate(ctx, tx, conf.OrderID)
		if err != nil {
			return err
		}

		// Terminal orders never move again. A replayed delivery of the same
		// outcome lands here and acks cleanly.
		if order.PaymentStatus.IsTerminal() {
			logger.WithComponent("order").Info("confirmation for settled order ignored",
				zap.String("order_id", order.ID.String()),
				zap.String("order_status", string(order.PaymentStatus)),
				zap.String("confirmation_status", string(conf.Status)))
			return nil
		}

		switch conf.Status {
		case model.ConfirmationApproved:
			return s.completeOrder(ctx, tx, order, conf.PaymentID)
		case model.ConfirmationPending:
			// gateway still deciding; remember the payment id and hold
			return s.orders.UpdatePaymentStatus(ctx, tx, order.ID, model.PaymentStatusProcessing, &conf.PaymentID, nil)
		case model.ConfirmationRejected, model.ConfirmationCancelled:
			return s.failOrder(ctx, tx, order, conf.PaymentID)
		default:
			logger.WithComponent("order").Warn("unknown confirmation status",
				zap.String("order_id", order.ID.String()),
				zap.String("status", string(conf.Status)))
			return apperrors.ErrInvalidInput
		}
	})
	if err != nil {
		return err
	}

	monitoring.ConfirmationsApplied.WithLabelValues(string(conf.Status)).Inc()
	return nil
}

func (s *OrderServiceImpl) completeOrder(ctx context.Context, tx pgx.Tx, order *model.Order, paymentID string) error {
	if !order.PaymentStatus.CanTransitionTo(model.PaymentStatusCompleted) {
		return apperrors.ErrOrderNotPending
	}

	completedAt := time.Now().UTC()
	if err := s.orders.UpdatePaymentStatus(ctx, tx, order.ID, model.PaymentStatusCompleted, &paymentID, &completedAt); err != nil {
		return err
	}

	// Cash orders already carry PENDING_PAYMENT tickets; gateway orders get
	// theirs minted now, straight into ACTIVE.
	existing, err := s.tickets.FindByOrderTx(ctx, tx, order.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		if _, err := s.tickets.ActivateForOrder(ctx, tx, order.ID); err != nil {
			return err
		}
	} else {
		items, err := s.orders.FindItemsTx(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		if err := s.mintTickets(ctx, tx, order, items, model.TicketStatusActive); err != nil {
			return err
		}
	}

	if order.ReferralID != nil {
		ref, err := s.referrals.FindByIDWithVendor(ctx, tx, *order.ReferralID)
		if err != nil {
			return err
		}
		commission := ref.Vendor.CommissionOn(order.TotalAmount)
		if err := s.referrals.RecordConversion(ctx, tx, ref.ID, commission); err != nil {
			return err
		}
	}

	return nil
}

func (s *OrderServiceImpl) failOrder(ctx context.Context, tx pgx.Tx, order *model.Order, paymentID string) error {
	if !order.PaymentStatus.CanTransitionTo(model.PaymentStatusFailed) {
		return apperrors.ErrOrderNotPending
	}

	if err := s.orders.UpdatePaymentStatus(ctx, tx, order.ID, model.PaymentStatusFailed, &paymentID, nil); err != nil {
		return err
	}

	items, err := s.orders.FindItemsTx(ctx, tx, order.ID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := s.inventory.Release(ctx, tx, item.TandaID, item.TicketTypeID, item.Quantity); err != nil {
			return err
		}
	}

	_, err = s.tickets.CancelForOrder(ctx, tx, order.ID)
	return err
}
