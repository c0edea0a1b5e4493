package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chairup/chairup-backend/internal/eventbus"
	"github.com/chairup/chairup-backend/internal/promotion"
)

var (
	ErrEmptyOrder           = errors.New("order must contain at least one item")
	ErrInvalidQuantity      = errors.New("item quantity must be at least 1")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
)

// CreateInput is a validated checkout request. Prices are computed server
// side; the client never supplies them.
type CreateInput struct {
	Items           []OrderItem
	ShippingAddress ShippingAddress
	PhoneNumber     string
	PaymentMethod   string
	PromoCode       string
}

type Service struct {
	repo          Repository
	promotions    promotion.ServiceInterface
	bus           eventbus.Publisher
	shippingPrice float64
}

func NewService(repo Repository, promotions promotion.ServiceInterface, bus eventbus.Publisher, shippingPrice float64) *Service {
	return &Service{repo: repo, promotions: promotions, bus: bus, shippingPrice: shippingPrice}
}

// Create places an order: it resolves an optional promo code, reserves
// stock for every line item and persists the order atomically, then
// publishes order.created.
func (s *Service) Create(userID int, in CreateInput) (Order, error) {
	if len(in.Items) == 0 {
		return Order{}, ErrEmptyOrder
	}
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return Order{}, ErrInvalidQuantity
		}
	}

	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = PaymentCreditCard
	}
	switch paymentMethod {
	case PaymentCreditCard, PaymentWallet, PaymentCashOnDelivery:
	default:
		return Order{}, ErrInvalidPaymentMethod
	}

	discountPercent := 0
	if in.PromoCode != "" {
		promo, err := s.promotions.Validate(in.PromoCode)
		if err != nil {
			return Order{}, err
		}
		discountPercent = promo.DiscountPercent
	}

	now := time.Now().UTC().Format(time.RFC3339)
	ord := Order{
		UserID:          userID,
		Items:           in.Items,
		ShippingAddress: in.ShippingAddress,
		PhoneNumber:     in.PhoneNumber,
		PaymentMethod:   paymentMethod,
		ShippingPrice:   s.shippingPrice,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.repo.Create(ord, discountPercent)
	if err != nil {
		return Order{}, err
	}

	log.Info().Int("orderId", created.ID).Int("userId", userID).Float64("total", created.TotalPrice).Msg("order created")
	s.publish(RoutingKeyCreated, OrderCreatedEvent{
		EventID:    uuid.New().String(),
		OrderID:    created.ID,
		UserID:     created.UserID,
		Items:      created.Items,
		TotalPrice: created.TotalPrice,
		Timestamp:  time.Now().UTC(),
	})

	return created, nil
}

func (s *Service) ListByUser(userID int) ([]Order, error) {
	return s.repo.ListByUser(userID)
}

// GetByID returns the order if the requester owns it or is an admin.
func (s *Service) GetByID(orderID, requesterID int, isAdmin bool) (Order, error) {
	ord, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}
	if ord.UserID != requesterID && !isAdmin {
		return Order{}, ErrForbidden
	}
	if !isAdmin {
		ord.UserName, ord.UserEmail = "", ""
	}
	return ord, nil
}

func (s *Service) ListAll() ([]Order, error) {
	return s.repo.ListAll()
}

// UpdateStatus applies one state-machine transition. Admins may move an
// order forward (or cancel it); owners may only cancel, and only while the
// order is pending or processing. Transitioning to cancelled restocks every
// line item exactly once.
func (s *Service) UpdateStatus(orderID, actorID int, isAdmin bool, target string) (Order, error) {
	if !ValidTarget(target) {
		return Order{}, ErrInvalidStatus
	}

	ord, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}
	if !isAdmin {
		if ord.UserID != actorID {
			return Order{}, ErrForbidden
		}
		if target != StatusCancelled {
			return Order{}, ErrForbidden
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var deliveredAt *string
	if target == StatusDelivered {
		deliveredAt = &now
	}

	updated, err := s.repo.Transition(orderID, allowedFrom(target), target, deliveredAt, target == StatusCancelled, now)
	if err != nil {
		return Order{}, err
	}

	log.Info().Int("orderId", orderID).Str("status", target).Msg("order status changed")
	s.publish(RoutingKeyStatusChanged, OrderStatusChangedEvent{
		EventID:   uuid.New().String(),
		OrderID:   updated.ID,
		UserID:    updated.UserID,
		Status:    updated.Status,
		Restocked: target == StatusCancelled,
		Timestamp: time.Now().UTC(),
	})

	return updated, nil
}

// Cancel is the owner-facing cancellation entry point.
func (s *Service) Cancel(orderID, actorID int, isAdmin bool) (Order, error) {
	return s.UpdateStatus(orderID, actorID, isAdmin, StatusCancelled)
}

func (s *Service) HasPurchased(userID, productID int) (bool, error) {
	return s.repo.HasPurchased(userID, productID)
}

// publish is best effort: event delivery never fails the request.
func (s *Service) publish(routingKey string, event interface{}) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.Background(), routingKey, event); err != nil {
		log.Warn().Err(err).Str("routingKey", routingKey).Msg("failed to publish order event")
	}
}
