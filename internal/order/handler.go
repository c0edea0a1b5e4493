package order

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/chairup/chairup-backend/internal/product"
	"github.com/chairup/chairup-backend/internal/promotion"
	"github.com/chairup/chairup-backend/internal/user"
)

// CartClearer empties a user's cart after a successful checkout. Clearing
// lives in the handler so the order service stays free of cart concerns.
type CartClearer interface {
	Clear(userID int) error
}

type Handler struct {
	service *Service
	carts   CartClearer
}

func NewHandler(service *Service, carts CartClearer) *Handler {
	return &Handler{service: service, carts: carts}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/orders", h.createOrder)
	app.Get("/api/orders/my", h.getMyOrders)
	app.Get("/api/orders", h.getAllOrders)
	app.Get("/api/orders/:id<[0-9]+>", h.getOrder)
	app.Put("/api/orders/:id<[0-9]+>/status", h.updateStatus)
	app.Put("/api/orders/:id<[0-9]+>/cancel", h.cancelOrder)
}

type orderItemRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type createOrderRequest struct {
	OrderItems      []orderItemRequest `json:"orderItems"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	PhoneNumber     string             `json:"phoneNumber"`
	PaymentMethod   string             `json:"paymentMethod"`
	PromoCode       string             `json:"promoCode"`
}

func (req *createOrderRequest) validate() string {
	if len(req.OrderItems) == 0 {
		return "orderItems cannot be empty"
	}
	for _, item := range req.OrderItems {
		if item.ProductID <= 0 {
			return "each order item needs a productId"
		}
		if item.Quantity < 1 {
			return "each order item needs a quantity of at least 1"
		}
	}
	addr := req.ShippingAddress
	if addr.Address == "" || addr.City == "" || addr.PostalCode == "" || addr.Country == "" {
		return "shippingAddress requires address, city, postalCode and country"
	}
	if req.PhoneNumber == "" {
		return "phoneNumber is required"
	}
	return ""
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if msg := payload.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
	}

	items := make([]OrderItem, 0, len(payload.OrderItems))
	for _, item := range payload.OrderItems {
		items = append(items, OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	created, err := h.service.Create(userID, CreateInput{
		Items:           items,
		ShippingAddress: payload.ShippingAddress,
		PhoneNumber:     payload.PhoneNumber,
		PaymentMethod:   payload.PaymentMethod,
		PromoCode:       payload.PromoCode,
	})
	if err != nil {
		var stockErr *product.InsufficientStockError
		switch {
		case err == product.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
		case errors.As(err, &stockErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": stockErr.Error()})
		case err == ErrEmptyOrder, err == ErrInvalidQuantity, err == ErrInvalidPaymentMethod:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		case err == promotion.ErrNotFound:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid promotion code"})
		case err == promotion.ErrExpired:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Promotion code has expired"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	// the cart fed this checkout, so empty it now that stock is committed
	if h.carts != nil {
		if err := h.carts.Clear(userID); err != nil {
			log.Warn().Err(err).Int("userId", userID).Msg("failed to clear cart after checkout")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) getMyOrders(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.ListByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(orders)
}

func (h *Handler) getAllOrders(c *fiber.Ctx) error {
	if !user.IsAdminFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin access required"})
	}

	orders, err := h.service.ListAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	ord, err := h.service.GetByID(orderID, userID, user.IsAdminFromCtx(c))
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
		case ErrForbidden:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Not authorized to view this order"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.JSON(ord)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	if !user.IsAdminFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin access required"})
	}

	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	payload := new(updateStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	updated, err := h.service.UpdateStatus(orderID, userID, true, payload.Status)
	if err != nil {
		return h.transitionError(c, err)
	}

	return c.JSON(updated)
}

func (h *Handler) cancelOrder(c *fiber.Ctx) error {
	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	updated, err := h.service.Cancel(orderID, userID, user.IsAdminFromCtx(c))
	if err != nil {
		return h.transitionError(c, err)
	}

	return c.JSON(updated)
}

func (h *Handler) transitionError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
	case ErrForbidden:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Not authorized to update this order"})
	case ErrInvalidStatus:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid status value"})
	case ErrInvalidTransition:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Status change not permitted from current state"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
