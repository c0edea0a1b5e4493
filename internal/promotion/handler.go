package promotion

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/chairup/chairup-backend/internal/user"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/promotions", h.getPromotions)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/promotions/validate", h.validateCode)
	app.Post("/api/promotions", h.createPromotion)
	app.Delete("/api/promotions/:id<[0-9]+>", h.deletePromotion)
}

func (h *Handler) getPromotions(c *fiber.Ctx) error {
	promotions, err := h.service.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(promotions)
}

type validateRequest struct {
	Code       string  `json:"code"`
	ItemsPrice float64 `json:"itemsPrice"`
}

func (h *Handler) validateCode(c *fiber.Ctx) error {
	payload := new(validateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "code is required"})
	}

	promo, err := h.service.Validate(payload.Code)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invalid promotion code"})
		case ErrExpired:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Promotion code has expired"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	discount, err := h.service.Discount(payload.Code, payload.ItemsPrice)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(fiber.Map{
		"promotion": promo,
		"discount":  discount,
	})
}

type createPromotionRequest struct {
	Code            string `json:"code"`
	Description     string `json:"description"`
	DiscountPercent int    `json:"discountPercent"`
	ExpiryDate      string `json:"expiryDate"`
}

func (h *Handler) createPromotion(c *fiber.Ctx) error {
	if !user.IsAdminFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin access required"})
	}

	payload := new(createPromotionRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Code == "" || payload.ExpiryDate == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "code and expiryDate are required"})
	}

	created, err := h.service.Create(Promotion{
		Code:            payload.Code,
		Description:     payload.Description,
		DiscountPercent: payload.DiscountPercent,
		ExpiryDate:      payload.ExpiryDate,
	})
	if err != nil {
		switch err {
		case ErrCodeExists:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Promotion code already exists"})
		case ErrInvalidDiscount:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) deletePromotion(c *fiber.Ctx) error {
	if !user.IsAdminFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin access required"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid promotion id"})
	}

	if err := h.service.Delete(id); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Promotion not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Promotion deleted"})
}
