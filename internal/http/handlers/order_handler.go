package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"chatshop/internal/domain"
	applog "chatshop/internal/log"
	"chatshop/internal/services"
	"chatshop/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type createOrderReq struct {
	TelegramID int64  `json:"telegram_id"`
	ItemID     string `json:"item_id"`
}

// Create handles POST /api/v1/orders: external order creation on behalf of a
// chat identity. The buyer is created lazily if this is their first contact.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req createOrderReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if req.TelegramID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid telegram_id"})
	}
	itemID, ok := validate.ID(req.ItemID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item_id"})
	}

	order, err := h.Orders.Create(c.Context(), req.TelegramID, "", itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
		}
		applog.Error("api.order.create", err, map[string]any{"item_id": itemID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not create order"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_id": order.ID,
		"status":   order.Status,
	})
}

// Get handles GET /api/v1/orders/:id.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	order, err := h.Orders.Orders.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		}
		applog.Error("api.order.get", err, map[string]any{"order_id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load order"})
	}
	return c.JSON(order)
}
