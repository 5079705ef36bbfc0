package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"chatshop/internal/domain"
	applog "chatshop/internal/log"
	"chatshop/internal/repos"
	"chatshop/internal/services"
	"chatshop/internal/validate"
)

// AdminHandler is the operator back-office surface: reviewing orders and
// performing the authoritative status transitions.
type AdminHandler struct {
	Orders *services.OrderService
	Repo   *repos.OrderRepo
}

// UpdateOrderStatus handles POST /admin/orders/:id/status. A transition to
// paid triggers the notification/delivery path as a side effect; repeating
// the request on a terminal order is a 409, never a second delivery.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id"})
	}
	status := domain.OrderStatus(c.FormValue("status"))
	if !status.Valid() || status == domain.StatusPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "status must be paid or rejected"})
	}

	err := h.Orders.Transition(c.Context(), id, status)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	case errors.Is(err, domain.ErrInvalidTransition):
		applog.Warn("admin.order.transition.terminal", err, map[string]any{"order_id": id})
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "order already finalized"})
	case err != nil:
		applog.Error("admin.order.transition", err, map[string]any{"order_id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update status"})
	}

	applog.Audit("admin.order.transition", map[string]any{"order_id": id, "status": string(status)})
	return c.JSON(fiber.Map{"order_id": id, "status": status})
}

// ListOrders handles GET /admin/orders: recent orders for operator review.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	ords, err := h.Repo.ListLatest(c.Context(), 100)
	if err != nil {
		applog.Error("admin.orders.list", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load orders"})
	}
	return c.JSON(fiber.Map{"orders": ords})
}
