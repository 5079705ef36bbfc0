package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"chatshop/internal/domain"
	applog "chatshop/internal/log"
	"chatshop/internal/repos"
)

// PaidSink receives PaidEvents without blocking the transition caller.
type PaidSink interface {
	Enqueue(ev domain.PaidEvent) bool
}

// OrderService owns the order lifecycle: creation and the pending → terminal
// transitions, including the at-most-once paid notification.
type OrderService struct {
	Buyers  *repos.BuyerRepo
	Catalog *repos.CatalogRepo
	Orders  *repos.OrderRepo
	Events  PaidSink
}

func NewOrderService(buyers *repos.BuyerRepo, catalog *repos.CatalogRepo, orders *repos.OrderRepo, events PaidSink) *OrderService {
	return &OrderService{Buyers: buyers, Catalog: catalog, Orders: orders, Events: events}
}

// Create opens a new pending order, capturing the item's price at this
// instant. Re-buying the same item is allowed and produces a separate order.
func (s *OrderService) Create(ctx context.Context, buyerID int64, username, itemID string) (domain.Order, error) {
	if _, err := s.Buyers.Ensure(ctx, buyerID, username); err != nil {
		return domain.Order{}, fmt.Errorf("ensure buyer: %w", err)
	}

	item, err := s.Catalog.Get(ctx, itemID)
	if err != nil {
		return domain.Order{}, err
	}

	orderID := uuid.NewString()
	if err := s.Orders.Create(ctx, orderID, buyerID, itemID, item.Price); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	applog.Audit("order.create", map[string]any{
		"order_id": orderID, "buyer_id": buyerID, "item_id": itemID, "amount": item.Price,
	})
	return domain.Order{
		ID: orderID, BuyerID: buyerID, ItemID: itemID,
		Amount: item.Price, Status: domain.StatusPending,
	}, nil
}

// Transition moves an order from pending into a terminal state. Re-invoking
// on an already-terminal order returns domain.ErrInvalidTransition and fires
// no side effects; the paid event is emitted exactly once because the
// repository's compare-and-set admits exactly one winner.
func (s *OrderService) Transition(ctx context.Context, orderID string, target domain.OrderStatus) error {
	if !target.Valid() || target == domain.StatusPending {
		return fmt.Errorf("target %q: %w", target, domain.ErrInvalidTransition)
	}

	if err := s.Orders.Transition(ctx, orderID, target); err != nil {
		return err
	}
	applog.Audit("order.transition", map[string]any{"order_id": orderID, "status": string(target)})

	if target != domain.StatusPaid {
		return nil
	}
	o, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		// Transition committed; the event payload read failing is a delivery
		// problem, not a transition failure.
		applog.Error("order.paid.load", err, map[string]any{"order_id": orderID})
		return nil
	}
	if !s.Events.Enqueue(domain.PaidEvent{
		OrderID: o.ID, BuyerID: o.BuyerID, ItemID: o.ItemID, Amount: o.Amount,
	}) {
		applog.Warn("order.paid.enqueue.full", nil, map[string]any{"order_id": orderID})
	}
	return nil
}

// ListForBuyer returns the buyer's orders with the given status,
// most-recent-first (stable across calls).
func (s *OrderService) ListForBuyer(ctx context.Context, buyerID int64, status domain.OrderStatus) ([]domain.Order, error) {
	return s.Orders.ListForBuyer(ctx, buyerID, status)
}
