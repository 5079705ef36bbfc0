package services

import (
	"context"
	"errors"
	"fmt"

	"chatshop/internal/domain"
	applog "chatshop/internal/log"
	"chatshop/internal/repos"
	"chatshop/internal/transport"
)

// Dispatcher services PaidEvents off the critical path of the transition that
// produced them. One long-lived worker drains a bounded queue; Enqueue never
// blocks the caller.
type Dispatcher struct {
	Catalog      *repos.CatalogRepo
	Transport    transport.Client
	Delivery     *Delivery
	OperatorChat int64

	queue chan domain.PaidEvent
}

func NewDispatcher(catalog *repos.CatalogRepo, client transport.Client, delivery *Delivery, operatorChat int64, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		Catalog:      catalog,
		Transport:    client,
		Delivery:     delivery,
		OperatorChat: operatorChat,
		queue:        make(chan domain.PaidEvent, queueSize),
	}
}

// Enqueue hands an event to the worker. A full queue drops the event with a
// warning rather than stalling the transition writer.
func (d *Dispatcher) Enqueue(ev domain.PaidEvent) bool {
	select {
	case d.queue <- ev:
		return true
	default:
		applog.Warn("dispatch.queue.full", nil, map[string]any{"order_id": ev.OrderID})
		return false
	}
}

// Run drains the queue until ctx is cancelled. Started once at process init.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.queue:
			d.handle(ctx, ev)
		}
	}
}

// handle notifies the operator and pushes the unlocked media set to the
// buyer. Every failure here is logged and swallowed; nothing propagates back
// to whoever flipped the order to paid.
func (d *Dispatcher) handle(ctx context.Context, ev domain.PaidEvent) {
	itemName := ev.ItemID
	if item, err := d.Catalog.Get(ctx, ev.ItemID); err == nil {
		itemName = item.Name
	} else {
		applog.Warn("dispatch.item.load", err, map[string]any{"order_id": ev.OrderID})
	}

	if d.OperatorChat != 0 {
		msg := fmt.Sprintf("💰 Order %s is paid.\nBuyer: %d\nItem: %s\nAmount: %.2f RUB",
			ev.OrderID, ev.BuyerID, itemName, ev.Amount)
		if err := d.Transport.SendText(ctx, d.OperatorChat, msg, nil); err != nil {
			applog.Error("dispatch.operator.notify", err, map[string]any{"order_id": ev.OrderID})
		}
	}

	confirm := fmt.Sprintf("✅ Your order %s is confirmed! Your content is on the way:", ev.OrderID)
	if err := d.Transport.SendText(ctx, ev.BuyerID, confirm, nil); err != nil {
		applog.Error("dispatch.buyer.notify", err, map[string]any{"order_id": ev.OrderID})
	}

	handles, err := d.Catalog.MediaSet(ctx, ev.ItemID)
	if err != nil {
		applog.Error("dispatch.media.load", err, map[string]any{"order_id": ev.OrderID})
		return
	}
	if err := d.Delivery.Deliver(ctx, ev.BuyerID, handles); err != nil {
		if errors.Is(err, domain.ErrNothingDelivered) {
			_ = d.Transport.SendText(ctx, ev.BuyerID,
				"⚠️ Your content is temporarily unavailable. Support has been notified.", nil)
		}
		applog.Error("dispatch.deliver", err, map[string]any{"order_id": ev.OrderID})
	}
}
