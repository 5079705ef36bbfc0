package bot

import (
	"context"
	"errors"
	"fmt"

	"chatshop/internal/domain"
	applog "chatshop/internal/log"
	"chatshop/internal/transport"
)

const paymentInstructions = "Transfer the amount to one of the following:\n\n" +
	"💰 SBP: +7 999 123-45-67\n" +
	"💳 Card: 4276 1234 5678 9012\n\n" +
	"After the transfer, press '✅ I have paid'."

func (r *Router) homeScreen() Screen {
	return Screen{
		Caption: "Welcome to the agency 🔞",
		Buttons: r.mainMenu(),
	}
}

func (r *Router) mainMenu() [][]transport.Button {
	rows := [][]transport.Button{
		{{Label: "📸 Models", Token: TokenCatalog()}},
		{{Label: "📦 My orders", Token: TokenOrders(0)}},
	}
	if r.SupportURL != "" {
		rows = append(rows, []transport.Button{{Label: "🔧 Support", URL: r.SupportURL}})
	}
	return rows
}

func (r *Router) errorScreen() Screen {
	return Screen{
		Caption: "⚠️ Something went wrong. Please try again later.",
		Buttons: [][]transport.Button{{{Label: "🏠 Home", Token: TokenHome()}}},
	}
}

func (r *Router) notFoundScreen() Screen {
	return Screen{
		Caption: "⚠️ Not found. It may have been removed.",
		Buttons: [][]transport.Button{{{Label: "🏠 Home", Token: TokenHome()}}},
	}
}

func (r *Router) catalogScreen(ctx context.Context) (Screen, error) {
	items, err := r.Catalog.List(ctx)
	if err != nil {
		return Screen{}, fmt.Errorf("list catalog: %w", err)
	}
	if len(items) == 0 {
		// Explicit empty state; an empty button grid would strand the user.
		return Screen{
			Caption: "😔 No models available right now.",
			Buttons: r.mainMenu(),
		}, nil
	}

	var rows [][]transport.Button
	for _, it := range items {
		rows = append(rows, []transport.Button{{Label: it.Name, Token: TokenItem(it.ID)}})
	}
	rows = append(rows, []transport.Button{{Label: "◀️ Back", Token: TokenHome()}})
	return Screen{Caption: "Choose a model:", Buttons: rows}, nil
}

func (r *Router) itemScreen(ctx context.Context, itemID string) (Screen, error) {
	item, err := r.Catalog.Get(ctx, itemID)
	if err != nil {
		return Screen{}, err
	}

	s := Screen{
		Caption: fmt.Sprintf("🔥 %s\n\n%s\n\n💵 Price: %.2f RUB", item.Name, item.Description, item.Price),
		Buttons: [][]transport.Button{
			{{Label: "🛒 Buy", Token: TokenBuy(item.ID)}},
			{{Label: "◀️ Back", Token: TokenCatalog()}},
		},
	}

	if item.Preview != "" {
		b, err := r.Media.Resolve(ctx, domain.MediaHandle{Path: item.Preview, Kind: domain.MediaPhoto})
		switch {
		case err == nil:
			s.Photo = b
		case errors.Is(err, domain.ErrMediaAbsent):
			// Caption-only beats failing the whole screen.
			applog.Warn("screen.preview.absent", nil, map[string]any{"item_id": item.ID})
		default:
			applog.Warn("screen.preview.read", err, map[string]any{"item_id": item.ID})
		}
	}
	return s, nil
}

// buyScreen creates a fresh pending order on every click; re-buying is a
// second order, not an error.
func (r *Router) buyScreen(ctx context.Context, itemID string, sess Session) (Screen, error) {
	item, err := r.Catalog.Get(ctx, itemID)
	if err != nil {
		return Screen{}, err
	}
	order, err := r.Orders.Create(ctx, sess.BuyerID, sess.Username, itemID)
	if err != nil {
		return Screen{}, err
	}

	caption := fmt.Sprintf("✅ You chose: %s\n\n💵 Price: %.2f RUB\n\n%s",
		item.Name, order.Amount, paymentInstructions)
	return Screen{
		Caption: caption,
		Buttons: [][]transport.Button{
			{{Label: "✅ I have paid", Token: TokenClaim(order.ID)}},
			{{Label: "◀️ Back", Token: TokenItem(item.ID)}},
		},
	}, nil
}

// claimScreen handles the buyer's "I have paid" claim. It only notifies the
// operator; the authoritative transition stays an operator action.
func (r *Router) claimScreen(ctx context.Context, orderID string, sess Session) (Screen, error) {
	order, err := r.OrderRepo.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Screen{Ack: &Ack{Text: "⚠️ Order not found", Modal: true}}, nil
		}
		return Screen{}, err
	}

	itemName := order.ItemID
	if item, err := r.Catalog.Get(ctx, order.ItemID); err == nil {
		itemName = item.Name
	}

	msg := fmt.Sprintf("🆕 New payment claim!\nBuyer: @%s (ID: %d)\nOrder: %s\nItem: %s\nAmount: %.2f RUB\n"+
		"Please verify the transfer and update the order status.",
		sess.Username, sess.BuyerID, order.ID, itemName, order.Amount)
	if err := r.Transport.SendText(ctx, r.OperatorChat, msg, nil); err != nil {
		applog.Error("claim.operator.notify", err, map[string]any{"order_id": order.ID})
		return Screen{Ack: &Ack{Text: "⚠️ Something went wrong. Please try again later.", Modal: true}}, nil
	}

	applog.Audit("claim.sent", map[string]any{"order_id": order.ID, "buyer_id": sess.BuyerID})
	return Screen{Ack: &Ack{
		Text:  "✅ The operator has been notified. Your order will be confirmed after verification.",
		Modal: true,
	}}, nil
}

func (r *Router) ordersScreen(ctx context.Context, page int, sess Session) (Screen, error) {
	orders, err := r.Orders.ListForBuyer(ctx, sess.BuyerID, domain.StatusPaid)
	if err != nil {
		return Screen{}, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return Screen{
			Caption: "😔 You have no paid orders yet.",
			Buttons: r.mainMenu(),
		}, nil
	}

	pageSize := r.PageSize
	if pageSize <= 0 {
		pageSize = 5
	}
	totalPages := (len(orders) + pageSize - 1) / pageSize
	// Out-of-range tokens (stale messages, crafted payloads) clamp, never error.
	if page < 0 {
		page = 0
	}
	if page > totalPages-1 {
		page = totalPages - 1
	}

	start := page * pageSize
	end := start + pageSize
	if end > len(orders) {
		end = len(orders)
	}

	names := map[string]string{}
	var rows [][]transport.Button
	for _, o := range orders[start:end] {
		name, ok := names[o.ItemID]
		if !ok {
			name = o.ItemID
			if item, err := r.Catalog.Get(ctx, o.ItemID); err == nil {
				name = item.Name
			}
			names[o.ItemID] = name
		}
		rows = append(rows, []transport.Button{{
			Label: fmt.Sprintf("📦 %s — %.2f RUB", name, o.Amount),
			Token: TokenOrder(o.ID),
		}})
	}

	var nav []transport.Button
	if page > 0 {
		nav = append(nav, transport.Button{Label: "⬅️ Prev", Token: TokenOrders(page - 1)})
	}
	if end < len(orders) {
		nav = append(nav, transport.Button{Label: "Next ➡️", Token: TokenOrders(page + 1)})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, []transport.Button{{Label: "◀️ Back", Token: TokenHome()}})

	return Screen{
		Caption: fmt.Sprintf("📦 Your paid orders (page %d of %d):", page+1, totalPages),
		Buttons: rows,
	}, nil
}

// orderScreen re-delivers a paid order's media set. The status check is what
// keeps unpaid orders from leaking purchased content through this path.
func (r *Router) orderScreen(ctx context.Context, orderID string, sess Session) (Screen, error) {
	order, err := r.OrderRepo.Get(ctx, orderID)
	if err != nil {
		return Screen{}, err
	}
	if order.BuyerID != sess.BuyerID {
		return Screen{}, domain.ErrNotFound
	}
	if order.Status != domain.StatusPaid {
		return Screen{
			Caption: fmt.Sprintf("⏳ Order %s is awaiting payment confirmation.", order.ID),
			Buttons: [][]transport.Button{{{Label: "🏠 Home", Token: TokenHome()}}},
		}, nil
	}

	itemName := order.ItemID
	if item, err := r.Catalog.Get(ctx, order.ItemID); err == nil {
		itemName = item.Name
	}

	handles, err := r.Catalog.MediaSet(ctx, order.ItemID)
	if err != nil {
		return Screen{}, fmt.Errorf("load media set: %w", err)
	}
	if err := r.Delivery.Deliver(ctx, sess.ChatID, handles); err != nil {
		if errors.Is(err, domain.ErrNothingDelivered) {
			return Screen{
				Caption: "⚠️ Media is temporarily unavailable. Please try again later.",
				Buttons: [][]transport.Button{{{Label: "🏠 Home", Token: TokenHome()}}},
			}, nil
		}
		return Screen{}, err
	}

	return Screen{
		Caption: fmt.Sprintf("✅ Your order for %s is confirmed! Content sent below.", itemName),
		Buttons: [][]transport.Button{
			{{Label: "📦 My orders", Token: TokenOrders(0)}},
			{{Label: "🏠 Home", Token: TokenHome()}},
		},
	}, nil
}
