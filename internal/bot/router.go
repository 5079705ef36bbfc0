package bot

import (
	"context"
	"errors"
	"fmt"

	"chatshop/internal/domain"
	applog "chatshop/internal/log"
	"chatshop/internal/media"
	"chatshop/internal/repos"
	"chatshop/internal/services"
	"chatshop/internal/transport"
)

// Session is everything the router may know about the interaction: the chat
// identity carried by the update. There is no server-side screen memory;
// continuity lives in the tokens embedded in already-sent messages.
type Session struct {
	ChatID   int64
	BuyerID  int64
	Username string
}

// Ack is an interaction acknowledgment (toast or modal) instead of, or in
// addition to, a screen change.
type Ack struct {
	Text  string
	Modal bool
}

// Screen is a rendered navigation state: caption, optional photo, button
// grid. A Screen with only an Ack leaves the message untouched.
type Screen struct {
	Caption string
	Photo   []byte
	Buttons [][]transport.Button
	Ack     *Ack
}

// Router decodes action tokens and renders screens. Dispatch is a pure
// function of repository and catalog state.
type Router struct {
	Buyers       *repos.BuyerRepo
	Catalog      *repos.CatalogRepo
	Orders       *services.OrderService
	OrderRepo    *repos.OrderRepo
	Media        media.Store
	Delivery     *services.Delivery
	Transport    transport.Client
	OperatorChat int64
	PageSize     int
	SupportURL   string
}

// HandleToken is the dispatch boundary: every failure below it degrades to a
// recoverable screen that still offers a way home.
func (r *Router) HandleToken(ctx context.Context, token string, sess Session) Screen {
	in, err := Decode(token)
	if err != nil {
		applog.Warn("router.token.malformed", err, map[string]any{"chat_id": sess.ChatID})
		return r.errorScreen()
	}

	s, err := r.Dispatch(ctx, in, sess)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return r.notFoundScreen()
		}
		applog.Error("router.dispatch", err, map[string]any{
			"chat_id": sess.ChatID, "intent": string(in.Kind),
		})
		return r.errorScreen()
	}
	return s
}

func (r *Router) Dispatch(ctx context.Context, in Intent, sess Session) (Screen, error) {
	switch in.Kind {
	case IntentHome:
		return r.homeScreen(), nil
	case IntentCatalog:
		return r.catalogScreen(ctx)
	case IntentItem:
		return r.itemScreen(ctx, in.ItemID)
	case IntentBuy:
		return r.buyScreen(ctx, in.ItemID, sess)
	case IntentClaim:
		return r.claimScreen(ctx, in.OrderID, sess)
	case IntentOrders:
		return r.ordersScreen(ctx, in.Page, sess)
	case IntentOrder:
		return r.orderScreen(ctx, in.OrderID, sess)
	}
	return Screen{}, fmt.Errorf("intent %q: %w", in.Kind, domain.ErrMalformedToken)
}
