// Package bot contains the chat navigation layer: the action-token codec and
// the router that turns decoded intents into rendered screens.
package bot

import (
	"fmt"
	"strconv"
	"strings"

	"chatshop/internal/domain"
	"chatshop/internal/validate"
)

// IntentKind enumerates the screens a button can navigate to.
type IntentKind string

const (
	IntentHome    IntentKind = "home"
	IntentCatalog IntentKind = "catalog"
	IntentItem    IntentKind = "item"
	IntentBuy     IntentKind = "buy"
	IntentClaim   IntentKind = "claim"
	IntentOrders  IntentKind = "orders"
	IntentOrder   IntentKind = "order"
)

// Intent is a decoded action token.
type Intent struct {
	Kind    IntentKind
	ItemID  string
	OrderID string
	Page    int
}

// Token constructors. The grammar is deliberately compact (Telegram caps
// callback payloads at 64 bytes) and stable across restarts: tokens embedded
// in old messages must keep decoding.

func TokenHome() string              { return string(IntentHome) }
func TokenCatalog() string           { return string(IntentCatalog) }
func TokenItem(itemID string) string { return string(IntentItem) + ":" + itemID }
func TokenBuy(itemID string) string  { return string(IntentBuy) + ":" + itemID }
func TokenClaim(orderID string) string {
	return string(IntentClaim) + ":" + orderID
}
func TokenOrders(page int) string {
	return string(IntentOrders) + ":" + strconv.Itoa(page)
}
func TokenOrder(orderID string) string { return string(IntentOrder) + ":" + orderID }

// Decode parses a callback payload. Unknown verbs, bad ids and non-numeric
// pages all come back as domain.ErrMalformedToken; out-of-range pages are
// legal here and clamped at render time.
func Decode(token string) (Intent, error) {
	verb, arg, hasArg := strings.Cut(token, ":")

	switch IntentKind(verb) {
	case IntentHome, IntentCatalog:
		if hasArg {
			return Intent{}, malformed(token)
		}
		return Intent{Kind: IntentKind(verb)}, nil

	case IntentItem, IntentBuy:
		if !hasArg {
			return Intent{}, malformed(token)
		}
		id, ok := validate.ID(arg)
		if !ok {
			return Intent{}, malformed(token)
		}
		return Intent{Kind: IntentKind(verb), ItemID: id}, nil

	case IntentClaim, IntentOrder:
		if !hasArg {
			return Intent{}, malformed(token)
		}
		id, ok := validate.ID(arg)
		if !ok {
			return Intent{}, malformed(token)
		}
		return Intent{Kind: IntentKind(verb), OrderID: id}, nil

	case IntentOrders:
		if !hasArg {
			return Intent{Kind: IntentOrders}, nil
		}
		page, err := strconv.Atoi(arg)
		if err != nil {
			return Intent{}, malformed(token)
		}
		return Intent{Kind: IntentOrders, Page: page}, nil
	}
	return Intent{}, malformed(token)
}

func malformed(token string) error {
	return fmt.Errorf("token %q: %w", token, domain.ErrMalformedToken)
}
