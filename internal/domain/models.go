package domain

// MediaKind distinguishes the two unlockable collections on a catalog item.
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// MediaHandle is an opaque reference to a stored media file. It stays stable
// across process restarts; only the MediaStore knows how to resolve it.
type MediaHandle struct {
	Path string
	Kind MediaKind
}

// Buyer is an external chat identity, created lazily on first contact.
type Buyer struct {
	TelegramID int64  `db:"telegram_id"`
	Username   string `db:"username"`
	CreatedAt  string `db:"created_at"`
}

// Item is a purchasable catalog entry. Photos and videos are unlockable only
// after purchase; Preview is the public teaser shown on the detail screen.
type Item struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	Preview     string  `db:"preview"`
}

type OrderStatus string

const (
	StatusPending  OrderStatus = "pending"
	StatusPaid     OrderStatus = "paid"
	StatusRejected OrderStatus = "rejected"
)

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusPaid || s == StatusRejected
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	return s == StatusPending || s == StatusPaid || s == StatusRejected
}

// Order is a financial record; it is never deleted. Amount is captured at
// creation time so later price edits don't touch existing orders.
type Order struct {
	ID           string      `db:"id"`
	BuyerID      int64       `db:"buyer_id"`
	ItemID       string      `db:"item_id"`
	Amount       float64     `db:"amount"`
	Status       OrderStatus `db:"status"`
	PaymentProof string      `db:"payment_proof"`
	CreatedAt    string      `db:"created_at"`
}

// PaidEvent is emitted exactly once when an order transitions into paid.
type PaidEvent struct {
	OrderID string
	BuyerID int64
	ItemID  string
	Amount  float64
}
