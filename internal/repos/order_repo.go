package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"chatshop/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts a new pending order. Amount is captured by the caller at
// purchase time; the repo never recomputes it from the item.
func (r *OrderRepo) Create(ctx context.Context, id string, buyerID int64, itemID string, amount float64) error {
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO orders(id, buyer_id, item_id, amount, status, created_at)
	  VALUES(?, ?, ?, ?, 'pending', CURRENT_TIMESTAMP)
	`, id, buyerID, itemID, amount)
	return err
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.GetContext(ctx, &o, `
	  SELECT id, buyer_id, item_id, amount, status, payment_proof, created_at
	  FROM orders
	  WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, err
}

// ListForBuyer returns the buyer's orders in a stable most-recent-first order.
// The id tiebreak keeps pagination deterministic for orders created within
// the same second.
func (r *OrderRepo) ListForBuyer(ctx context.Context, buyerID int64, status domain.OrderStatus) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.SelectContext(ctx, &out, `
	  SELECT id, buyer_id, item_id, amount, status, payment_proof, created_at
	  FROM orders
	  WHERE buyer_id = ? AND status = ?
	  ORDER BY datetime(created_at) DESC, id DESC
	`, buyerID, status)
	return out, err
}

// ListLatest returns the most recent orders for operator review.
func (r *OrderRepo) ListLatest(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Order
	err := r.db.SelectContext(ctx, &out, `
	  SELECT id, buyer_id, item_id, amount, status, payment_proof, created_at
	  FROM orders
	  ORDER BY datetime(created_at) DESC, id DESC
	  LIMIT ?
	`, limit)
	return out, err
}

// Transition performs the atomic pending → target compare-and-set. The single
// UPDATE is the only writer of the status column, which is what guarantees
// at-most-once paid side effects under concurrent attempts.
func (r *OrderRepo) Transition(ctx context.Context, id string, target domain.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `
	  UPDATE orders SET status = ? WHERE id = ? AND status = 'pending'
	`, target, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	// Lost the race or the order never existed; tell them apart.
	var cur string
	err = r.db.GetContext(ctx, &cur, `SELECT status FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return domain.ErrInvalidTransition
}

// AttachProof records a payment-proof reference on an order.
func (r *OrderRepo) AttachProof(ctx context.Context, id, proof string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET payment_proof = ? WHERE id = ?`, proof, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
