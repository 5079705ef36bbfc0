package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"chatshop/internal/domain"
)

type BuyerRepo struct{ db *sqlx.DB }

func NewBuyerRepo(db *sqlx.DB) *BuyerRepo { return &BuyerRepo{db: db} }

// Ensure upserts a buyer on first contact and refreshes a changed username.
func (r *BuyerRepo) Ensure(ctx context.Context, telegramID int64, username string) (domain.Buyer, error) {
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO buyers(telegram_id, username)
	  VALUES(?, ?)
	  ON CONFLICT(telegram_id) DO UPDATE SET username = excluded.username
	  WHERE excluded.username != ''
	`, telegramID, username)
	if err != nil {
		return domain.Buyer{}, err
	}

	var b domain.Buyer
	err = r.db.GetContext(ctx, &b, `
	  SELECT telegram_id, username, created_at FROM buyers WHERE telegram_id = ?
	`, telegramID)
	return b, err
}

func (r *BuyerRepo) Get(ctx context.Context, telegramID int64) (domain.Buyer, error) {
	var b domain.Buyer
	err := r.db.GetContext(ctx, &b, `
	  SELECT telegram_id, username, created_at FROM buyers WHERE telegram_id = ?
	`, telegramID)
	return b, err
}
