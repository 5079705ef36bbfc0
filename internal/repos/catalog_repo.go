package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"chatshop/internal/domain"
)

type CatalogRepo struct{ db *sqlx.DB }

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{db: db} }

func (r *CatalogRepo) List(ctx context.Context) ([]domain.Item, error) {
	var out []domain.Item
	err := r.db.SelectContext(ctx, &out, `
	  SELECT id, name, COALESCE(description,'') AS description, price, COALESCE(preview,'') AS preview
	  FROM items
	  ORDER BY name
	`)
	return out, err
}

func (r *CatalogRepo) Get(ctx context.Context, id string) (domain.Item, error) {
	var it domain.Item
	err := r.db.GetContext(ctx, &it, `
	  SELECT id, name, COALESCE(description,'') AS description, price, COALESCE(preview,'') AS preview
	  FROM items
	  WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, domain.ErrNotFound
	}
	return it, err
}

// MediaSet returns the item's full unlockable collection: photos first, then
// videos, each in catalog position order.
func (r *CatalogRepo) MediaSet(ctx context.Context, itemID string) ([]domain.MediaHandle, error) {
	var photos []string
	if err := r.db.SelectContext(ctx, &photos, `
	  SELECT path FROM item_photos WHERE item_id = ? ORDER BY position
	`, itemID); err != nil {
		return nil, err
	}
	var videos []string
	if err := r.db.SelectContext(ctx, &videos, `
	  SELECT path FROM item_videos WHERE item_id = ? ORDER BY position
	`, itemID); err != nil {
		return nil, err
	}

	out := make([]domain.MediaHandle, 0, len(photos)+len(videos))
	for _, p := range photos {
		out = append(out, domain.MediaHandle{Path: p, Kind: domain.MediaPhoto})
	}
	for _, v := range videos {
		out = append(out, domain.MediaHandle{Path: v, Kind: domain.MediaVideo})
	}
	return out, nil
}
