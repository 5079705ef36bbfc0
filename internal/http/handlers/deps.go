package handlers

import (
	"chatshop/internal/repos"
	"chatshop/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	OrderHandler *OrderHandler
	AdminHandler *AdminHandler
}

func NewDeps(db *sqlx.DB, orders *services.OrderService) *Deps {
	orderRepo := repos.NewOrderRepo(db)
	return &Deps{
		OrderHandler: &OrderHandler{Orders: orders},
		AdminHandler: &AdminHandler{Orders: orders, Repo: orderRepo},
	}
}
