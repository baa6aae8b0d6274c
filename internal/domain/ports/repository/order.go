package repository

import (
	"context"

	"poster-commerce/internal/domain/model"

	"github.com/shopspring/decimal"
)

type OrderRepository interface {
	Create(ctx context.Context, tx Tx, o *model.Order) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Order, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.OrderView, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.OrderView, error)

	// UpdateStatusIf moves the order to `to` only while it is still in
	// `from`. It returns domain.ErrInvalidState when no row matched.
	// A non-nil pd replaces the stored payment details.
	UpdateStatusIf(ctx context.Context, tx Tx, id string, from, to model.OrderStatus, pd *model.PaymentDetails) error

	CountByStatus(ctx context.Context, tx Tx) (map[model.OrderStatus]int, error)
	// Revenue sums non-zero totals of settled orders (Completed, Shipped, Delivered).
	Revenue(ctx context.Context, tx Tx) (decimal.Decimal, error)
}
