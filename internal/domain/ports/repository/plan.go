package repository

import (
	"context"

	"poster-commerce/internal/domain/model"
)

// PlanRepository is the port for plan persistence.
type PlanRepository interface {
	Save(ctx context.Context, tx Tx, plan *model.Plan) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Plan, error)
	// ListAll returns plans newest first.
	ListAll(ctx context.Context, tx Tx) ([]*model.Plan, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
