package postgres

import (
	"context"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Ensure interface compliance
var _ repository.PlanRepository = (*PostgresPlanRepo)(nil)

type PostgresPlanRepo struct {
	pool *pgxpool.Pool
}

func NewPlanRepo(pool *pgxpool.Pool) *PostgresPlanRepo {
	return &PostgresPlanRepo{pool: pool}
}

const planColumns = `id, name, original_price, offer_price, discount_percentage, duration, features, created_at, updated_at`

func (r *PostgresPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.Plan) error {
	const q = `
INSERT INTO plans (id, name, original_price, offer_price, discount_percentage, duration, features, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE
  SET name                = EXCLUDED.name,
      original_price      = EXCLUDED.original_price,
      offer_price         = EXCLUDED.offer_price,
      discount_percentage = EXCLUDED.discount_percentage,
      duration            = EXCLUDED.duration,
      features            = EXCLUDED.features,
      updated_at          = EXCLUDED.updated_at;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.Name, p.OriginalPrice, p.OfferPrice, p.DiscountPercentage, p.Duration, nonNil(p.Features), p.CreatedAt, p.UpdatedAt,
	)
	return mapErr("save plan", err)
}

func (r *PostgresPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	q := `SELECT ` + planColumns + ` FROM plans WHERE id = $1` + forUpdate(tx)
	return scanPlan(pickRow(ctx, r.pool, tx, q, id))
}

func (r *PostgresPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT `+planColumns+` FROM plans ORDER BY created_at DESC;`)
	if err != nil {
		return nil, mapErr("list plans", err)
	}
	defer rows.Close()
	out := []*model.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, mapErr("list plans", rows.Err())
}

// Delete leaves existing subscriptions alone: users hold snapshots, not references.
func (r *PostgresPlanRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	ct, err := execSQL(ctx, r.pool, tx, `DELETE FROM plans WHERE id = $1;`, id)
	if err != nil {
		return mapErr("delete plan", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPlan(row pgx.Row) (*model.Plan, error) {
	var p model.Plan
	if err := row.Scan(&p.ID, &p.Name, &p.OriginalPrice, &p.OfferPrice, &p.DiscountPercentage,
		&p.Duration, &p.Features, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapErr("scan plan", err)
	}
	p.Features = nonNil(p.Features)
	return &p, nil
}
