package postgres

import (
	"context"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var (
	_ repository.CategoryRepository         = (*categoryRepo)(nil)
	_ repository.BusinessCategoryRepository = (*businessCategoryRepo)(nil)
	_ repository.LogoRepository             = (*logoRepo)(nil)
	_ repository.BusinessCardRepository     = (*businessCardRepo)(nil)
)

// collect drains rows through scan.
func collect[T any](rows pgx.Rows, op string, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	defer rows.Close()
	out := []*T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, mapErr(op, rows.Err())
}

// ---- categories ----

type categoryRepo struct{ pool *pgxpool.Pool }

func NewCategoryRepo(pool *pgxpool.Pool) *categoryRepo { return &categoryRepo{pool: pool} }

func (r *categoryRepo) Save(ctx context.Context, tx repository.Tx, c *model.Category) error {
	const q = `
INSERT INTO categories (id, category_name, sub_category_name, image, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET category_name=$2, sub_category_name=$3, image=$4;`
	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.CategoryName, c.SubCategoryName, c.Image, c.CreatedAt)
	return mapErr("save category", err)
}

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	if err := row.Scan(&c.ID, &c.CategoryName, &c.SubCategoryName, &c.Image, &c.CreatedAt); err != nil {
		return nil, mapErr("scan category", err)
	}
	return &c, nil
}

func (r *categoryRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Category, error) {
	const q = `SELECT id, category_name, sub_category_name, image, created_at FROM categories WHERE id=$1;`
	return scanCategory(pickRow(ctx, r.pool, tx, q, id))
}

func (r *categoryRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Category, error) {
	const q = `SELECT id, category_name, sub_category_name, image, created_at FROM categories ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, mapErr("list categories", err)
	}
	return collect(rows, "list categories", scanCategory)
}

func (r *categoryRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	ct, err := execSQL(ctx, r.pool, tx, `DELETE FROM categories WHERE id=$1;`, id)
	if err != nil {
		return mapErr("delete category", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---- business categories ----

type businessCategoryRepo struct{ pool *pgxpool.Pool }

func NewBusinessCategoryRepo(pool *pgxpool.Pool) *businessCategoryRepo {
	return &businessCategoryRepo{pool: pool}
}

func (r *businessCategoryRepo) Save(ctx context.Context, tx repository.Tx, c *model.BusinessCategory) error {
	subs := make([]string, 0, len(c.SubCategories))
	for _, s := range c.SubCategories {
		subs = append(subs, s.SubCategoryName)
	}
	const q = `
INSERT INTO business_categories (id, category_name, image, sub_categories, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET category_name=$2, image=$3, sub_categories=$4;`
	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.CategoryName, c.Image, subs, c.CreatedAt)
	return mapErr("save business category", err)
}

func scanBusinessCategory(row pgx.Row) (*model.BusinessCategory, error) {
	var (
		c    model.BusinessCategory
		subs []string
	)
	if err := row.Scan(&c.ID, &c.CategoryName, &c.Image, &subs, &c.CreatedAt); err != nil {
		return nil, mapErr("scan business category", err)
	}
	c.SubCategories = make([]model.SubCategory, 0, len(subs))
	for _, s := range subs {
		c.SubCategories = append(c.SubCategories, model.SubCategory{SubCategoryName: s})
	}
	return &c, nil
}

func (r *businessCategoryRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.BusinessCategory, error) {
	const q = `SELECT id, category_name, image, sub_categories, created_at FROM business_categories WHERE id=$1;`
	return scanBusinessCategory(pickRow(ctx, r.pool, tx, q, id))
}

func (r *businessCategoryRepo) List(ctx context.Context, tx repository.Tx) ([]*model.BusinessCategory, error) {
	const q = `SELECT id, category_name, image, sub_categories, created_at FROM business_categories ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, mapErr("list business categories", err)
	}
	return collect(rows, "list business categories", scanBusinessCategory)
}

// ---- logos ----

type logoRepo struct{ pool *pgxpool.Pool }

func NewLogoRepo(pool *pgxpool.Pool) *logoRepo { return &logoRepo{pool: pool} }

func (r *logoRepo) Save(ctx context.Context, tx repository.Tx, l *model.Logo) error {
	const q = `
INSERT INTO logos (id, name, description, price, image, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET name=$2, description=$3, price=$4, image=$5;`
	_, err := execSQL(ctx, r.pool, tx, q, l.ID, l.Name, l.Description, l.Price, l.Image, l.CreatedAt)
	return mapErr("save logo", err)
}

func scanLogo(row pgx.Row) (*model.Logo, error) {
	var l model.Logo
	if err := row.Scan(&l.ID, &l.Name, &l.Description, &l.Price, &l.Image, &l.CreatedAt); err != nil {
		return nil, mapErr("scan logo", err)
	}
	return &l, nil
}

func (r *logoRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Logo, error) {
	const q = `SELECT id, name, description, price, image, created_at FROM logos WHERE id=$1;`
	return scanLogo(pickRow(ctx, r.pool, tx, q, id))
}

func (r *logoRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Logo, error) {
	const q = `SELECT id, name, description, price, image, created_at FROM logos ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, mapErr("list logos", err)
	}
	return collect(rows, "list logos", scanLogo)
}

// ---- business cards ----

type businessCardRepo struct{ pool *pgxpool.Pool }

func NewBusinessCardRepo(pool *pgxpool.Pool) *businessCardRepo { return &businessCardRepo{pool: pool} }

const businessCardColumns = `id, name, category, price, offer_price, description, size, tags, in_stock, images, created_at`

func (r *businessCardRepo) Save(ctx context.Context, tx repository.Tx, c *model.BusinessCard) error {
	const q = `
INSERT INTO business_cards (id, name, category, price, offer_price, description, size, tags, in_stock, images, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
  name=$2, category=$3, price=$4, offer_price=$5, description=$6, size=$7, tags=$8, in_stock=$9, images=$10;`
	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.Name, c.Category, c.Price, c.OfferPrice, c.Description, c.Size,
		nonNil(c.Tags), c.InStock, nonNil(c.Images), c.CreatedAt)
	return mapErr("save business card", err)
}

func scanBusinessCard(row pgx.Row) (*model.BusinessCard, error) {
	var c model.BusinessCard
	if err := row.Scan(&c.ID, &c.Name, &c.Category, &c.Price, &c.OfferPrice, &c.Description, &c.Size,
		&c.Tags, &c.InStock, &c.Images, &c.CreatedAt); err != nil {
		return nil, mapErr("scan business card", err)
	}
	c.Tags, c.Images = nonNil(c.Tags), nonNil(c.Images)
	return &c, nil
}

func (r *businessCardRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.BusinessCard, error) {
	return scanBusinessCard(pickRow(ctx, r.pool, tx, `SELECT `+businessCardColumns+` FROM business_cards WHERE id=$1;`, id))
}

func (r *businessCardRepo) List(ctx context.Context, tx repository.Tx) ([]*model.BusinessCard, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT `+businessCardColumns+` FROM business_cards ORDER BY created_at DESC;`)
	if err != nil {
		return nil, mapErr("list business cards", err)
	}
	return collect(rows, "list business cards", scanBusinessCard)
}
