package postgres

import (
	"context"
	"time"

	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var (
	_ repository.PosterRepository         = (*posterRepo)(nil)
	_ repository.BusinessPosterRepository = (*businessPosterRepo)(nil)
)

// ---- posters ----

type posterRepo struct {
	pool *pgxpool.Pool
}

func NewPosterRepo(pool *pgxpool.Pool) *posterRepo {
	return &posterRepo{pool: pool}
}

const posterColumns = `id, name, category_name, price, images, description, size, festival_date, in_stock, tags, created_at`

func (r *posterRepo) Save(ctx context.Context, tx repository.Tx, p *model.Poster) error {
	const q = `
INSERT INTO posters (id, name, category_name, price, images, description, size, festival_date, in_stock, tags, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
  name=$2, category_name=$3, price=$4, images=$5, description=$6, size=$7, festival_date=$8, in_stock=$9, tags=$10;`
	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.Name, p.CategoryName, p.Price, nonNil(p.Images), p.Description, string(p.Size),
		dateOnly(p.FestivalDate), p.InStock, nonNil(p.Tags), p.CreatedAt,
	)
	return mapErr("save poster", err)
}

func (r *posterRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Poster, error) {
	q := `SELECT ` + posterColumns + ` FROM posters WHERE id=$1` + forUpdate(tx)
	return scanPoster(pickRow(ctx, r.pool, tx, q, id))
}

func (r *posterRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Poster, error) {
	return r.list(ctx, tx, `SELECT `+posterColumns+` FROM posters ORDER BY created_at DESC;`)
}

func (r *posterRepo) ListByCategory(ctx context.Context, tx repository.Tx, category string) ([]*model.Poster, error) {
	return r.list(ctx, tx, `SELECT `+posterColumns+` FROM posters
 WHERE lower(category_name) = lower($1)
 ORDER BY created_at DESC;`, category)
}

func (r *posterRepo) ListByFestivalDate(ctx context.Context, tx repository.Tx, day time.Time) ([]*model.Poster, error) {
	return r.list(ctx, tx, `SELECT `+posterColumns+` FROM posters
 WHERE festival_date = $1::date
 ORDER BY created_at DESC;`, day.Format(time.DateOnly))
}

func (r *posterRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	var n int
	err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM posters;`).Scan(&n)
	return n, mapErr("count posters", err)
}

func (r *posterRepo) list(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Poster, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, mapErr("list posters", err)
	}
	defer rows.Close()
	out := []*model.Poster{}
	for rows.Next() {
		p, err := scanPoster(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, mapErr("list posters", rows.Err())
}

func scanPoster(row pgx.Row) (*model.Poster, error) {
	var (
		p    model.Poster
		size string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.CategoryName, &p.Price, &p.Images, &p.Description, &size,
		&p.FestivalDate, &p.InStock, &p.Tags, &p.CreatedAt); err != nil {
		return nil, mapErr("scan poster", err)
	}
	p.Size = model.PosterSize(size)
	p.Images, p.Tags = nonNil(p.Images), nonNil(p.Tags)
	return &p, nil
}

// dateOnly sends a calendar date as text so the session time zone cannot shift it.
func dateOnly(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(time.DateOnly)
}

// ---- business posters ----

type businessPosterRepo struct {
	pool *pgxpool.Pool
}

func NewBusinessPosterRepo(pool *pgxpool.Pool) *businessPosterRepo {
	return &businessPosterRepo{pool: pool}
}

const businessPosterColumns = `id, name, category_name, price, offer_price, images, description, size, in_stock, tags, created_at`

func (r *businessPosterRepo) Save(ctx context.Context, tx repository.Tx, p *model.BusinessPoster) error {
	const q = `
INSERT INTO business_posters (id, name, category_name, price, offer_price, images, description, size, in_stock, tags, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
  name=$2, category_name=$3, price=$4, offer_price=$5, images=$6, description=$7, size=$8, in_stock=$9, tags=$10;`
	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.Name, p.CategoryName, p.Price, p.OfferPrice, nonNil(p.Images), p.Description, string(p.Size),
		p.InStock, nonNil(p.Tags), p.CreatedAt,
	)
	return mapErr("save business poster", err)
}

func (r *businessPosterRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.BusinessPoster, error) {
	q := `SELECT ` + businessPosterColumns + ` FROM business_posters WHERE id=$1` + forUpdate(tx)
	return scanBusinessPoster(pickRow(ctx, r.pool, tx, q, id))
}

func (r *businessPosterRepo) List(ctx context.Context, tx repository.Tx) ([]*model.BusinessPoster, error) {
	return r.list(ctx, tx, `SELECT `+businessPosterColumns+` FROM business_posters ORDER BY created_at DESC;`)
}

func (r *businessPosterRepo) ListByCategory(ctx context.Context, tx repository.Tx, category string) ([]*model.BusinessPoster, error) {
	return r.list(ctx, tx, `SELECT `+businessPosterColumns+` FROM business_posters
 WHERE lower(category_name) = lower($1)
 ORDER BY created_at DESC;`, category)
}

func (r *businessPosterRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	var n int
	err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM business_posters;`).Scan(&n)
	return n, mapErr("count business posters", err)
}

func (r *businessPosterRepo) list(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.BusinessPoster, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, mapErr("list business posters", err)
	}
	defer rows.Close()
	out := []*model.BusinessPoster{}
	for rows.Next() {
		p, err := scanBusinessPoster(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, mapErr("list business posters", rows.Err())
}

func scanBusinessPoster(row pgx.Row) (*model.BusinessPoster, error) {
	var (
		p    model.BusinessPoster
		size string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.CategoryName, &p.Price, &p.OfferPrice, &p.Images, &p.Description,
		&size, &p.InStock, &p.Tags, &p.CreatedAt); err != nil {
		return nil, mapErr("scan business poster", err)
	}
	p.Size = model.PosterSize(size)
	p.Images, p.Tags = nonNil(p.Images), nonNil(p.Tags)
	return &p, nil
}
