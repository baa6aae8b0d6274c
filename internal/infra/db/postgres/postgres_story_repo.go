package postgres

import (
	"context"
	"time"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var _ repository.StoryRepository = (*storyRepo)(nil)

type storyRepo struct {
	pool *pgxpool.Pool
}

func NewStoryRepo(pool *pgxpool.Pool) *storyRepo {
	return &storyRepo{pool: pool}
}

const storyColumns = `id, user_id, image, video, caption, expired_at, created_at`

func (r *storyRepo) Save(ctx context.Context, tx repository.Tx, s *model.Story) error {
	const q = `
INSERT INTO stories (id, user_id, image, video, caption, expired_at, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET image=$3, video=$4, caption=$5, expired_at=$6;`
	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.UserID, s.Image, s.Video, s.Caption, s.ExpiredAt, s.CreatedAt)
	return mapErr("save story", err)
}

func scanStory(row pgx.Row) (*model.Story, error) {
	var s model.Story
	if err := row.Scan(&s.ID, &s.UserID, &s.Image, &s.Video, &s.Caption, &s.ExpiredAt, &s.CreatedAt); err != nil {
		return nil, mapErr("scan story", err)
	}
	return &s, nil
}

func (r *storyRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Story, error) {
	return scanStory(pickRow(ctx, r.pool, tx, `SELECT `+storyColumns+` FROM stories WHERE id=$1;`, id))
}

func (r *storyRepo) ListActive(ctx context.Context, tx repository.Tx, now time.Time) ([]*model.Story, error) {
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT `+storyColumns+` FROM stories WHERE expired_at > $1 ORDER BY created_at DESC;`, now)
	if err != nil {
		return nil, mapErr("list stories", err)
	}
	return collect(rows, "list stories", scanStory)
}

func (r *storyRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, now time.Time) ([]*model.Story, error) {
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT `+storyColumns+` FROM stories WHERE user_id=$1 AND expired_at > $2 ORDER BY created_at DESC;`, userID, now)
	if err != nil {
		return nil, mapErr("list user stories", err)
	}
	return collect(rows, "list user stories", scanStory)
}

func (r *storyRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	ct, err := execSQL(ctx, r.pool, tx, `DELETE FROM stories WHERE id=$1;`, id)
	if err != nil {
		return mapErr("delete story", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *storyRepo) DeleteExpired(ctx context.Context, tx repository.Tx, now time.Time) ([]*model.Story, error) {
	rows, err := queryRows(ctx, r.pool, tx,
		`DELETE FROM stories WHERE expired_at <= $1 RETURNING `+storyColumns+`;`, now)
	if err != nil {
		return nil, mapErr("delete expired stories", err)
	}
	return collect(rows, "delete expired stories", scanStory)
}

func (r *storyRepo) CountActive(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	var n int
	err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM stories WHERE expired_at > $1;`, now).Scan(&n)
	return n, mapErr("count stories", err)
}
