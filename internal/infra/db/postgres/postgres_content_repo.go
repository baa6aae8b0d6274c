package postgres

import (
	"context"

	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var _ repository.ContentRepository = (*contentRepo)(nil)

type contentRepo struct {
	pool *pgxpool.Pool
}

func NewContentRepo(pool *pgxpool.Pool) *contentRepo {
	return &contentRepo{pool: pool}
}

func (r *contentRepo) SavePage(ctx context.Context, tx repository.Tx, p *model.Page) error {
	const q = `
INSERT INTO pages (kind, title, content, date) VALUES ($1,$2,$3,$4)
ON CONFLICT (kind) DO UPDATE SET title=EXCLUDED.title, content=EXCLUDED.content, date=EXCLUDED.date;`
	_, err := execSQL(ctx, r.pool, tx, q, string(p.Kind), p.Title, p.Content, p.Date)
	return mapErr("save page", err)
}

func (r *contentRepo) GetPage(ctx context.Context, tx repository.Tx, kind model.PageKind) (*model.Page, error) {
	p := model.Page{Kind: kind}
	err := pickRow(ctx, r.pool, tx, `SELECT title, content, date FROM pages WHERE kind=$1;`, string(kind)).
		Scan(&p.Title, &p.Content, &p.Date)
	if err != nil {
		return nil, mapErr("get page", err)
	}
	return &p, nil
}

func (r *contentRepo) SaveContact(ctx context.Context, tx repository.Tx, m *model.ContactMessage) error {
	const q = `INSERT INTO contact_messages (id, name, email, mobile, message, created_at) VALUES ($1,$2,$3,$4,$5,$6);`
	_, err := execSQL(ctx, r.pool, tx, q, m.ID, m.Name, m.Email, m.Mobile, m.Message, m.CreatedAt)
	return mapErr("save contact", err)
}

func scanContact(row pgx.Row) (*model.ContactMessage, error) {
	var m model.ContactMessage
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Mobile, &m.Message, &m.CreatedAt); err != nil {
		return nil, mapErr("scan contact", err)
	}
	return &m, nil
}

func (r *contentRepo) ListContacts(ctx context.Context, tx repository.Tx) ([]*model.ContactMessage, error) {
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT id, name, email, mobile, message, created_at FROM contact_messages ORDER BY created_at DESC;`)
	if err != nil {
		return nil, mapErr("list contacts", err)
	}
	return collect(rows, "list contacts", scanContact)
}
