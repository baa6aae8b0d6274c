package repository

import (
	"context"

	"poster-commerce/internal/domain/model"
)

type ContentRepository interface {
	// SavePage replaces the singleton page of p.Kind.
	SavePage(ctx context.Context, tx Tx, p *model.Page) error
	GetPage(ctx context.Context, tx Tx, kind model.PageKind) (*model.Page, error)
	SaveContact(ctx context.Context, tx Tx, m *model.ContactMessage) error
	ListContacts(ctx context.Context, tx Tx) ([]*model.ContactMessage, error)
}
