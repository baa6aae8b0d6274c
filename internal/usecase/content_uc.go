package usecase

import (
	"context"
	"strings"
	"time"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/repository"
)

// Compile-time check
var _ ContentUseCase = (*contentUC)(nil)

// ContentUseCase serves the CMS pages and the contact inbox.
type ContentUseCase interface {
	SetPage(ctx context.Context, kind model.PageKind, title, content string) (*model.Page, error)
	GetPage(ctx context.Context, kind model.PageKind) (*model.Page, error)
	SubmitContact(ctx context.Context, name, email, mobile, message string) (*model.ContactMessage, error)
	ListContacts(ctx context.Context) ([]*model.ContactMessage, error)
}

type contentUC struct {
	repo repository.ContentRepository
}

func NewContentUseCase(repo repository.ContentRepository) *contentUC {
	return &contentUC{repo: repo}
}

func (c *contentUC) SetPage(ctx context.Context, kind model.PageKind, title, content string) (*model.Page, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, domain.ErrInvalidArgument
	}
	p := &model.Page{Kind: kind, Title: strings.TrimSpace(title), Content: content, Date: time.Now()}
	if err := c.repo.SavePage(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *contentUC) GetPage(ctx context.Context, kind model.PageKind) (*model.Page, error) {
	return c.repo.GetPage(ctx, repository.NoTX, kind)
}

func (c *contentUC) SubmitContact(ctx context.Context, name, email, mobile, message string) (*model.ContactMessage, error) {
	m, err := model.NewContactMessage(name, email, mobile, message)
	if err != nil {
		return nil, err
	}
	if err := c.repo.SaveContact(ctx, repository.NoTX, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *contentUC) ListContacts(ctx context.Context) ([]*model.ContactMessage, error) {
	return c.repo.ListContacts(ctx, repository.NoTX)
}
