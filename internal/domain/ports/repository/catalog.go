package repository

import (
	"context"
	"time"

	"poster-commerce/internal/domain/model"
)

// Listings are newest first unless stated otherwise.

type PosterRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Poster) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Poster, error)
	List(ctx context.Context, tx Tx) ([]*model.Poster, error)
	ListByCategory(ctx context.Context, tx Tx, category string) ([]*model.Poster, error)
	// ListByFestivalDate matches the calendar day of festival_date.
	ListByFestivalDate(ctx context.Context, tx Tx, day time.Time) ([]*model.Poster, error)
	Count(ctx context.Context, tx Tx) (int, error)
}

type BusinessPosterRepository interface {
	Save(ctx context.Context, tx Tx, p *model.BusinessPoster) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.BusinessPoster, error)
	List(ctx context.Context, tx Tx) ([]*model.BusinessPoster, error)
	ListByCategory(ctx context.Context, tx Tx, category string) ([]*model.BusinessPoster, error)
	Count(ctx context.Context, tx Tx) (int, error)
}

type CategoryRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Category) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Category, error)
	List(ctx context.Context, tx Tx) ([]*model.Category, error)
	Delete(ctx context.Context, tx Tx, id string) error
}

type BusinessCategoryRepository interface {
	Save(ctx context.Context, tx Tx, c *model.BusinessCategory) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.BusinessCategory, error)
	List(ctx context.Context, tx Tx) ([]*model.BusinessCategory, error)
}

type LogoRepository interface {
	Save(ctx context.Context, tx Tx, l *model.Logo) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Logo, error)
	List(ctx context.Context, tx Tx) ([]*model.Logo, error)
}

type BusinessCardRepository interface {
	Save(ctx context.Context, tx Tx, c *model.BusinessCard) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.BusinessCard, error)
	List(ctx context.Context, tx Tx) ([]*model.BusinessCard, error)
}
