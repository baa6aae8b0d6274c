package repository

import (
	"context"
	"time"

	"poster-commerce/internal/domain/model"
)

type StoryRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Story) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Story, error)
	ListActive(ctx context.Context, tx Tx, now time.Time) ([]*model.Story, error)
	ListByUser(ctx context.Context, tx Tx, userID string, now time.Time) ([]*model.Story, error)
	Delete(ctx context.Context, tx Tx, id string) error
	// DeleteExpired removes stories with expired_at <= now and returns the removed rows.
	DeleteExpired(ctx context.Context, tx Tx, now time.Time) ([]*model.Story, error)
	CountActive(ctx context.Context, tx Tx, now time.Time) (int, error)
}
