package usecase

import (
	"context"
	"time"

	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type Dashboard struct {
	TotalUsers           int                       `json:"totalUsers"`
	SubscribedUsers      int                       `json:"subscribedUsers"`
	TotalOrders          int                       `json:"totalOrders"`
	OrdersByStatus       map[model.OrderStatus]int `json:"ordersByStatus"`
	Revenue              decimal.Decimal           `json:"revenue"`
	TotalPosters         int                       `json:"totalPosters"`
	TotalBusinessPosters int                       `json:"totalBusinessPosters"`
	ActiveStories        int                       `json:"activeStories"`
}

type StatsUseCase interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type statsUC struct {
	users    repository.UserRepository
	orders   repository.OrderRepository
	posters  repository.PosterRepository
	bposters repository.BusinessPosterRepository
	stories  repository.StoryRepository

	log *zerolog.Logger
}

func NewStatsUseCase(
	users repository.UserRepository,
	orders repository.OrderRepository,
	posters repository.PosterRepository,
	bposters repository.BusinessPosterRepository,
	stories repository.StoryRepository,
	logger *zerolog.Logger,
) *statsUC {
	return &statsUC{users: users, orders: orders, posters: posters, bposters: bposters, stories: stories, log: logger}
}

func (s *statsUC) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := time.Now()
	var (
		d   Dashboard
		err error
	)
	if d.TotalUsers, err = s.users.CountUsers(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	if d.SubscribedUsers, err = s.users.CountSubscribed(ctx, repository.NoTX, now); err != nil {
		return nil, err
	}
	if d.OrdersByStatus, err = s.orders.CountByStatus(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	for _, n := range d.OrdersByStatus {
		d.TotalOrders += n
	}
	if d.Revenue, err = s.orders.Revenue(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	if d.TotalPosters, err = s.posters.Count(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	if d.TotalBusinessPosters, err = s.bposters.Count(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	if d.ActiveStories, err = s.stories.CountActive(ctx, repository.NoTX, now); err != nil {
		return nil, err
	}
	return &d, nil
}
