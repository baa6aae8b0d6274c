package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/repository"
	"poster-commerce/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Compile-time check
var _ PlanUseCase = (*planUC)(nil)

// PlanUseCase manages subscription plans and user subscriptions to them.
type PlanUseCase interface {
	Create(ctx context.Context, in PlanInput) (*model.Plan, error)
	Update(ctx context.Context, id string, p PlanPatch) (*model.Plan, error)
	Delete(ctx context.Context, id string) error
	AddFeature(ctx context.Context, id, feature string) (*model.Plan, error)
	RemoveFeature(ctx context.Context, id, feature string) (*model.Plan, error)
	Get(ctx context.Context, id string) (*model.Plan, error)
	List(ctx context.Context) ([]*model.Plan, error)
	// Subscribe appends a frozen snapshot of the plan to the user's list,
	// valid from now for the plan's duration.
	Subscribe(ctx context.Context, userID, planID string) (*model.SubscribedPlan, error)
}

type PlanInput struct {
	Name               string
	OriginalPrice      decimal.Decimal
	OfferPrice         decimal.Decimal
	DiscountPercentage decimal.Decimal
	Duration           string
	Features           []string
}

type PlanPatch struct {
	Name               *string
	OriginalPrice      *decimal.Decimal
	OfferPrice         *decimal.Decimal
	DiscountPercentage *decimal.Decimal
	Duration           *string
	Features           []string
}

type planUC struct {
	plans repository.PlanRepository
	users repository.UserRepository
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

// NewPlanUseCase constructs a PlanUseCase.
func NewPlanUseCase(plans repository.PlanRepository, users repository.UserRepository, tm repository.TransactionManager, logger *zerolog.Logger) *planUC {
	return &planUC{plans: plans, users: users, tm: tm, log: logger}
}

func (uc *planUC) Create(ctx context.Context, in PlanInput) (*model.Plan, error) {
	p, err := model.NewPlan("", in.Name, in.OriginalPrice, in.OfferPrice, in.DiscountPercentage, in.Duration, in.Features)
	if err != nil {
		return nil, err
	}
	if err := uc.plans.Save(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *planUC) Update(ctx context.Context, id string, patch PlanPatch) (*model.Plan, error) {
	return uc.mutate(ctx, id, func(p *model.Plan) error {
		if patch.Name != nil {
			if strings.TrimSpace(*patch.Name) == "" {
				return domain.ErrInvalidArgument
			}
			p.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.OriginalPrice != nil {
			p.OriginalPrice = *patch.OriginalPrice
		}
		if patch.OfferPrice != nil {
			p.OfferPrice = *patch.OfferPrice
		}
		if patch.DiscountPercentage != nil {
			p.DiscountPercentage = *patch.DiscountPercentage
		}
		if patch.Duration != nil {
			if _, err := model.ParsePlanDuration(*patch.Duration); err != nil {
				return err
			}
			p.Duration = strings.TrimSpace(*patch.Duration)
		}
		if patch.Features != nil {
			p.Features = patch.Features
		}
		if p.OriginalPrice.IsNegative() || p.OfferPrice.IsNegative() || p.DiscountPercentage.IsNegative() {
			return domain.ErrInvalidArgument
		}
		return nil
	})
}

func (uc *planUC) AddFeature(ctx context.Context, id, feature string) (*model.Plan, error) {
	return uc.mutate(ctx, id, func(p *model.Plan) error { return p.AddFeature(feature) })
}

func (uc *planUC) RemoveFeature(ctx context.Context, id, feature string) (*model.Plan, error) {
	return uc.mutate(ctx, id, func(p *model.Plan) error { return p.RemoveFeature(feature) })
}

func (uc *planUC) mutate(ctx context.Context, id string, fn func(p *model.Plan) error) (*model.Plan, error) {
	var out *model.Plan
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := uc.plans.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		p.UpdatedAt = time.Now()
		if err := uc.plans.Save(ctx, tx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

func (uc *planUC) Delete(ctx context.Context, id string) error {
	return uc.plans.Delete(ctx, repository.NoTX, id)
}

// Get retrieves a plan by ID.
func (uc *planUC) Get(ctx context.Context, id string) (*model.Plan, error) {
	return uc.plans.FindByID(ctx, repository.NoTX, id)
}

// List returns all plans, newest first.
func (uc *planUC) List(ctx context.Context) ([]*model.Plan, error) {
	return uc.plans.ListAll(ctx, repository.NoTX)
}

func (uc *planUC) Subscribe(ctx context.Context, userID, planID string) (*model.SubscribedPlan, error) {
	defer logging.TraceDuration(uc.log, "PlanUC.Subscribe")()

	if userID == "" || planID == "" {
		return nil, domain.ErrInvalidArgument
	}
	var snap model.SubscribedPlan
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if _, err := uc.users.FindByID(ctx, tx, userID); err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		plan, err := uc.plans.FindByID(ctx, repository.NoTX, planID)
		if err != nil {
			return fmt.Errorf("find plan: %w", err)
		}
		snap, err = plan.Snapshot(time.Now())
		if err != nil {
			return err
		}
		return uc.users.AppendSubscribedPlan(ctx, tx, userID, snap)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Str("plan_id", planID).Time("end_date", snap.EndDate).Msg("user subscribed")
	return &snap, nil
}
