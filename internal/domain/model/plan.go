package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"poster-commerce/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan is a purchasable subscription. Editing a plan never touches the
// snapshots already taken into users' SubscribedPlans.
type Plan struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	OriginalPrice      decimal.Decimal `json:"originalPrice"`
	OfferPrice         decimal.Decimal `json:"offerPrice"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	Duration           string          `json:"duration"`
	Features           []string        `json:"features"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// NewPlan validates and constructs a plan.
func NewPlan(id, name string, originalPrice, offerPrice, discount decimal.Decimal, duration string, features []string) (*Plan, error) {
	if id == "" {
		id = uuid.NewString()
	}
	name = strings.TrimSpace(name)
	if name == "" || originalPrice.IsNegative() || offerPrice.IsNegative() || discount.IsNegative() {
		return nil, domain.ErrInvalidArgument
	}
	if _, err := ParsePlanDuration(duration); err != nil {
		return nil, err
	}
	if features == nil {
		features = []string{}
	}
	now := time.Now()
	return &Plan{
		ID:                 id,
		Name:               name,
		OriginalPrice:      originalPrice,
		OfferPrice:         offerPrice,
		DiscountPercentage: discount,
		Duration:           strings.TrimSpace(duration),
		Features:           features,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// AddFeature appends a feature; duplicates are ignored.
func (p *Plan) AddFeature(f string) error {
	f = strings.TrimSpace(f)
	if f == "" {
		return domain.ErrInvalidArgument
	}
	if !slices.Contains(p.Features, f) {
		p.Features = append(p.Features, f)
	}
	return nil
}

// RemoveFeature drops f, failing with ErrInvalidArgument when the plan does not list it.
func (p *Plan) RemoveFeature(f string) error {
	i := slices.Index(p.Features, strings.TrimSpace(f))
	if i < 0 {
		return fmt.Errorf("feature %q not in plan: %w", f, domain.ErrInvalidArgument)
	}
	p.Features = slices.Delete(p.Features, i, i+1)
	return nil
}

// Snapshot freezes the plan terms for a subscription starting at start.
func (p *Plan) Snapshot(start time.Time) (SubscribedPlan, error) {
	d, err := ParsePlanDuration(p.Duration)
	if err != nil {
		return SubscribedPlan{}, err
	}
	return SubscribedPlan{
		PlanID:             p.ID,
		Name:               p.Name,
		OriginalPrice:      p.OriginalPrice,
		OfferPrice:         p.OfferPrice,
		DiscountPercentage: p.DiscountPercentage,
		Duration:           p.Duration,
		StartDate:          start,
		EndDate:            d.AddTo(start),
	}, nil
}

type DurationUnit string

const (
	UnitDay   DurationUnit = "day"
	UnitWeek  DurationUnit = "week"
	UnitMonth DurationUnit = "month"
	UnitYear  DurationUnit = "year"
)

// PlanDuration is the parsed form of texts like "30 Days" or "1 Year".
type PlanDuration struct {
	N    int
	Unit DurationUnit
}

// ParsePlanDuration accepts "<n> Day(s)|Week(s)|Month(s)|Year(s)", case-insensitive.
func ParsePlanDuration(s string) (PlanDuration, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) != 2 {
		return PlanDuration{}, fmt.Errorf("duration %q: %w", s, domain.ErrInvalidArgument)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return PlanDuration{}, fmt.Errorf("duration %q: %w", s, domain.ErrInvalidArgument)
	}
	unit := DurationUnit(strings.TrimSuffix(fields[1], "s"))
	switch unit {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
	default:
		return PlanDuration{}, fmt.Errorf("duration unit %q: %w", fields[1], domain.ErrInvalidArgument)
	}
	return PlanDuration{N: n, Unit: unit}, nil
}

// AddTo returns t moved forward by the duration using calendar arithmetic.
func (d PlanDuration) AddTo(t time.Time) time.Time {
	switch d.Unit {
	case UnitWeek:
		return t.AddDate(0, 0, 7*d.N)
	case UnitMonth:
		return t.AddDate(0, d.N, 0)
	case UnitYear:
		return t.AddDate(d.N, 0, 0)
	default:
		return t.AddDate(0, 0, d.N)
	}
}
