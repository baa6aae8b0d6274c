package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// SubscribedPlan is a plan snapshot taken when the user subscribed.
type SubscribedPlan struct {
	PlanID             string          `json:"planId"`
	Name               string          `json:"name"`
	OriginalPrice      decimal.Decimal `json:"originalPrice"`
	OfferPrice         decimal.Decimal `json:"offerPrice"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	Duration           string          `json:"duration"`
	StartDate          time.Time       `json:"startDate"`
	EndDate            time.Time       `json:"endDate"`
}

// ActiveAt reports whether now falls inside [StartDate, EndDate].
func (sp SubscribedPlan) ActiveAt(now time.Time) bool {
	return !now.Before(sp.StartDate) && !now.After(sp.EndDate)
}

// ActivePlan returns the first snapshot active at now.
func ActivePlan(plans []SubscribedPlan, now time.Time) (SubscribedPlan, bool) {
	i := slices.IndexFunc(plans, func(sp SubscribedPlan) bool { return sp.ActiveAt(now) })
	if i < 0 {
		return SubscribedPlan{}, false
	}
	return plans[i], true
}

func HasActiveSubscription(plans []SubscribedPlan, now time.Time) bool {
	_, ok := ActivePlan(plans, now)
	return ok
}

// OrderTotal prices a purchase: free while a subscription is active, otherwise price*quantity.
func OrderTotal(plans []SubscribedPlan, price decimal.Decimal, quantity int, now time.Time) (total decimal.Decimal, free bool) {
	if HasActiveSubscription(plans, now) {
		return decimal.Zero, true
	}
	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(2), false
}
