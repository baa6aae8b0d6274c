package model

import (
	"encoding/json"
	"time"

	"poster-commerce/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ItemKind string

const (
	ItemPoster         ItemKind = "poster"
	ItemBusinessPoster ItemKind = "businessPoster"
)

// ItemRef names exactly one catalog item. The zero value is invalid; build
// refs with PosterRef or BusinessPosterRef.
type ItemRef struct {
	kind ItemKind
	id   string
}

func PosterRef(id string) ItemRef         { return ItemRef{kind: ItemPoster, id: id} }
func BusinessPosterRef(id string) ItemRef { return ItemRef{kind: ItemBusinessPoster, id: id} }

func (r ItemRef) Kind() ItemKind { return r.kind }
func (r ItemRef) ID() string     { return r.id }
func (r ItemRef) Valid() bool    { return r.kind != "" && r.id != "" }

// NewItemRef builds a ref from the two optional request fields; exactly one
// of them must be set.
func NewItemRef(posterID, businessPosterID string) (ItemRef, error) {
	switch {
	case posterID != "" && businessPosterID == "":
		return PosterRef(posterID), nil
	case businessPosterID != "" && posterID == "":
		return BusinessPosterRef(businessPosterID), nil
	}
	return ItemRef{}, domain.ErrInvalidArgument
}

func (r ItemRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind ItemKind `json:"kind"`
		ID   string   `json:"id"`
	}{r.kind, r.id})
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderCompleted OrderStatus = "Completed"
	OrderShipped   OrderStatus = "Shipped"
	OrderDelivered OrderStatus = "Delivered"
	OrderCancelled OrderStatus = "Cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderCompleted, OrderCancelled},
	OrderCompleted: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case OrderPending, OrderCompleted, OrderShipped, OrderDelivered, OrderCancelled:
		return st, nil
	}
	return "", domain.ErrInvalidArgument
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, n := range orderTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

const PaymentMethodFree = "free"

type PaymentDetails struct {
	Method      string    `json:"method"`
	UPIID       string    `json:"upiId,omitempty"`
	PaymentDate time.Time `json:"paymentDate"`
}

// Order is a purchase record. TotalAmount is fixed at creation.
type Order struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	Item           ItemRef         `json:"item"`
	Quantity       int             `json:"quantity"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Status         OrderStatus     `json:"status"`
	OrderDate      time.Time       `json:"orderDate"`
	PaymentDetails *PaymentDetails `json:"paymentDetails,omitempty"`
}

// MaxOrderQuantity caps a single order; the column is a 32-bit integer.
const MaxOrderQuantity = 1000

func NewOrder(userID string, item ItemRef, quantity int, total decimal.Decimal, now time.Time) (*Order, error) {
	if userID == "" || !item.Valid() || quantity <= 0 || quantity > MaxOrderQuantity || total.IsNegative() {
		return nil, domain.ErrInvalidArgument
	}
	return &Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		Item:        item,
		Quantity:    quantity,
		TotalAmount: total,
		Status:      OrderPending,
		OrderDate:   now,
	}, nil
}

func (o *Order) IsFree() bool { return o.TotalAmount.IsZero() }

// ItemSummary is the minimal catalog view attached to order listings.
type ItemSummary struct {
	Kind  ItemKind        `json:"kind"`
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
}

// OrderView is an order joined with its item and, for admin listings, its buyer.
type OrderView struct {
	Order
	ItemSummary ItemSummary `json:"itemSummary"`
	UserMobile  string      `json:"userMobile,omitempty"`
	UserName    string      `json:"userName,omitempty"`
}
