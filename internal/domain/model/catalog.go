package model

import (
	"strings"
	"time"

	"poster-commerce/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PosterSize string

const (
	SizeA3     PosterSize = "A3"
	SizeA4     PosterSize = "A4"
	SizeA5     PosterSize = "A5"
	SizeCustom PosterSize = "Custom"
)

// ParsePosterSize defaults an empty size to A4.
func ParsePosterSize(s string) (PosterSize, error) {
	switch PosterSize(strings.TrimSpace(s)) {
	case "":
		return SizeA4, nil
	case SizeA3, SizeA4, SizeA5, SizeCustom:
		return PosterSize(strings.TrimSpace(s)), nil
	}
	return "", domain.ErrInvalidArgument
}

type Poster struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CategoryName string          `json:"categoryName"`
	Price        decimal.Decimal `json:"price"`
	Images       []string        `json:"images"`
	Description  string          `json:"description,omitempty"`
	Size         PosterSize      `json:"size"`
	FestivalDate *time.Time      `json:"festivalDate,omitempty"`
	InStock      bool            `json:"inStock"`
	Tags         []string        `json:"tags"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func NewPoster(name, category string, price decimal.Decimal, size string) (*Poster, error) {
	name, category = strings.TrimSpace(name), strings.TrimSpace(category)
	if name == "" || category == "" || !price.IsPositive() {
		return nil, domain.ErrInvalidArgument
	}
	sz, err := ParsePosterSize(size)
	if err != nil {
		return nil, err
	}
	return &Poster{
		ID:           uuid.NewString(),
		Name:         name,
		CategoryName: category,
		Price:        price,
		Images:       []string{},
		Size:         sz,
		InStock:      true,
		Tags:         []string{},
		CreatedAt:    time.Now(),
	}, nil
}

type BusinessPoster struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CategoryName string          `json:"categoryName"`
	Price        decimal.Decimal `json:"price"`
	OfferPrice   decimal.Decimal `json:"offerPrice"`
	Images       []string        `json:"images"`
	Description  string          `json:"description,omitempty"`
	Size         PosterSize      `json:"size"`
	InStock      bool            `json:"inStock"`
	Tags         []string        `json:"tags"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func NewBusinessPoster(name, category string, price, offer decimal.Decimal, size string) (*BusinessPoster, error) {
	name, category = strings.TrimSpace(name), strings.TrimSpace(category)
	if name == "" || category == "" || !price.IsPositive() || offer.IsNegative() {
		return nil, domain.ErrInvalidArgument
	}
	sz, err := ParsePosterSize(size)
	if err != nil {
		return nil, err
	}
	return &BusinessPoster{
		ID:           uuid.NewString(),
		Name:         name,
		CategoryName: category,
		Price:        price,
		OfferPrice:   offer,
		Images:       []string{},
		Size:         sz,
		InStock:      true,
		Tags:         []string{},
		CreatedAt:    time.Now(),
	}, nil
}

type Category struct {
	ID              string    `json:"id"`
	CategoryName    string    `json:"categoryName"`
	SubCategoryName string    `json:"subCategoryName,omitempty"`
	Image           string    `json:"image"`
	CreatedAt       time.Time `json:"createdAt"`
}

type SubCategory struct {
	SubCategoryName string `json:"subCategoryName"`
}

type BusinessCategory struct {
	ID            string        `json:"id"`
	CategoryName  string        `json:"categoryName"`
	Image         string        `json:"image,omitempty"`
	SubCategories []SubCategory `json:"subCategories"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type Logo struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type BusinessCard struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	OfferPrice  decimal.Decimal `json:"offerPrice"`
	Description string          `json:"description,omitempty"`
	Size        string          `json:"size,omitempty"`
	Tags        []string        `json:"tags"`
	InStock     bool            `json:"inStock"`
	Images      []string        `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
}
