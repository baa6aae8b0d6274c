package usecase

import (
	"context"
	"strings"
	"time"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/adapter"
	"poster-commerce/internal/domain/ports/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CategoryInput struct {
	CategoryName    string
	SubCategoryName string
	Image           *adapter.Upload
}

type CategoryPatch struct {
	CategoryName    *string
	SubCategoryName *string
	Image           *adapter.Upload
}

type BusinessCategoryInput struct {
	CategoryName  string
	SubCategories []string
	Image         *adapter.Upload
}

type BusinessCategoryPatch struct {
	CategoryName  *string
	SubCategories []string
	Image         *adapter.Upload
}

type LogoInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Image       *adapter.Upload
}

type BusinessCardInput struct {
	Name        string
	Category    string
	Price       decimal.Decimal
	OfferPrice  decimal.Decimal
	Description string
	Size        string
	Tags        []string
	InStock     *bool
	Images      []adapter.Upload
}

func (uc *catalogUC) putOne(ctx context.Context, folder string, up *adapter.Upload) (string, error) {
	if up == nil {
		return "", nil
	}
	return uc.files.Put(ctx, folder, *up)
}

func subCategories(names []string) []model.SubCategory {
	out := make([]model.SubCategory, 0, len(names))
	for _, n := range cleanTags(names) {
		out = append(out, model.SubCategory{SubCategoryName: n})
	}
	return out
}

// ---- categories ----

func (uc *catalogUC) CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(in.CategoryName)
	if name == "" || in.Image == nil {
		return nil, domain.ErrInvalidArgument
	}
	img, err := uc.putOne(ctx, "categories", in.Image)
	if err != nil {
		return nil, err
	}
	c := &model.Category{
		ID:              uuid.NewString(),
		CategoryName:    name,
		SubCategoryName: strings.TrimSpace(in.SubCategoryName),
		Image:           img,
		CreatedAt:       time.Now(),
	}
	if err := uc.repos.Categories.Save(ctx, repository.NoTX, c); err != nil {
		uc.discard(ctx, []string{img})
		return nil, err
	}
	return c, nil
}

func (uc *catalogUC) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	return uc.repos.Categories.FindByID(ctx, repository.NoTX, id)
}

func (uc *catalogUC) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return uc.repos.Categories.List(ctx, repository.NoTX)
}

func (uc *catalogUC) UpdateCategory(ctx context.Context, id string, p CategoryPatch) (*model.Category, error) {
	c, err := uc.repos.Categories.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if p.CategoryName != nil {
		if strings.TrimSpace(*p.CategoryName) == "" {
			return nil, domain.ErrInvalidArgument
		}
		c.CategoryName = strings.TrimSpace(*p.CategoryName)
	}
	if p.SubCategoryName != nil {
		c.SubCategoryName = strings.TrimSpace(*p.SubCategoryName)
	}
	old := c.Image
	if p.Image != nil {
		if c.Image, err = uc.putOne(ctx, "categories", p.Image); err != nil {
			return nil, err
		}
	}
	if err := uc.repos.Categories.Save(ctx, repository.NoTX, c); err != nil {
		return nil, err
	}
	if p.Image != nil && old != "" {
		uc.discard(ctx, []string{old})
	}
	return c, nil
}

func (uc *catalogUC) DeleteCategory(ctx context.Context, id string) error {
	c, err := uc.repos.Categories.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return err
	}
	if err := uc.repos.Categories.Delete(ctx, repository.NoTX, id); err != nil {
		return err
	}
	if c.Image != "" {
		uc.discard(ctx, []string{c.Image})
	}
	return nil
}

// ---- business categories ----

func (uc *catalogUC) CreateBusinessCategory(ctx context.Context, in BusinessCategoryInput) (*model.BusinessCategory, error) {
	name := strings.TrimSpace(in.CategoryName)
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	img, err := uc.putOne(ctx, "business-categories", in.Image)
	if err != nil {
		return nil, err
	}
	c := &model.BusinessCategory{
		ID:            uuid.NewString(),
		CategoryName:  name,
		Image:         img,
		SubCategories: subCategories(in.SubCategories),
		CreatedAt:     time.Now(),
	}
	if err := uc.repos.BusinessCategories.Save(ctx, repository.NoTX, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *catalogUC) GetBusinessCategory(ctx context.Context, id string) (*model.BusinessCategory, error) {
	return uc.repos.BusinessCategories.FindByID(ctx, repository.NoTX, id)
}

func (uc *catalogUC) ListBusinessCategories(ctx context.Context) ([]*model.BusinessCategory, error) {
	return uc.repos.BusinessCategories.List(ctx, repository.NoTX)
}

func (uc *catalogUC) UpdateBusinessCategory(ctx context.Context, id string, p BusinessCategoryPatch) (*model.BusinessCategory, error) {
	c, err := uc.repos.BusinessCategories.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if p.CategoryName != nil {
		if strings.TrimSpace(*p.CategoryName) == "" {
			return nil, domain.ErrInvalidArgument
		}
		c.CategoryName = strings.TrimSpace(*p.CategoryName)
	}
	if p.SubCategories != nil {
		c.SubCategories = subCategories(p.SubCategories)
	}
	if p.Image != nil {
		if c.Image, err = uc.putOne(ctx, "business-categories", p.Image); err != nil {
			return nil, err
		}
	}
	if err := uc.repos.BusinessCategories.Save(ctx, repository.NoTX, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ---- logos & business cards ----

func (uc *catalogUC) CreateLogo(ctx context.Context, in LogoInput) (*model.Logo, error) {
	if strings.TrimSpace(in.Name) == "" || in.Price.IsNegative() {
		return nil, domain.ErrInvalidArgument
	}
	img, err := uc.putOne(ctx, "logos", in.Image)
	if err != nil {
		return nil, err
	}
	l := &model.Logo{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Image:       img,
		CreatedAt:   time.Now(),
	}
	if err := uc.repos.Logos.Save(ctx, repository.NoTX, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (uc *catalogUC) GetLogo(ctx context.Context, id string) (*model.Logo, error) {
	return uc.repos.Logos.FindByID(ctx, repository.NoTX, id)
}

func (uc *catalogUC) ListLogos(ctx context.Context) ([]*model.Logo, error) {
	return uc.repos.Logos.List(ctx, repository.NoTX)
}

func (uc *catalogUC) CreateBusinessCard(ctx context.Context, in BusinessCardInput) (*model.BusinessCard, error) {
	if strings.TrimSpace(in.Name) == "" || in.Price.IsNegative() || in.OfferPrice.IsNegative() {
		return nil, domain.ErrInvalidArgument
	}
	imgs, err := uc.putAll(ctx, "business-cards", in.Images)
	if err != nil {
		return nil, err
	}
	c := &model.BusinessCard{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		OfferPrice:  in.OfferPrice,
		Description: strings.TrimSpace(in.Description),
		Size:        strings.TrimSpace(in.Size),
		Tags:        cleanTags(in.Tags),
		InStock:     true,
		Images:      imgs,
		CreatedAt:   time.Now(),
	}
	if in.InStock != nil {
		c.InStock = *in.InStock
	}
	if err := uc.repos.BusinessCards.Save(ctx, repository.NoTX, c); err != nil {
		uc.discard(ctx, imgs)
		return nil, err
	}
	return c, nil
}

func (uc *catalogUC) GetBusinessCard(ctx context.Context, id string) (*model.BusinessCard, error) {
	return uc.repos.BusinessCards.FindByID(ctx, repository.NoTX, id)
}

func (uc *catalogUC) ListBusinessCards(ctx context.Context) ([]*model.BusinessCard, error) {
	return uc.repos.BusinessCards.List(ctx, repository.NoTX)
}
