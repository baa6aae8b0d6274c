package usecase

import (
	"context"
	"strings"
	"time"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/adapter"
	"poster-commerce/internal/domain/ports/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Compile-time check
var _ CatalogUseCase = (*catalogUC)(nil)

// CatalogUseCase covers posters, business posters, categories, logos and cards.
type CatalogUseCase interface {
	CreatePoster(ctx context.Context, in PosterInput) (*model.Poster, error)
	GetPoster(ctx context.Context, id string) (*model.Poster, error)
	ListPosters(ctx context.Context) ([]*model.Poster, error)
	PostersByCategory(ctx context.Context, category string) ([]*model.Poster, error)
	PostersByFestivalDate(ctx context.Context, day time.Time) ([]*model.Poster, error)

	CreateBusinessPoster(ctx context.Context, in BusinessPosterInput) (*model.BusinessPoster, error)
	GetBusinessPoster(ctx context.Context, id string) (*model.BusinessPoster, error)
	ListBusinessPosters(ctx context.Context) ([]*model.BusinessPoster, error)
	BusinessPostersByCategory(ctx context.Context, category string) ([]*model.BusinessPoster, error)
	UpdateBusinessPoster(ctx context.Context, id string, p BusinessPosterPatch) (*model.BusinessPoster, error)

	CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	UpdateCategory(ctx context.Context, id string, p CategoryPatch) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateBusinessCategory(ctx context.Context, in BusinessCategoryInput) (*model.BusinessCategory, error)
	GetBusinessCategory(ctx context.Context, id string) (*model.BusinessCategory, error)
	ListBusinessCategories(ctx context.Context) ([]*model.BusinessCategory, error)
	UpdateBusinessCategory(ctx context.Context, id string, p BusinessCategoryPatch) (*model.BusinessCategory, error)

	CreateLogo(ctx context.Context, in LogoInput) (*model.Logo, error)
	GetLogo(ctx context.Context, id string) (*model.Logo, error)
	ListLogos(ctx context.Context) ([]*model.Logo, error)

	CreateBusinessCard(ctx context.Context, in BusinessCardInput) (*model.BusinessCard, error)
	GetBusinessCard(ctx context.Context, id string) (*model.BusinessCard, error)
	ListBusinessCards(ctx context.Context) ([]*model.BusinessCard, error)
}

// Repos groups the catalog repositories.
type CatalogRepos struct {
	Posters            repository.PosterRepository
	BusinessPosters    repository.BusinessPosterRepository
	Categories         repository.CategoryRepository
	BusinessCategories repository.BusinessCategoryRepository
	Logos              repository.LogoRepository
	BusinessCards      repository.BusinessCardRepository
}

type PosterInput struct {
	Name         string
	CategoryName string
	Price        decimal.Decimal
	Description  string
	Size         string
	FestivalDate *time.Time
	InStock      *bool
	Tags         []string
	Images       []adapter.Upload
}

type BusinessPosterInput struct {
	Name         string
	CategoryName string
	Price        decimal.Decimal
	OfferPrice   decimal.Decimal
	Description  string
	Size         string
	InStock      *bool
	Tags         []string
	Images       []adapter.Upload
}

type BusinessPosterPatch struct {
	Name         *string
	CategoryName *string
	Price        *decimal.Decimal
	OfferPrice   *decimal.Decimal
	Description  *string
	Size         *string
	InStock      *bool
	Tags         []string
	Images       []adapter.Upload // replaces the gallery when non-empty
}

type catalogUC struct {
	repos CatalogRepos
	files adapter.FileStorage
	log   *zerolog.Logger
}

func NewCatalogUseCase(repos CatalogRepos, files adapter.FileStorage, logger *zerolog.Logger) *catalogUC {
	return &catalogUC{repos: repos, files: files, log: logger}
}

// putAll stores every upload or none of them.
func (uc *catalogUC) putAll(ctx context.Context, folder string, ups []adapter.Upload) ([]string, error) {
	urls := make([]string, 0, len(ups))
	for _, up := range ups {
		u, err := uc.files.Put(ctx, folder, up)
		if err != nil {
			uc.discard(ctx, urls)
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

func (uc *catalogUC) discard(ctx context.Context, urls []string) {
	for _, u := range urls {
		if err := uc.files.Delete(ctx, u); err != nil {
			uc.log.Warn().Err(err).Str("url", u).Msg("failed to remove orphaned upload")
		}
	}
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ---- posters ----

func (uc *catalogUC) CreatePoster(ctx context.Context, in PosterInput) (*model.Poster, error) {
	p, err := model.NewPoster(in.Name, in.CategoryName, in.Price, in.Size)
	if err != nil {
		return nil, err
	}
	p.Description = strings.TrimSpace(in.Description)
	p.FestivalDate = in.FestivalDate
	p.Tags = cleanTags(in.Tags)
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if p.Images, err = uc.putAll(ctx, "posters", in.Images); err != nil {
		return nil, err
	}
	if err := uc.repos.Posters.Save(ctx, repository.NoTX, p); err != nil {
		uc.discard(ctx, p.Images)
		return nil, err
	}
	return p, nil
}

func (uc *catalogUC) GetPoster(ctx context.Context, id string) (*model.Poster, error) {
	return uc.repos.Posters.FindByID(ctx, repository.NoTX, id)
}

func (uc *catalogUC) ListPosters(ctx context.Context) ([]*model.Poster, error) {
	return uc.repos.Posters.List(ctx, repository.NoTX)
}

func (uc *catalogUC) PostersByCategory(ctx context.Context, category string) ([]*model.Poster, error) {
	if strings.TrimSpace(category) == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.repos.Posters.ListByCategory(ctx, repository.NoTX, strings.TrimSpace(category))
}

func (uc *catalogUC) PostersByFestivalDate(ctx context.Context, day time.Time) ([]*model.Poster, error) {
	if day.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	return uc.repos.Posters.ListByFestivalDate(ctx, repository.NoTX, day)
}

// ---- business posters ----

func (uc *catalogUC) CreateBusinessPoster(ctx context.Context, in BusinessPosterInput) (*model.BusinessPoster, error) {
	p, err := model.NewBusinessPoster(in.Name, in.CategoryName, in.Price, in.OfferPrice, in.Size)
	if err != nil {
		return nil, err
	}
	p.Description = strings.TrimSpace(in.Description)
	p.Tags = cleanTags(in.Tags)
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if p.Images, err = uc.putAll(ctx, "business-posters", in.Images); err != nil {
		return nil, err
	}
	if err := uc.repos.BusinessPosters.Save(ctx, repository.NoTX, p); err != nil {
		uc.discard(ctx, p.Images)
		return nil, err
	}
	return p, nil
}

func (uc *catalogUC) GetBusinessPoster(ctx context.Context, id string) (*model.BusinessPoster, error) {
	return uc.repos.BusinessPosters.FindByID(ctx, repository.NoTX, id)
}

func (uc *catalogUC) ListBusinessPosters(ctx context.Context) ([]*model.BusinessPoster, error) {
	return uc.repos.BusinessPosters.List(ctx, repository.NoTX)
}

func (uc *catalogUC) BusinessPostersByCategory(ctx context.Context, category string) ([]*model.BusinessPoster, error) {
	if strings.TrimSpace(category) == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.repos.BusinessPosters.ListByCategory(ctx, repository.NoTX, strings.TrimSpace(category))
}

func (uc *catalogUC) UpdateBusinessPoster(ctx context.Context, id string, patch BusinessPosterPatch) (*model.BusinessPoster, error) {
	p, err := uc.repos.BusinessPosters.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.CategoryName != nil {
		p.CategoryName = strings.TrimSpace(*patch.CategoryName)
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.OfferPrice != nil {
		p.OfferPrice = *patch.OfferPrice
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Size != nil {
		if p.Size, err = model.ParsePosterSize(*patch.Size); err != nil {
			return nil, err
		}
	}
	if patch.InStock != nil {
		p.InStock = *patch.InStock
	}
	if patch.Tags != nil {
		p.Tags = cleanTags(patch.Tags)
	}
	if p.Name == "" || p.CategoryName == "" || !p.Price.IsPositive() || p.OfferPrice.IsNegative() {
		return nil, domain.ErrInvalidArgument
	}

	old := p.Images
	if len(patch.Images) > 0 {
		if p.Images, err = uc.putAll(ctx, "business-posters", patch.Images); err != nil {
			return nil, err
		}
	}
	if err := uc.repos.BusinessPosters.Save(ctx, repository.NoTX, p); err != nil {
		if len(patch.Images) > 0 {
			uc.discard(ctx, p.Images)
		}
		return nil, err
	}
	if len(patch.Images) > 0 {
		uc.discard(ctx, old)
	}
	return p, nil
}
