package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"poster-commerce/internal/config"
	pg "poster-commerce/internal/infra/db/postgres"
	"poster-commerce/internal/infra/logging"
	"poster-commerce/internal/infra/storage"
	"poster-commerce/internal/usecase"

	"github.com/shopspring/decimal"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	// ---- Config ----
	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Connect Postgres
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	files, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	planUC := usecase.NewPlanUseCase(pg.NewPlanRepo(pool), pg.NewPostgresUserRepo(pool), pg.NewTxManager(pool), logger)
	catalogUC := usecase.NewCatalogUseCase(usecase.CatalogRepos{
		Posters:            pg.NewPosterRepo(pool),
		BusinessPosters:    pg.NewBusinessPosterRepo(pool),
		Categories:         pg.NewCategoryRepo(pool),
		BusinessCategories: pg.NewBusinessCategoryRepo(pool),
		Logos:              pg.NewLogoRepo(pool),
		BusinessCards:      pg.NewBusinessCardRepo(pool),
	}, files, logger)

	seedPlans(ctx, planUC)
	seedPosters(ctx, catalogUC)

	fmt.Println("✅ Seeding complete.")
}

func seedPlans(ctx context.Context, planUC usecase.PlanUseCase) {
	// If plans already exist, do nothing
	plans, err := planUC.List(ctx)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (%s, offer=%s INR)\n", p.Name, p.Duration, p.OfferPrice)
		}
		return
	}

	seed := []usecase.PlanInput{
		{
			Name:               "Monthly",
			OriginalPrice:      decimal.NewFromInt(499),
			OfferPrice:         decimal.NewFromInt(299),
			DiscountPercentage: decimal.NewFromInt(40),
			Duration:           "1 Month",
			Features:           []string{"Unlimited festival posters", "Business posters"},
		},
		{
			Name:               "Yearly",
			OriginalPrice:      decimal.NewFromInt(4999),
			OfferPrice:         decimal.NewFromInt(2499),
			DiscountPercentage: decimal.NewFromInt(50),
			Duration:           "1 Year",
			Features:           []string{"Unlimited festival posters", "Business posters", "Birthday greetings"},
		},
	}
	for _, in := range seed {
		p, err := planUC.Create(ctx, in)
		if err != nil {
			log.Fatalf("create plan %q: %v", in.Name, err)
		}
		fmt.Printf("seeded plan: %s (id=%s, %s)\n", p.Name, p.ID, p.Duration)
	}
}

func seedPosters(ctx context.Context, catalogUC usecase.CatalogUseCase) {
	posters, err := catalogUC.ListPosters(ctx)
	if err != nil {
		log.Fatalf("list posters: %v", err)
	}
	if len(posters) > 0 {
		fmt.Printf("%d posters already present. No changes.\n", len(posters))
		return
	}

	diwali := time.Date(time.Now().Year(), time.November, 1, 0, 0, 0, 0, time.UTC)
	seed := []usecase.PosterInput{
		{Name: "Diwali Lamps", CategoryName: "Festival", Price: decimal.NewFromInt(150), Size: "A4", FestivalDate: &diwali},
		{Name: "Ugadi Wishes", CategoryName: "Ugadi", Price: decimal.NewFromInt(120), Size: "A4"},
		{Name: "Salon Offer", CategoryName: "Beauty Products", Price: decimal.NewFromInt(99), Size: "A5"},
	}
	for _, in := range seed {
		p, err := catalogUC.CreatePoster(ctx, in)
		if err != nil {
			log.Fatalf("create poster %q: %v", in.Name, err)
		}
		fmt.Printf("seeded poster: %s (id=%s, category=%s)\n", p.Name, p.ID, p.CategoryName)
	}
}
