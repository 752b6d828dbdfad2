package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"weddinghall/internal/config"
	"weddinghall/internal/database"
	"weddinghall/internal/domain/catalog"
	"weddinghall/internal/domain/pricing"
	"weddinghall/internal/domain/quote"
	"weddinghall/internal/middleware"
	"weddinghall/internal/pkg/jwt"
	"weddinghall/internal/router"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadAppConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := catalog.Migrate(db); err != nil {
		log.Fatal("migrate failed: ", err)
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}
	cache := catalog.NewRedisCache(rdb, cfg.CatalogCacheTTL)

	policy := pricing.DefaultMealPolicy()
	if len(cfg.ExcludedMealCategories) > 0 {
		policy = pricing.NewMealPolicy(cfg.ExcludedMealCategories...)
	}

	catalogService := catalog.NewService(catalog.NewRepository(db), cache)
	quoteService := quote.NewService(catalogService, quote.NewStore(cfg.QuoteSessionTTL), quote.NewHub(), policy)
	catalogService.OnReplace(quoteService.RefreshCompany)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go quoteService.RunJanitor(ctx, cfg.JanitorInterval)

	quoteHandler := quote.NewHandler(quoteService, middleware.OriginAllowed(cfg.CORSAllowedOrigins))
	r := router.New(catalog.NewHandler(catalogService), quoteHandler, router.Options{
		CORSOrigins: cfg.CORSAllowedOrigins,
		Auth:        jwt.New(cfg.JWTSecret, cfg.JWTTTL),
		Ready: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("server starting addr=%s excluded_meals=%v", cfg.HTTPAddr, policy.Excluded())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
