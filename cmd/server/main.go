package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/adamnowak/shop-api/internal/config"
	"github.com/adamnowak/shop-api/internal/db"
	"github.com/adamnowak/shop-api/internal/es"
	"github.com/adamnowak/shop-api/internal/handlers"
	"github.com/adamnowak/shop-api/internal/logging"
	loggingmw "github.com/adamnowak/shop-api/internal/middleware/logging"
	"github.com/adamnowak/shop-api/internal/mykafka"
	"github.com/adamnowak/shop-api/internal/repo"
	"github.com/adamnowak/shop-api/internal/seo"
	"github.com/adamnowak/shop-api/internal/service"
	httpserver "github.com/adamnowak/shop-api/internal/transport/http"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := repo.Migrate(database); err != nil {
		log.Fatalf("db migration error: %v", err)
	}
	if err := repo.Seed(ctx, database); err != nil {
		log.Fatalf("db seed error: %v", err)
	}

	prod := mykafka.NewProducer(cfg.KafkaBrokers)

	var indexer *es.Indexer
	searchHandler := &handlers.SearchHandler{Index: "product"}
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		indexer = es.NewIndexer(esClient, "product")
		searchHandler.ES = esClient
	}

	store := &repo.GormRepo{DB: database}

	authSvc := &service.AuthService{
		Repo:          store,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	}
	orderSvc := &service.OrderService{Repo: store}
	opinionSvc := &service.OpinionService{Repo: store}
	catalogSvc := &service.CatalogService{Repo: store, Indexer: indexer}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler:    &handlers.AuthHandler{Svc: authSvc, Producer: prod},
		OrderHandler:   &handlers.OrderHandler{Svc: orderSvc, Opinions: opinionSvc, Producer: prod},
		ProductHandler: &handlers.ProductHandler{Svc: catalogSvc, Seo: seo.NewClient(cfg.GroqAPIKey), Producer: prod},
		SearchHandler:  searchHandler,
		JWTSecret:      cfg.JWTSecret,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
