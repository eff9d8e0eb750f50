package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/andreysx/storefront/app/auth"
	"github.com/andreysx/storefront/app/cart"
	"github.com/andreysx/storefront/app/catalog"
	"github.com/andreysx/storefront/app/categories"
	"github.com/andreysx/storefront/app/reviews"
	"github.com/andreysx/storefront/app/router"
	"github.com/andreysx/storefront/app/users"
	"github.com/andreysx/storefront/config"
	"github.com/andreysx/storefront/models"
	"github.com/andreysx/storefront/storage"
)

func main() {
	config.Load()

	log := newLogger()
	defer log.Sync() //nolint:errcheck

	db, err := models.Open(config.DatabaseDSN())
	if err != nil {
		log.Fatal("could not connect to database", zap.Error(err))
	}

	store, err := storage.NewLocalDisk(config.StorageRoot())
	if err != nil {
		log.Fatal("could not prepare asset storage", zap.Error(err))
	}

	tokens := auth.NewTokens(config.JWTSecret())

	handlers := router.Handlers{
		Catalog:    catalog.NewCatalogHandler(models.NewProductsRepository(db), store, log),
		Categories: categories.NewCategoryHandler(models.NewCategoriesRepository(db), log),
		Cart:       cart.NewCartHandler(models.NewCartRepository(db), log),
		Reviews:    reviews.NewReviewHandler(models.NewReviewsRepository(db), log),
		Users:      users.NewUserHandler(models.NewUsersRepository(db), tokens, log),
	}

	addr := config.ListenAddr()
	log.Info("storefront api listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, router.NewRouter(handlers, tokens, log)); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	if config.AppEnv() == "local" {
		log, _ := zap.NewDevelopment()
		return log
	}
	log, _ := zap.NewProduction()
	return log
}
