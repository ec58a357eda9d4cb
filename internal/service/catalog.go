package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/adamnowak/shop-api/internal/es"
	"github.com/adamnowak/shop-api/internal/logging"
	"github.com/adamnowak/shop-api/internal/models"
	"github.com/adamnowak/shop-api/internal/repo"
	"github.com/adamnowak/shop-api/internal/transport"
)

type CatalogService struct {
	Repo    *repo.GormRepo
	Indexer *es.Indexer
}

func (s *CatalogService) validateProduct(ctx context.Context, name, description string, priceUnit, weightUnit float64, category string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: product name cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: product description cannot be empty", ErrValidation)
	}
	if priceUnit <= 0 {
		return fmt.Errorf("%w: product price must be greater than 0", ErrValidation)
	}
	if weightUnit <= 0 {
		return fmt.Errorf("%w: product weight must be greater than 0", ErrValidation)
	}
	exists, err := s.Repo.CategoryExists(ctx, category)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: category %s does not exist", ErrValidation, category)
	}
	return nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) List(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.ListProducts(ctx, offset, limit)
}

func (s *CatalogService) Create(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	if err := s.validateProduct(ctx, req.Name, req.Description, req.PriceUnit, req.WeightUnit, req.Category.Name); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:         req.Name,
		Description:  req.Description,
		PriceUnit:    req.PriceUnit,
		WeightUnit:   req.WeightUnit,
		CategoryName: req.Category.Name,
	}
	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	s.reindex(ctx, *product)
	return product, nil
}

func (s *CatalogService) Patch(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.PriceUnit != nil {
		product.PriceUnit = *req.PriceUnit
	}
	if req.WeightUnit != nil {
		product.WeightUnit = *req.WeightUnit
	}
	if req.Category != nil {
		product.CategoryName = req.Category.Name
	}

	if err := s.validateProduct(ctx, product.Name, product.Description, product.PriceUnit, product.WeightUnit, product.CategoryName); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	s.reindex(ctx, *product)
	return product, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return err
	}
	if err := s.Indexer.DeleteProduct(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("search_index_delete_failed", "product_id", id, "error", err)
	}
	return nil
}

// BulkImport seeds the catalog. Refused once any product exists.
func (s *CatalogService) BulkImport(ctx context.Context, reqs []transport.ProductRequest) (int, error) {
	existing, err := s.Repo.CountProducts(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, fmt.Errorf("%w: products already exist", ErrConflict)
	}

	for _, req := range reqs {
		if err := s.validateProduct(ctx, req.Name, req.Description, req.PriceUnit, req.WeightUnit, req.Category.Name); err != nil {
			return 0, err
		}
	}

	for i, req := range reqs {
		product := &models.Product{
			Name:         req.Name,
			Description:  req.Description,
			PriceUnit:    req.PriceUnit,
			WeightUnit:   req.WeightUnit,
			CategoryName: req.Category.Name,
		}
		if err := s.Repo.CreateProduct(ctx, product); err != nil {
			return i, err
		}
		s.reindex(ctx, *product)
	}
	return len(reqs), nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

// UpdateDescription persists an externally generated description.
func (s *CatalogService) UpdateDescription(ctx context.Context, id uint, description string) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Description = description
	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	s.reindex(ctx, *product)
	return product, nil
}

// Index sync is best effort: a search outage must not fail catalog writes.
func (s *CatalogService) reindex(ctx context.Context, product models.Product) {
	if err := s.Indexer.IndexProduct(ctx, product); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", product.ID, "error", err)
	}
}
