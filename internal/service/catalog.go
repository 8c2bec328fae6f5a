package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Skotchmaster/technocare/internal/events"
	"github.com/Skotchmaster/technocare/internal/models"
	"github.com/Skotchmaster/technocare/internal/repo"
)

type CatalogService struct {
	Repo      repo.Collection[models.Product]
	Publisher events.Publisher
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.Find(ctx, repo.Filter{})
}

func (s *CatalogService) getOne(ctx context.Context, field string, value any) (*models.Product, error) {
	prod, err := s.Repo.FindOne(ctx, repo.Eq(field, value))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("product %s=%v: %w", field, value, ErrNotFound)
	}
	return prod, err
}

func (s *CatalogService) GetBySKU(ctx context.Context, sku int64) (*models.Product, error) {
	return s.getOne(ctx, models.FieldSKU, sku)
}

func (s *CatalogService) GetByPathname(ctx context.Context, pathname string) (*models.Product, error) {
	if pathname == "" {
		return nil, fmt.Errorf("pathname is required: %w", ErrValidation)
	}
	return s.getOne(ctx, models.FieldPathname, pathname)
}

func (s *CatalogService) ListByBrand(ctx context.Context, brand string) ([]models.Product, error) {
	return s.Repo.Find(ctx, repo.Eq(models.FieldBrand, brand))
}

func (s *CatalogService) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.Repo.Find(ctx, repo.Eq(models.FieldCategory, category))
}

// CreateProduct does not check sku or pathname for duplicates.
func (s *CatalogService) CreateProduct(ctx context.Context, prod *models.Product) (string, error) {
	id, err := s.Repo.Insert(ctx, prod)
	if err != nil {
		return "", err
	}

	publish(ctx, s.Publisher, events.ProductTopic, strconv.FormatInt(prod.SKU, 10), map[string]any{
		"type":      "product_created",
		"productID": id,
		"sku":       prod.SKU,
		"name":      prod.GadgetName,
	})
	return id, nil
}

// ReplaceProduct overwrites the full field set of the product with the same
// sku. Unlike account profiles it never inserts: an unknown sku is a no-op.
func (s *CatalogService) ReplaceProduct(ctx context.Context, prod models.Product) (repo.UpdateResult, error) {
	res, err := s.Repo.Update(ctx, repo.Eq(models.FieldSKU, prod.SKU), repo.Fields{
		models.FieldGadgetName: prod.GadgetName,
		models.FieldBrand:      prod.Brand,
		models.FieldRating:     prod.Rating,
		models.FieldSKU:        prod.SKU,
		models.FieldPathname:   prod.Pathname,
		models.FieldCategory:   prod.Category,
		models.FieldDetails:    prod.Details,
		models.FieldPhoto:      prod.Photo,
		models.FieldPrice:      prod.Price,
	}, repo.ReplaceOnly)
	if err != nil {
		return repo.UpdateResult{}, err
	}

	if res.Matched > 0 {
		publish(ctx, s.Publisher, events.ProductTopic, strconv.FormatInt(prod.SKU, 10), map[string]any{
			"type":  "product_replaced",
			"sku":   prod.SKU,
			"name":  prod.GadgetName,
			"price": prod.Price,
		})
	}
	return res, nil
}
