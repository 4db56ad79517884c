package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"tiendamart/internal/caching"
	"tiendamart/internal/common"
	"tiendamart/internal/models"
	"tiendamart/internal/repositories"

	"github.com/google/uuid"
)

const productCacheTTL = 5 * time.Minute

// ProductServiceInterface defines the interface for catalog operations
type ProductServiceInterface interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, page, size int) (*models.Page[*models.Product], error)
	UpdateProduct(ctx context.Context, id uuid.UUID, update *models.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo repositories.ProductRepository
	cacheSvc    caching.CacheService
}

// NewProductService creates a new product service instance
func NewProductService(productRepo repositories.ProductRepository, cacheSvc caching.CacheService) ProductServiceInterface {
	return &productService{
		productRepo: productRepo,
		cacheSvc:    cacheSvc,
	}
}

func (s *productService) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.GetProduct(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, common.NewNotFoundError("Product", "ID", id)
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetProduct(ctx, product, productCacheTTL); err != nil {
			log.Printf("Failed to cache product %s: %v", id.String(), err)
		}
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, page, size int) (*models.Page[*models.Product], error) {
	page, size = common.NormalizePagination(page, size)
	products, total, err := s.productRepo.List(ctx, size, common.PageOffset(page, size))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return models.NewPage(products, page, size, total), nil
}

// UpdateProduct applies the non-nil fields of the update to the stored
// product and invalidates its cache entry.
func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, update *models.ProductUpdate) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, common.NewNotFoundError("Product", "ID", id)
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = update.Description
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Stock != nil {
		if *update.Stock < 0 {
			return nil, fmt.Errorf("stock cannot be negative")
		}
		product.Stock = *update.Stock
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx, id)
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !deleted {
		return common.NewNotFoundError("Product", "ID", id)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *productService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cacheSvc == nil {
		return
	}
	if err := s.cacheSvc.DeleteProduct(ctx, id); err != nil {
		log.Printf("Failed to invalidate cache for product %s: %v", id.String(), err)
	}
}
