package services

import (
	"context"
	"fmt"
	"log"

	"tiendamart/internal/caching"
	"tiendamart/internal/common"
	"tiendamart/internal/models"
	"tiendamart/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderServiceInterface defines the interface for order service operations
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, lines []models.OrderLineRequest) (*models.Order, error)
	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, page, size int) (*models.Page[*models.Order], error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) (*models.Page[*models.Order], error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

type orderService struct {
	txManager   repositories.TxManager
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	cacheSvc    caching.CacheService
}

// NewOrderService creates a new order service instance
func NewOrderService(txManager repositories.TxManager, orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, userRepo repositories.UserRepository, cacheSvc caching.CacheService) OrderServiceInterface {
	return &orderService{
		txManager:   txManager,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		cacheSvc:    cacheSvc,
	}
}

// CreateOrder places an order for the given user. The whole workflow runs in
// one transaction: the user is resolved first, all referenced products are
// fetched and row-locked in a single batched query, every line is validated
// against the running in-memory stock value, and the decremented stock plus
// the order aggregate are committed together. A failure at any point rolls
// back everything.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, lines []models.OrderLineRequest) (*models.Order, error) {
	var created *models.Order

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("resolve user: %w", err)
		}
		if user == nil {
			return common.NewNotFoundError("User", "ID", userID)
		}

		products, err := s.fetchProductsLocked(ctx, lines)
		if err != nil {
			return err
		}

		order, touched, err := assembleOrder(user, lines, products)
		if err != nil {
			return err
		}

		if err := s.productRepo.SaveAllStock(ctx, touched); err != nil {
			return fmt.Errorf("persist stock updates: %w", err)
		}
		if err := s.orderRepo.Save(ctx, order); err != nil {
			return fmt.Errorf("save order: %w", err)
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProducts(ctx, created.Items)
	return created, nil
}

// fetchProductsLocked resolves every referenced product in one batched,
// row-locking query. Duplicate references stay separate lines; only the
// fetch itself deduplicates IDs. A missing product fails the whole request.
func (s *orderService) fetchProductsLocked(ctx context.Context, lines []models.OrderLineRequest) (map[uuid.UUID]*models.Product, error) {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; !ok {
			seen[line.ProductID] = struct{}{}
			ids = append(ids, line.ProductID)
		}
	}

	fetched, err := s.productRepo.ListByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	products := make(map[uuid.UUID]*models.Product, len(fetched))
	for _, product := range fetched {
		products[product.ID] = product
	}
	for _, line := range lines {
		if _, ok := products[line.ProductID]; !ok {
			return nil, common.NewNotFoundError("Product", "ID", line.ProductID)
		}
	}
	return products, nil
}

// assembleOrder walks the lines in request order, checks each quantity
// against the in-memory running stock (so repeated references to one product
// accumulate), decrements stock, snapshots the unit price and sums the total
// with exact decimal arithmetic. Returns the unsaved aggregate and the
// products whose stock changed.
func assembleOrder(user *models.User, lines []models.OrderLineRequest, products map[uuid.UUID]*models.Product) (*models.Order, []*models.Product, error) {
	total := decimal.Zero
	items := make([]*models.OrderItem, 0, len(lines))
	touched := make([]*models.Product, 0, len(products))
	touchedSeen := make(map[uuid.UUID]struct{}, len(products))

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			// Callers go through the batched fetch, but the invariant is
			// cheap to re-check here.
			return nil, nil, common.NewNotFoundError("Product", "ID", line.ProductID)
		}
		if product.Stock < line.Quantity {
			return nil, nil, &common.InsufficientStockError{ProductName: product.Name}
		}

		product.Stock -= line.Quantity
		if _, ok := touchedSeen[product.ID]; !ok {
			touchedSeen[product.ID] = struct{}{}
			touched = append(touched, product)
		}

		items = append(items, &models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order := &models.Order{
		UserID:   user.ID,
		Username: user.Username,
		Total:    total,
		Items:    items,
	}
	return order, touched, nil
}

// GetOrderByID retrieves an order with its line items
func (s *orderService) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, common.NewNotFoundError("Order", "ID", orderID)
	}
	return order, nil
}

// ListOrders lists all orders with pagination
func (s *orderService) ListOrders(ctx context.Context, page, size int) (*models.Page[*models.Order], error) {
	page, size = common.NormalizePagination(page, size)
	orders, total, err := s.orderRepo.List(ctx, size, common.PageOffset(page, size))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return models.NewPage(orders, page, size, total), nil
}

// ListOrdersByUser lists one user's order history with pagination
func (s *orderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) (*models.Page[*models.Order], error) {
	exists, err := s.userRepo.ExistsByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, common.NewNotFoundError("User", "ID", userID)
	}

	page, size = common.NormalizePagination(page, size)
	orders, total, err := s.orderRepo.ListByUser(ctx, userID, size, common.PageOffset(page, size))
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return models.NewPage(orders, page, size, total), nil
}

// DeleteOrder removes an order together with its line items. Stock is not
// restored; orders are immutable records once placed.
func (s *orderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	return s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		deleted, err := s.orderRepo.Delete(ctx, orderID)
		if err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		if !deleted {
			return common.NewNotFoundError("Order", "ID", orderID)
		}
		return nil
	})
}

// invalidateProducts drops cached products whose stock changed. Best effort:
// the order is already committed, a stale cache entry only delays reads.
func (s *orderService) invalidateProducts(ctx context.Context, items []*models.OrderItem) {
	if s.cacheSvc == nil {
		return
	}
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	if err := s.cacheSvc.DeleteProducts(ctx, ids); err != nil {
		log.Printf("Failed to invalidate product cache after order: %v", err)
	}
}
