package jobs

import (
	"context"
	"errors"
	"testing"

	"tiendamart/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]*models.Product, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) ListByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]*models.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) SaveAllStock(ctx context.Context, products []*models.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *MockProductRepository) ListLowStock(ctx context.Context, threshold, limit int) ([]*models.Product, error) {
	args := m.Called(ctx, threshold, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func TestCheckLowStock_UsesConfiguredThreshold(t *testing.T) {
	productRepo := new(MockProductRepository)
	svc := NewLowStockAlertService(productRepo, 5)

	low := []*models.Product{{ID: uuid.New(), Name: "Auriculares Bluetooth", Stock: 2}}
	productRepo.On("ListLowStock", mock.Anything, 5, 1000).Return(low, nil)

	alerts, err := svc.CheckLowStock(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, low, alerts)
}

func TestCheckLowStock_DefaultThreshold(t *testing.T) {
	productRepo := new(MockProductRepository)
	svc := NewLowStockAlertService(productRepo, 0)

	productRepo.On("ListLowStock", mock.Anything, 10, 1000).Return([]*models.Product{}, nil)

	alerts, err := svc.CheckLowStock(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestCheckLowStock_PropagatesRepositoryError(t *testing.T) {
	productRepo := new(MockProductRepository)
	svc := NewLowStockAlertService(productRepo, 5)

	productRepo.On("ListLowStock", mock.Anything, 5, 1000).Return(nil, errors.New("db down"))

	alerts, err := svc.CheckLowStock(context.Background())
	assert.Error(t, err)
	assert.Nil(t, alerts)
}
