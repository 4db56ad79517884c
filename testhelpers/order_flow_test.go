package testhelpers

import (
	"context"
	"sync"
	"testing"

	"tiendamart/internal/models"
	"tiendamart/internal/repositories"
	"tiendamart/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := SetupTestDB(t, "")
	defer testDB.Cleanup()

	userRepo := repositories.NewUserRepo(testDB.Pool)
	productRepo := repositories.NewProductRepo(testDB.Pool)
	orderRepo := repositories.NewOrderRepo(testDB.Pool)
	txManager := repositories.NewTxManager(testDB.Pool)
	orderSvc := services.NewOrderService(txManager, orderRepo, productRepo, userRepo, nil)

	user := SetupTestUser(t, testDB, "flow-user", "flowpass", models.RoleUser)
	defer CleanupOrders(t, testDB)

	t.Run("CreateAndReadBack", func(t *testing.T) {
		laptop := SetupTestProduct(t, testDB, "Laptop Gamer", "1200.00", 10)
		mouse := SetupTestProduct(t, testDB, "Ratón Inalámbrico", "45.00", 100)

		order, err := orderSvc.CreateOrder(context.Background(), user.ID, []models.OrderLineRequest{
			{ProductID: laptop.ID, Quantity: 2},
			{ProductID: mouse.ID, Quantity: 1},
		})
		require.NoError(t, err)
		assert.True(t, order.Total.Equal(decimal.RequireFromString("2445.00")))

		fetched, err := orderSvc.GetOrderByID(context.Background(), order.ID)
		require.NoError(t, err)
		require.Len(t, fetched.Items, 2)
		assert.Equal(t, "Laptop Gamer", fetched.Items[0].ProductName)
		assert.True(t, fetched.Items[0].UnitPrice.Equal(decimal.RequireFromString("1200.00")))

		stored, err := productRepo.GetByID(context.Background(), laptop.ID)
		require.NoError(t, err)
		assert.Equal(t, 8, stored.Stock)
	})

	t.Run("FailedOrderLeavesStockUntouched", func(t *testing.T) {
		monitor := SetupTestProduct(t, testDB, "Monitor Curvo", "350.50", 3)

		_, err := orderSvc.CreateOrder(context.Background(), user.ID, []models.OrderLineRequest{
			{ProductID: monitor.ID, Quantity: 5},
		})
		require.Error(t, err)

		stored, err := productRepo.GetByID(context.Background(), monitor.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, stored.Stock)
	})

	// Many concurrent orders contend for the same product; stock must never
	// go negative and every successful order must account for its units.
	t.Run("ConcurrentOrdersConserveStock", func(t *testing.T) {
		const workers = 10
		keyboard := SetupTestProduct(t, testDB, "Teclado Mecánico", "99.99", 6)

		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := orderSvc.CreateOrder(context.Background(), user.ID, []models.OrderLineRequest{
					{ProductID: keyboard.ID, Quantity: 2},
				})
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		stored, err := productRepo.GetByID(context.Background(), keyboard.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, succeeded)
		assert.Equal(t, 0, stored.Stock)
		assert.GreaterOrEqual(t, stored.Stock, 0)
	})
}
