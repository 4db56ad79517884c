package repositories

import (
	"context"
	"testing"
	"time"

	"tiendamart/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type OrderRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    OrderRepository
	userID  uuid.UUID
	context context.Context
}

func (suite *OrderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewOrderRepo(mock)
	suite.userID = uuid.New()
	suite.context = context.Background()
}

func (suite *OrderRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func orderColumns() []string {
	return []string{"id", "user_id", "username", "total", "created_at"}
}

func itemColumns() []string {
	return []string{"id", "order_id", "product_id", "name", "quantity", "unit_price"}
}

func (suite *OrderRepoTestSuite) TestSave_AssignsIDAndPersistsLines() {
	product1 := uuid.New()
	product2 := uuid.New()
	order := &models.Order{
		UserID: suite.userID,
		Total:  decimal.RequireFromString("2075.00"),
		Items: []*models.OrderItem{
			{ProductID: product1, Quantity: 2, UnitPrice: decimal.RequireFromString("1000.00")},
			{ProductID: product2, Quantity: 3, UnitPrice: decimal.RequireFromString("25.00")},
		},
	}

	suite.mock.ExpectExec(`INSERT INTO orders \(id, user_id, total, created_at\)`).
		WithArgs(pgxmock.AnyArg(), suite.userID, order.Total, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	batch := suite.mock.ExpectBatch()
	batch.ExpectExec(`INSERT INTO order_items`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), 0, product1, 2, order.Items[0].UnitPrice).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	batch.ExpectExec(`INSERT INTO order_items`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), 1, product2, 3, order.Items[1].UnitPrice).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Save(suite.context, order)
	assert.NoError(suite.T(), err)

	assert.NotEqual(suite.T(), uuid.Nil, order.ID)
	assert.False(suite.T(), order.CreatedAt.IsZero())
	for _, item := range order.Items {
		assert.Equal(suite.T(), order.ID, item.OrderID)
		assert.NotEqual(suite.T(), uuid.Nil, item.ID)
	}
}

func (suite *OrderRepoTestSuite) TestGetByID_LoadsItemsInLineOrder() {
	orderID := uuid.New()
	product1 := uuid.New()
	product2 := uuid.New()
	now := time.Now()

	suite.mock.ExpectQuery(`FROM orders o\s+JOIN users u ON u\.id = o\.user_id\s+WHERE o\.id = \$1`).
		WithArgs(orderID).
		WillReturnRows(pgxmock.NewRows(orderColumns()).
			AddRow(orderID, suite.userID, "usuarioPrueba", decimal.RequireFromString("2075.00"), now))

	suite.mock.ExpectQuery(`FROM order_items i\s+JOIN products p ON p\.id = i\.product_id\s+WHERE i\.order_id = ANY\(\$1\)\s+ORDER BY i\.order_id, i\.line_no`).
		WithArgs([]uuid.UUID{orderID}).
		WillReturnRows(pgxmock.NewRows(itemColumns()).
			AddRow(uuid.New(), orderID, product1, "Laptop", 2, decimal.RequireFromString("1000.00")).
			AddRow(uuid.New(), orderID, product2, "Mouse", 3, decimal.RequireFromString("25.00")))

	order, err := suite.repo.GetByID(suite.context, orderID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "usuarioPrueba", order.Username)
	assert.Len(suite.T(), order.Items, 2)
	assert.Equal(suite.T(), "Laptop", order.Items[0].ProductName)
	assert.Equal(suite.T(), "Mouse", order.Items[1].ProductName)
}

func (suite *OrderRepoTestSuite) TestGetByID_NotFound() {
	orderID := uuid.New()

	suite.mock.ExpectQuery(`WHERE o\.id = \$1`).
		WithArgs(orderID).
		WillReturnError(pgx.ErrNoRows)

	order, err := suite.repo.GetByID(suite.context, orderID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), order)
}

func (suite *OrderRepoTestSuite) TestListByUser_CountsAndLoadsItems() {
	orderID := uuid.New()
	now := time.Now()

	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM orders WHERE user_id = \$1`).
		WithArgs(suite.userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))

	suite.mock.ExpectQuery(`WHERE o\.user_id = \$1\s+ORDER BY o\.created_at DESC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs(suite.userID, 20, 0).
		WillReturnRows(pgxmock.NewRows(orderColumns()).
			AddRow(orderID, suite.userID, "usuarioPrueba", decimal.RequireFromString("45.00"), now))

	suite.mock.ExpectQuery(`WHERE i\.order_id = ANY\(\$1\)`).
		WithArgs([]uuid.UUID{orderID}).
		WillReturnRows(pgxmock.NewRows(itemColumns()).
			AddRow(uuid.New(), orderID, uuid.New(), "Ratón Inalámbrico", 1, decimal.RequireFromString("45.00")))

	orders, total, err := suite.repo.ListByUser(suite.context, suite.userID, 20, 0)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)
	assert.Len(suite.T(), orders, 1)
	assert.Len(suite.T(), orders[0].Items, 1)
}

func (suite *OrderRepoTestSuite) TestList_EmptySkipsItemQuery() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM orders`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

	suite.mock.ExpectQuery(`ORDER BY o\.created_at DESC\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(orderColumns()))

	orders, total, err := suite.repo.List(suite.context, 20, 0)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), total)
	assert.Empty(suite.T(), orders)
}

func (suite *OrderRepoTestSuite) TestDelete_RemovesItemsFirst() {
	orderID := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM order_items WHERE order_id = \$1`).
		WithArgs(orderID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	suite.mock.ExpectExec(`DELETE FROM orders WHERE id = \$1`).
		WithArgs(orderID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	deleted, err := suite.repo.Delete(suite.context, orderID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), deleted)
}

func (suite *OrderRepoTestSuite) TestDelete_MissingOrder() {
	orderID := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM order_items WHERE order_id = \$1`).
		WithArgs(orderID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	suite.mock.ExpectExec(`DELETE FROM orders WHERE id = \$1`).
		WithArgs(orderID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	deleted, err := suite.repo.Delete(suite.context, orderID)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), deleted)
}
