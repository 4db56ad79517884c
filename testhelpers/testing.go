package testhelpers

import (
	"context"
	"os"
	"testing"

	"tiendamart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// TestDB holds the database connection for integration testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB creates a pooled connection for testing. Tests that need a
// live database should skip when TEST_DATABASE_URL is unset.
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			connString = "host=localhost port=5432 user=postgres password=postgres dbname=tiendamart_test sslmode=disable"
		}
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestUser inserts a user with a bcrypt-hashed password and returns it.
func SetupTestUser(t *testing.T, db *TestDB, username, password, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	query := `
		INSERT INTO users (id, username, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (username) DO NOTHING
	`
	if _, err := db.Pool.Exec(context.Background(), query, user.ID, user.Username, user.PasswordHash, user.Role); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// SetupTestProduct inserts a catalog product with the given price and stock.
func SetupTestProduct(t *testing.T, db *TestDB, name, price string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	query := `
		INSERT INTO products (id, name, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	if _, err := db.Pool.Exec(context.Background(), query, product.ID, product.Name, product.Price, product.Stock); err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return product
}

// CleanupOrders removes all orders and line items touched by a test run.
func CleanupOrders(t *testing.T, db *TestDB) {
	t.Helper()

	ctx := context.Background()
	if _, err := db.Pool.Exec(ctx, `DELETE FROM order_items`); err != nil {
		t.Fatalf("Failed to clean order items: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, `DELETE FROM orders`); err != nil {
		t.Fatalf("Failed to clean orders: %v", err)
	}
}
