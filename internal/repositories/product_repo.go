package repositories

import (
	"context"
	"errors"
	"fmt"

	"tiendamart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*models.Product, int64, error)
	ListByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]*models.Product, error)
	SaveAllStock(ctx context.Context, products []*models.Product) error
	ListLowStock(ctx context.Context, threshold, limit int) ([]*models.Product, error)
}

type productRepo struct {
	db DB
}

func NewProductRepo(db DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := querier(ctx, r.db).Exec(ctx, query, product.ID, product.Name, product.Description, product.Price, product.Stock)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}
	query := `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	err := querier(ctx, r.db).QueryRow(ctx, query, id).Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := querier(ctx, r.db).Exec(ctx, query, product.Name, product.Description, product.Price, product.Stock, product.ID)
	return err
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM products WHERE id = $1`
	tag, err := querier(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]*models.Product, int64, error) {
	q := querier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM products
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}
	return products, total, rows.Err()
}

// ListByIDsForUpdate fetches all referenced products in one query and locks
// the rows for the rest of the transaction. The deterministic ORDER BY keeps
// concurrent overlapping orders from deadlocking on lock acquisition order.
func (r *productRepo) ListByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]*models.Product, error) {
	query := `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`
	rows, err := querier(ctx, r.db).Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) ListLowStock(ctx context.Context, threshold, limit int) ([]*models.Product, error) {
	query := `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM products
		WHERE stock <= $1
		ORDER BY stock ASC
		LIMIT $2
	`
	rows, err := querier(ctx, r.db).Query(ctx, query, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// SaveAllStock persists the stock counters of all given products as one
// batched round trip.
func (r *productRepo) SaveAllStock(ctx context.Context, products []*models.Product) error {
	batch := &pgx.Batch{}
	for _, product := range products {
		batch.Queue(`UPDATE products SET stock = $1, updated_at = NOW() WHERE id = $2`, product.Stock, product.ID)
	}
	results := querier(ctx, r.db).SendBatch(ctx, batch)
	defer results.Close()

	for range products {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batched stock update: %w", err)
		}
	}
	return results.Close()
}
