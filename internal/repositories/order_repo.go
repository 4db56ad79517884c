package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiendamart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Save(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, limit, offset int) ([]*models.Order, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Order, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type orderRepo struct {
	db DB
}

func NewOrderRepo(db DB) OrderRepository {
	return &orderRepo{db: db}
}

// Save persists the order header and all its line items. The identifier and
// creation timestamp are assigned here, on first persist.
func (r *orderRepo) Save(ctx context.Context, order *models.Order) error {
	q := querier(ctx, r.db)

	order.ID = uuid.New()
	order.CreatedAt = time.Now()

	query := `
		INSERT INTO orders (id, user_id, total, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := q.Exec(ctx, query, order.ID, order.UserID, order.Total, order.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for lineNo, item := range order.Items {
		item.ID = uuid.New()
		item.OrderID = order.ID
		batch.Queue(`
			INSERT INTO order_items (id, order_id, line_no, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, item.ID, item.OrderID, lineNo, item.ProductID, item.Quantity, item.UnitPrice)
	}
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for range order.Items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return results.Close()
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	q := querier(ctx, r.db)

	order := &models.Order{}
	query := `
		SELECT o.id, o.user_id, u.username, o.total, o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1
	`
	err := q.QueryRow(ctx, query, id).Scan(&order.ID, &order.UserID, &order.Username, &order.Total, &order.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func (r *orderRepo) List(ctx context.Context, limit, offset int) ([]*models.Order, int64, error) {
	var total int64
	if err := querier(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT o.id, o.user_id, u.username, o.total, o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC
		LIMIT $1 OFFSET $2
	`
	orders, err := r.queryOrders(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Order, int64, error) {
	var total int64
	if err := querier(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT o.id, o.user_id, u.username, o.total, o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC
		LIMIT $2 OFFSET $3
	`
	orders, err := r.queryOrders(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Delete removes the order and all its line items. Lines never outlive their
// order.
func (r *orderRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	q := querier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return false, err
	}
	tag, err := q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *orderRepo) queryOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := querier(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	var orderIDs []uuid.UUID
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.Username, &order.Total, &order.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		order.Items = items[order.ID]
	}
	return orders, nil
}

// loadItems fetches the line items of all given orders in one query.
func (r *orderRepo) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]*models.OrderItem, error) {
	query := `
		SELECT i.id, i.order_id, i.product_id, p.name, i.quantity, i.unit_price
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ANY($1)
		ORDER BY i.order_id, i.line_no
	`
	rows, err := querier(ctx, r.db).Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]*models.OrderItem)
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	return items, rows.Err()
}
