package common

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// NotFoundError identifies a resource referenced by a request that does not
// exist. Resource is the kind ("User", "Product", "Order"), Field the lookup
// field and Value the value that missed.
type NotFoundError struct {
	Resource string
	Field    string
	Value    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with %s: %v", e.Resource, e.Field, e.Value)
}

func NewNotFoundError(resource, field string, value any) *NotFoundError {
	return &NotFoundError{Resource: resource, Field: field, Value: value}
}

// InsufficientStockError aborts an order creation when a line requests more
// units than the product has left, counting earlier lines of the same request.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}

// ConflictError is returned when a concurrent transaction touched the same
// stock rows and the database aborted ours. The whole operation may be
// retried from scratch.
type ConflictError struct {
	cause error
}

func (e *ConflictError) Error() string {
	return "order aborted by a concurrent stock update, retry the request"
}

func (e *ConflictError) Unwrap() error { return e.cause }

// AlreadyExistsError signals a uniqueness violation, e.g. a taken username.
type AlreadyExistsError struct {
	Resource string
	Field    string
	Value    any
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with %s '%v' already exists", e.Resource, e.Field, e.Value)
}

// Postgres aborts one of two transactions contending for the same locked
// rows with a serialization or deadlock failure.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// WrapCommitError converts transaction aborts caused by concurrent writers
// into a ConflictError and leaves every other error untouched.
func WrapCommitError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected {
			return &ConflictError{cause: err}
		}
	}
	return err
}
