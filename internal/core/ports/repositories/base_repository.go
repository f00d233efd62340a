package repositories

import "context"

// TransactionManager runs units of work that must commit or roll back as a whole.
type TransactionManager interface {
	// WithinTransaction runs fn inside a database transaction carried by the
	// context passed to fn. A nil return commits; any error rolls back and is
	// returned unchanged. Nested calls join the outer transaction.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
