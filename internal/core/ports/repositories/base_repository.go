package repositories

import (
	"context"
)

// TransactionManager runs a unit of work inside a single database transaction.
// Repositories called with the ctx handed to fn join that transaction.
// Nested calls reuse the outer transaction.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
