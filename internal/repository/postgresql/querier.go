package postgresql

import (
	"context"

	"github.com/arthurobs542/clock-timer/internal/pkg/database"
)

// GetQuerier returns the transaction carried in the context, or the pool.
// Repositories call this so the same method works inside and outside a
// transaction.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := database.TxFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}
