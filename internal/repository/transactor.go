package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-checkout/internal/port"
)

type transactor struct {
	pool *pgxpool.Pool
}

// NewTransactor returns a port.Transactor whose repositories share one pgx transaction.
func NewTransactor(pool *pgxpool.Pool) port.Transactor {
	return &transactor{pool: pool}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos port.TxRepositories) error) error {
	return inTx(ctx, t.pool, func(tx pgx.Tx) error {
		return fn(ctx, port.TxRepositories{
			Carts:    NewCartWithTx(tx),
			Accounts: NewAccountWithTx(tx),
		})
	})
}
