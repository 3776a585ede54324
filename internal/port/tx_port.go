package port

import "context"

// TxRepositories are bound to a single transaction.
type TxRepositories struct {
	Carts    CartRepository
	Accounts AccountRepository
}

// Transactor commits every write made through the repositories passed to fn,
// or none of them if fn returns an error.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
