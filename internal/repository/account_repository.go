package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-checkout/internal/db"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
)

type accountRepository struct {
	q *db.Queries
}

func NewAccount(pool *pgxpool.Pool) port.AccountRepository {
	return &accountRepository{
		q: db.New(pool),
	}
}

func NewAccountWithTx(tx pgx.Tx) port.AccountRepository {
	return &accountRepository{
		q: db.New(tx),
	}
}

func (r *accountRepository) GetAccount(ctx context.Context, ownerID string) (domain.Account, error) {
	if ownerID == "" {
		return domain.Account{}, fmt.Errorf("ownerID is empty")
	}

	row, err := r.q.GetAccount(ctx, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, port.ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("q.GetAccount: %w", err)
	}

	parsedCurrency, err := parseCurrency(row.WalletCurrency)
	if err != nil {
		return domain.Account{}, err
	}

	return domain.Account{
		OwnerID: row.OwnerID,
		Wallet:  domain.Money{Amount: row.WalletAmount, Currency: parsedCurrency},
		Address: row.Address,
		Version: row.Version,
	}, nil
}

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	if account.OwnerID == "" {
		return domain.Account{}, fmt.Errorf("ownerID is empty")
	}
	if account.Wallet.Amount.IsNegative() {
		return domain.Account{}, fmt.Errorf("wallet amount is negative")
	}

	updated, err := r.q.UpdateAccount(ctx, db.UpdateAccountParams{
		OwnerID:      account.OwnerID,
		Version:      account.Version,
		WalletAmount: account.Wallet.Amount,
		Address:      account.Address,
	})
	if err != nil {
		return domain.Account{}, fmt.Errorf("q.UpdateAccount: %w", err)
	}
	if updated == 0 {
		return domain.Account{}, port.ErrVersionConflict
	}

	account.Version++
	return account, nil
}
