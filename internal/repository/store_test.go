package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-checkout/internal/db"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
	"github.com/nikolayk812/cart-checkout/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/currency"
)

type storeSuite struct {
	suite.Suite

	pool     *pgxpool.Pool
	carts    port.CartRepository
	accounts port.AccountRepository
	catalog  port.ProductCatalog
	tx       port.Transactor
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(storeSuite))
}

func (suite *storeSuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.carts = repository.NewCart(suite.pool)
	suite.accounts = repository.NewAccount(suite.pool)
	suite.catalog = repository.NewProductCatalog(suite.pool)
	suite.tx = repository.NewTransactor(suite.pool)
}

func (suite *storeSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *storeSuite) TestGetProduct() {
	t := suite.T()
	ctx := t.Context()

	product := domain.Product{
		ID:    uuid.MustParse(gofakeit.UUID()),
		Name:  gofakeit.ProductName(),
		Price: domain.Money{Amount: decimal.RequireFromString("19.99"), Currency: currency.USD},
	}
	suite.insertProduct(product)

	got, err := suite.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
	assert.Equal(t, product.Name, got.Name)
	assert.True(t, product.Price.Amount.Equal(got.Price.Amount))
	assert.Equal(t, currency.USD, got.Price.Currency)

	_, err = suite.catalog.GetProduct(ctx, uuid.MustParse(gofakeit.UUID()))
	require.ErrorIs(t, err, port.ErrProductNotFound)

	_, err = suite.catalog.GetProduct(ctx, uuid.Nil)
	require.ErrorIs(t, err, port.ErrProductNotFound)
}

func (suite *storeSuite) TestSaveAccount() {
	t := suite.T()
	ctx := t.Context()

	ownerID := gofakeit.Email()
	suite.insertAccount(ownerID, "100", domain.DefaultAddress)

	account, err := suite.accounts.GetAccount(ctx, ownerID)
	require.NoError(t, err)
	assert.False(t, account.HasNonDefaultAddress())
	assert.Equal(t, int64(1), account.Version)

	account.Address = gofakeit.Street()
	debited, err := account.Debit(domain.Money{Amount: decimal.NewFromInt(30), Currency: currency.EUR})
	require.NoError(t, err)

	saved, err := suite.accounts.SaveAccount(ctx, debited)
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.Version)

	reloaded, err := suite.accounts.GetAccount(ctx, ownerID)
	require.NoError(t, err)
	assert.True(t, reloaded.Wallet.Amount.Equal(decimal.NewFromInt(70)))
	assert.True(t, reloaded.HasNonDefaultAddress())

	// stale version
	_, err = suite.accounts.SaveAccount(ctx, debited)
	require.ErrorIs(t, err, port.ErrVersionConflict)

	_, err = suite.accounts.GetAccount(ctx, gofakeit.Email())
	require.ErrorIs(t, err, port.ErrAccountNotFound)
}

func (suite *storeSuite) TestWithinTx_CommitsBothWrites() {
	t := suite.T()
	ctx := t.Context()

	ownerID := gofakeit.Email()
	suite.insertAccount(ownerID, "50", gofakeit.Street())
	_, err := suite.carts.CreateCart(ctx, ownerID, []domain.CartItem{randomCartItem()})
	require.NoError(t, err)

	err = suite.tx.WithinTx(ctx, func(ctx context.Context, repos port.TxRepositories) error {
		cart, err := repos.Carts.GetCart(ctx, ownerID)
		if err != nil {
			return err
		}
		account, err := repos.Accounts.GetAccount(ctx, ownerID)
		if err != nil {
			return err
		}

		account, err = account.Debit(domain.Money{Amount: decimal.NewFromInt(20), Currency: currency.EUR})
		if err != nil {
			return err
		}
		if _, err := repos.Accounts.SaveAccount(ctx, account); err != nil {
			return err
		}
		_, err = repos.Carts.SaveCart(ctx, cart.Emptied())
		return err
	})
	require.NoError(t, err)

	cart, err := suite.carts.GetCart(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	account, err := suite.accounts.GetAccount(ctx, ownerID)
	require.NoError(t, err)
	assert.True(t, account.Wallet.Amount.Equal(decimal.NewFromInt(30)))
}

func (suite *storeSuite) TestWithinTx_RollsBackDebitWhenCartSaveFails() {
	t := suite.T()
	ctx := t.Context()

	ownerID := gofakeit.Email()
	suite.insertAccount(ownerID, "50", gofakeit.Street())
	created, err := suite.carts.CreateCart(ctx, ownerID, []domain.CartItem{randomCartItem()})
	require.NoError(t, err)

	// bump the cart version behind the transaction's back
	_, err = suite.carts.SaveCart(ctx, created)
	require.NoError(t, err)

	err = suite.tx.WithinTx(ctx, func(ctx context.Context, repos port.TxRepositories) error {
		account, err := repos.Accounts.GetAccount(ctx, ownerID)
		if err != nil {
			return err
		}

		account, err = account.Debit(domain.Money{Amount: decimal.NewFromInt(20), Currency: currency.EUR})
		if err != nil {
			return err
		}
		if _, err := repos.Accounts.SaveAccount(ctx, account); err != nil {
			return err
		}

		_, err = repos.Carts.SaveCart(ctx, created.Emptied())
		return err
	})
	require.ErrorIs(t, err, port.ErrVersionConflict)

	account, err := suite.accounts.GetAccount(ctx, ownerID)
	require.NoError(t, err)
	assert.True(t, account.Wallet.Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, int64(1), account.Version)

	cart, err := suite.carts.GetCart(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func (suite *storeSuite) TestWithinTx_PropagatesCallbackError() {
	t := suite.T()
	boom := errors.New("boom")

	err := suite.tx.WithinTx(t.Context(), func(context.Context, port.TxRepositories) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
}

func (suite *storeSuite) insertProduct(product domain.Product) {
	err := db.New(suite.pool).InsertProduct(suite.T().Context(), db.InsertProductParams{
		ID:            product.ID,
		Name:          product.Name,
		PriceAmount:   product.Price.Amount,
		PriceCurrency: product.Price.Currency.String(),
	})
	suite.Require().NoError(err)
}

func (suite *storeSuite) insertAccount(ownerID, wallet, address string) {
	err := db.New(suite.pool).InsertAccount(suite.T().Context(), db.InsertAccountParams{
		OwnerID:        ownerID,
		WalletAmount:   decimal.RequireFromString(wallet),
		WalletCurrency: currency.EUR.String(),
		Address:        address,
	})
	suite.Require().NoError(err)
}
