package service_test

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
)

// memStore is an in-memory implementation of every port with the same
// versioning rules as the Postgres store.
// WithinTx restores the whole store on error, so transactions must not run concurrently.
type memStore struct {
	mu       sync.Mutex
	carts    map[string]domain.Cart
	accounts map[string]domain.Account
	products map[uuid.UUID]domain.Product

	catalogErr      error
	createCartErr   error
	saveCartErr     error
	saveAccountErr  error
	saveCartCalls   int
	createCartCalls int
}

func newMemStore() *memStore {
	return &memStore{
		carts:    make(map[string]domain.Cart),
		accounts: make(map[string]domain.Account),
		products: make(map[uuid.UUID]domain.Product),
	}
}

func (s *memStore) GetProduct(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalogErr != nil {
		return domain.Product{}, s.catalogErr
	}

	product, ok := s.products[productID]
	if !ok {
		return domain.Product{}, port.ErrProductNotFound
	}
	return product, nil
}

func (s *memStore) GetCart(_ context.Context, ownerID string) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[ownerID]
	if !ok {
		return domain.Cart{}, port.ErrCartNotFound
	}
	return cloneCart(cart), nil
}

func (s *memStore) CreateCart(_ context.Context, ownerID string, items []domain.CartItem) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createCartCalls++
	if s.createCartErr != nil {
		return domain.Cart{}, s.createCartErr
	}
	if _, ok := s.carts[ownerID]; ok {
		return domain.Cart{}, port.ErrCartExists
	}

	cart := domain.Cart{OwnerID: ownerID, Items: slices.Clone(items), Version: 1}
	s.carts[ownerID] = cart
	return cloneCart(cart), nil
}

func (s *memStore) SaveCart(_ context.Context, cart domain.Cart) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saveCartCalls++
	if s.saveCartErr != nil {
		return domain.Cart{}, s.saveCartErr
	}

	stored, ok := s.carts[cart.OwnerID]
	if !ok || stored.Version != cart.Version {
		return domain.Cart{}, port.ErrVersionConflict
	}

	cart = cloneCart(cart)
	cart.Version++
	s.carts[cart.OwnerID] = cart
	return cloneCart(cart), nil
}

func (s *memStore) GetAccount(_ context.Context, ownerID string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[ownerID]
	if !ok {
		return domain.Account{}, port.ErrAccountNotFound
	}
	return account, nil
}

func (s *memStore) SaveAccount(_ context.Context, account domain.Account) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveAccountErr != nil {
		return domain.Account{}, s.saveAccountErr
	}

	stored, ok := s.accounts[account.OwnerID]
	if !ok || stored.Version != account.Version {
		return domain.Account{}, port.ErrVersionConflict
	}

	account.Version++
	s.accounts[account.OwnerID] = account
	return account, nil
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos port.TxRepositories) error) error {
	s.mu.Lock()
	carts, accounts := maps.Clone(s.carts), maps.Clone(s.accounts)
	s.mu.Unlock()

	if err := fn(ctx, port.TxRepositories{Carts: s, Accounts: s}); err != nil {
		s.mu.Lock()
		s.carts, s.accounts = carts, accounts
		s.mu.Unlock()
		return err
	}

	return nil
}

func (s *memStore) cart(ownerID string) (domain.Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[ownerID]
	return cloneCart(cart), ok
}

func (s *memStore) account(ownerID string) domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accounts[ownerID]
}

func (s *memStore) putProduct(product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[product.ID] = product
}

func (s *memStore) putAccount(account domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account.Version == 0 {
		account.Version = 1
	}
	s.accounts[account.OwnerID] = account
}

func cloneCart(cart domain.Cart) domain.Cart {
	cart.Items = slices.Clone(cart.Items)
	return cart
}
