// Package service implements cart mutations and checkout on top of the store ports.
//
// Every operation is fetch, validate, mutate, persist. Validation always runs
// before the first write, so a rejected call leaves stored state untouched.
// Errors returned to callers are always *domain.Error.
package service

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
	"go.uber.org/zap"
)

type CartService struct {
	carts   port.CartRepository
	catalog port.ProductCatalog
	tx      port.Transactor
	locks   *ownerLocks
	logger  *zap.Logger
}

type Option func(*CartService)

func WithLogger(logger *zap.Logger) Option {
	return func(s *CartService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(carts port.CartRepository, catalog port.ProductCatalog, tx port.Transactor, opts ...Option) *CartService {
	s := &CartService{
		carts:   carts,
		catalog: catalog,
		tx:      tx,
		locks:   newOwnerLocks(),
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *CartService) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		if errors.Is(err, port.ErrCartNotFound) {
			return domain.Cart{}, domain.ErrNotFound
		}
		return domain.Cart{}, s.internal("get cart", ownerID, err)
	}

	return cart, nil
}

// AddItem appends a product to the owner's cart, creating the cart on first use.
func (s *CartService) AddItem(ctx context.Context, ownerID string, productID uuid.UUID, quantity int) (domain.Cart, error) {
	if !validQuantity(quantity) {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}

	unlock := s.locks.lock(ownerID)
	defer unlock()

	product, err := s.lookupProduct(ctx, ownerID, productID)
	if err != nil {
		return domain.Cart{}, err
	}

	item := domain.CartItem{
		ProductID: product.ID,
		Price:     product.Price,
		Quantity:  quantity,
	}

	cart, err := s.carts.GetCart(ctx, ownerID)
	if errors.Is(err, port.ErrCartNotFound) {
		created, err := s.carts.CreateCart(ctx, ownerID, []domain.CartItem{item})
		if err != nil {
			return domain.Cart{}, s.persistenceFailure("create cart", ownerID, err)
		}

		s.logger.Debug("cart created", zap.String("owner", ownerID), zap.Stringer("product_id", productID))
		return created, nil
	}
	if err != nil {
		return domain.Cart{}, s.internal("get cart", ownerID, err)
	}

	next, err := cart.WithItem(item)
	if err != nil {
		return domain.Cart{}, err
	}

	saved, err := s.carts.SaveCart(ctx, next)
	if err != nil {
		return domain.Cart{}, s.persistenceFailure("save cart", ownerID, err)
	}

	s.logger.Debug("item added", zap.String("owner", ownerID), zap.Stringer("product_id", productID))
	return saved, nil
}

// UpdateItemQuantity sets the quantity of an item already in the cart,
// keeping its position.
func (s *CartService) UpdateItemQuantity(ctx context.Context, ownerID string, productID uuid.UUID, quantity int) (domain.Cart, error) {
	if !validQuantity(quantity) {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}

	unlock := s.locks.lock(ownerID)
	defer unlock()

	cart, err := s.existingCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, err
	}

	if _, err := s.lookupProduct(ctx, ownerID, productID); err != nil {
		return domain.Cart{}, err
	}

	next, err := cart.WithQuantity(productID, quantity)
	if err != nil {
		return domain.Cart{}, err
	}

	saved, err := s.carts.SaveCart(ctx, next)
	if err != nil {
		return domain.Cart{}, s.persistenceFailure("save cart", ownerID, err)
	}

	s.logger.Debug("item quantity updated",
		zap.String("owner", ownerID), zap.Stringer("product_id", productID), zap.Int("quantity", quantity))
	return saved, nil
}

// RemoveItem drops a product from the cart. The catalog is not consulted:
// a product withdrawn from sale can still be removed.
func (s *CartService) RemoveItem(ctx context.Context, ownerID string, productID uuid.UUID) error {
	unlock := s.locks.lock(ownerID)
	defer unlock()

	cart, err := s.existingCart(ctx, ownerID)
	if err != nil {
		return err
	}

	next, err := cart.WithoutItem(productID)
	if err != nil {
		return err
	}

	if _, err := s.carts.SaveCart(ctx, next); err != nil {
		return s.persistenceFailure("save cart", ownerID, err)
	}

	s.logger.Debug("item removed", zap.String("owner", ownerID), zap.Stringer("product_id", productID))
	return nil
}

// Checkout debits the cart total from the owner's wallet and empties the cart.
// Both writes share one transaction: either both are visible or neither is.
func (s *CartService) Checkout(ctx context.Context, ownerID string) (domain.Checkout, error) {
	unlock := s.locks.lock(ownerID)
	defer unlock()

	var result domain.Checkout

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos port.TxRepositories) error {
		cart, err := repos.Carts.GetCart(ctx, ownerID)
		if err != nil {
			if errors.Is(err, port.ErrCartNotFound) {
				return domain.ErrNoCart
			}
			return s.internal("get cart", ownerID, err)
		}

		if cart.IsEmpty() {
			return domain.ErrEmptyCart
		}

		account, err := repos.Accounts.GetAccount(ctx, ownerID)
		if err != nil {
			return s.internal("get account", ownerID, err)
		}

		if !account.HasNonDefaultAddress() {
			return domain.ErrAddressNotSet
		}

		total, err := cart.Total(account.Wallet.Currency)
		if err != nil {
			return s.internal("cart total", ownerID, err)
		}

		debited, err := account.Debit(total)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientFunds) {
				return domain.ErrInsufficientFunds
			}
			return s.internal("debit wallet", ownerID, err)
		}

		saved, err := repos.Accounts.SaveAccount(ctx, debited)
		if err != nil {
			return s.persistenceFailure("save account", ownerID, err)
		}

		if _, err := repos.Carts.SaveCart(ctx, cart.Emptied()); err != nil {
			return s.persistenceFailure("save cart", ownerID, err)
		}

		result = domain.Checkout{
			OwnerID: ownerID,
			Total:   total,
			Balance: saved.Wallet,
		}
		return nil
	})
	if err != nil {
		var domainErr *domain.Error
		if errors.As(err, &domainErr) {
			return domain.Checkout{}, domainErr
		}
		// begin or commit failed
		return domain.Checkout{}, s.persistenceFailure("checkout tx", ownerID, err)
	}

	s.logger.Info("checkout completed",
		zap.String("owner", ownerID), zap.Stringer("total", result.Total), zap.Stringer("balance", result.Balance))
	return result, nil
}

func (s *CartService) existingCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		if errors.Is(err, port.ErrCartNotFound) {
			return domain.Cart{}, domain.ErrNoCart
		}
		return domain.Cart{}, s.internal("get cart", ownerID, err)
	}

	return cart, nil
}

func (s *CartService) lookupProduct(ctx context.Context, ownerID string, productID uuid.UUID) (domain.Product, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, port.ErrProductNotFound) {
			return domain.Product{}, domain.ErrInvalidProduct
		}
		return domain.Product{}, s.internal("get product", ownerID, err)
	}

	return product, nil
}

// validQuantity bounds quantities to what the store column holds.
func validQuantity(quantity int) bool {
	return quantity > 0 && quantity <= math.MaxInt32
}

func (s *CartService) persistenceFailure(op, ownerID string, err error) error {
	s.logger.Warn("write rejected", zap.String("op", op), zap.String("owner", ownerID), zap.Error(err))
	return domain.ErrPersistenceFailure.Wrap(err)
}

func (s *CartService) internal(op, ownerID string, err error) error {
	s.logger.Error("collaborator failed", zap.String("op", op), zap.String("owner", ownerID), zap.Error(err))
	return domain.ErrInternal.Wrap(err)
}
