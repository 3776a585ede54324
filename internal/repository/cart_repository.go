package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-checkout/internal/db"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	dbCart, err := r.q.GetCart(ctx, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Cart{}, port.ErrCartNotFound
		}
		return domain.Cart{}, fmt.Errorf("q.GetCart: %w", err)
	}

	dbCartItems, err := r.q.GetCartItems(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCartItems: %w", err)
	}

	items, err := mapGetCartItemsRowsToDomain(dbCartItems)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapGetCartItemsRowsToDomain: %w", err)
	}

	return domain.Cart{
		OwnerID: dbCart.OwnerID,
		Items:   items,
		Version: dbCart.Version,
	}, nil
}

func (r *cartRepository) CreateCart(ctx context.Context, ownerID string, items []domain.CartItem) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Cart, error) {
		inserted, err := q.InsertCart(ctx, ownerID)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("q.InsertCart: %w", err)
		}
		if inserted == 0 {
			return domain.Cart{}, port.ErrCartExists
		}

		stored, err := insertItems(ctx, q, ownerID, items)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("insertItems: %w", err)
		}

		return domain.Cart{
			OwnerID: ownerID,
			Items:   stored,
			Version: 1,
		}, nil
	})
}

func (r *cartRepository) SaveCart(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	if cart.OwnerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Cart, error) {
		updated, err := q.BumpCartVersion(ctx, db.BumpCartVersionParams{
			OwnerID: cart.OwnerID,
			Version: cart.Version,
		})
		if err != nil {
			return domain.Cart{}, fmt.Errorf("q.BumpCartVersion: %w", err)
		}
		if updated == 0 {
			return domain.Cart{}, port.ErrVersionConflict
		}

		if err := q.DeleteCartItems(ctx, cart.OwnerID); err != nil {
			return domain.Cart{}, fmt.Errorf("q.DeleteCartItems: %w", err)
		}

		stored, err := insertItems(ctx, q, cart.OwnerID, cart.Items)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("insertItems: %w", err)
		}

		return domain.Cart{
			OwnerID: cart.OwnerID,
			Items:   stored,
			Version: cart.Version + 1,
		}, nil
	})
}

// insertItems writes items in slice order and returns them with CreatedAt filled in.
func insertItems(ctx context.Context, q *db.Queries, ownerID string, items []domain.CartItem) ([]domain.CartItem, error) {
	stored := make([]domain.CartItem, 0, len(items))
	now := time.Now().UTC().Truncate(time.Microsecond)

	for i, item := range items {
		if item.Quantity <= 0 || item.Quantity > math.MaxInt32 {
			return nil, fmt.Errorf("item[%s]: quantity %d out of range", item.ProductID, item.Quantity)
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}

		err := q.InsertCartItem(ctx, db.InsertCartItemParams{
			OwnerID:       ownerID,
			ProductID:     item.ProductID,
			Position:      int32(i),
			PriceAmount:   item.Price.Amount,
			PriceCurrency: item.Price.Currency.String(),
			Quantity:      int32(item.Quantity),
			CreatedAt:     item.CreatedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("q.InsertCartItem[%s]: %w", item.ProductID, err)
		}

		stored = append(stored, item)
	}

	return stored, nil
}

func mapGetCartItemsRowToDomain(row db.GetCartItemsRow) (domain.CartItem, error) {
	parsedCurrency, err := parseCurrency(row.PriceCurrency)
	if err != nil {
		return domain.CartItem{}, err
	}

	return domain.CartItem{
		ProductID: row.ProductID,
		Price:     domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		Quantity:  int(row.Quantity),
		CreatedAt: row.CreatedAt,
	}, nil
}

func mapGetCartItemsRowsToDomain(rows []db.GetCartItemsRow) ([]domain.CartItem, error) {
	items := make([]domain.CartItem, 0, len(rows))

	for _, row := range rows {
		item, err := mapGetCartItemsRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartItemsRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}

func parseCurrency(code string) (currency.Unit, error) {
	code = strings.TrimSpace(code)

	parsed, err := currency.ParseISO(code)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}

	return parsed, nil
}
