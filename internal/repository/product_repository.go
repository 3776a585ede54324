package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-checkout/internal/db"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
)

type productRepository struct {
	q *db.Queries
}

// NewProductCatalog returns a read-only catalog backed by the products table.
func NewProductCatalog(pool *pgxpool.Pool) port.ProductCatalog {
	return &productRepository{
		q: db.New(pool),
	}
}

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	if productID == uuid.Nil {
		return domain.Product{}, port.ErrProductNotFound
	}

	row, err := r.q.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, port.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("q.GetProduct: %w", err)
	}

	parsedCurrency, err := parseCurrency(row.PriceCurrency)
	if err != nil {
		return domain.Product{}, err
	}

	return domain.Product{
		ID:    row.ID,
		Name:  row.Name,
		Price: domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
	}, nil
}
