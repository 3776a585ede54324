package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
)

type ProductCatalog interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)
}
