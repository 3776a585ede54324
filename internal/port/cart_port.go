package port

import (
	"context"

	"github.com/nikolayk812/cart-checkout/internal/domain"
)

type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)
	// CreateCart inserts a cart only if the owner has none yet, otherwise ErrCartExists.
	CreateCart(ctx context.Context, ownerID string, items []domain.CartItem) (domain.Cart, error)
	// SaveCart replaces the stored items if cart.Version is still current,
	// otherwise ErrVersionConflict. The returned cart carries the new version.
	SaveCart(ctx context.Context, cart domain.Cart) (domain.Cart, error)
}
