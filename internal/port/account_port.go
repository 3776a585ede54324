package port

import (
	"context"

	"github.com/nikolayk812/cart-checkout/internal/domain"
)

type AccountRepository interface {
	GetAccount(ctx context.Context, ownerID string) (domain.Account, error)
	// SaveAccount persists wallet and address if account.Version is still current.
	SaveAccount(ctx context.Context, account domain.Account) (domain.Account, error)
}
