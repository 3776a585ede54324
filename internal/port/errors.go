package port

import (
	"errors"
	"fmt"

	"github.com/nikolayk812/cart-checkout/internal/domain"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrCartExists      = fmt.Errorf("cart already exists: %w", domain.ErrConflict)
	ErrProductNotFound = errors.New("product not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrVersionConflict = fmt.Errorf("version conflict: %w", domain.ErrConflict)
)
