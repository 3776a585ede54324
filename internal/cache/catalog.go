package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/currency"
)

const DefaultTTL = 15 * time.Minute

// RedisCatalog is a read-through cache in front of a ProductCatalog.
// Only found products are cached; misses always reach the origin.
type RedisCatalog struct {
	origin  port.ProductCatalog
	client  *redis.Client
	baseTTL time.Duration
	logger  *zap.Logger
	sfg     singleflight.Group // Prevents cache stampede
}

func NewRedisCatalog(origin port.ProductCatalog, client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCatalog {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RedisCatalog{
		origin:  origin,
		client:  client,
		baseTTL: ttl,
		logger:  logger,
	}
}

type cachedProduct struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (c *RedisCatalog) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	product, err := c.get(ctx, productID)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, redis.Nil) {
		// log cache error but continue
		c.logger.Warn("catalog cache get failed", zap.Stringer("product_id", productID), zap.Error(err))
	}

	v, err, _ := c.sfg.Do(productID.String(), func() (any, error) {
		// the load is shared by all waiters; detach it from the first caller's cancellation
		ctx := context.WithoutCancel(ctx)

		product, err := c.origin.GetProduct(ctx, productID)
		if err != nil {
			return domain.Product{}, err
		}

		if err := c.set(ctx, product); err != nil {
			c.logger.Warn("catalog cache set failed", zap.Stringer("product_id", productID), zap.Error(err))
		}

		return product, nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	return v.(domain.Product), nil
}

// Invalidate drops a cached product, e.g. after a price change.
func (c *RedisCatalog) Invalidate(ctx context.Context, productID uuid.UUID) error {
	if err := c.client.Del(ctx, cacheKey(productID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *RedisCatalog) get(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	data, err := c.client.Get(ctx, cacheKey(productID)).Bytes()
	if err != nil {
		return domain.Product{}, err
	}

	var cached cachedProduct
	if err := json.Unmarshal(data, &cached); err != nil {
		return domain.Product{}, fmt.Errorf("unmarshal product failed: %w", err)
	}

	cur, err := currency.ParseISO(cached.Currency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", cached.Currency, err)
	}

	return domain.Product{
		ID:    cached.ID,
		Name:  cached.Name,
		Price: domain.Money{Amount: cached.Amount, Currency: cur},
	}, nil
}

func (c *RedisCatalog) set(ctx context.Context, product domain.Product) error {
	data, err := json.Marshal(cachedProduct{
		ID:       product.ID,
		Name:     product.Name,
		Amount:   product.Price.Amount,
		Currency: product.Price.Currency.String(),
	})
	if err != nil {
		return fmt.Errorf("marshal product failed: %w", err)
	}

	// jitter spreads expiry of products cached at the same moment
	jitter := time.Duration(rand.IntN(5)) * time.Minute
	if err := c.client.Set(ctx, cacheKey(product.ID), data, c.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func cacheKey(productID uuid.UUID) string {
	return fmt.Sprintf("product:%s", productID)
}
