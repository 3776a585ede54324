// Command cartctl drives the cart service against a Postgres database,
// optionally fronting the product catalog with Redis.
//
//	cartctl migrate
//	cartctl -owner alice@example.com add <product-id> <quantity>
//	cartctl -owner alice@example.com checkout
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-checkout/internal/cache"
	"github.com/nikolayk812/cart-checkout/internal/config"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/migrations"
	"github.com/nikolayk812/cart-checkout/internal/port"
	"github.com/nikolayk812/cart-checkout/internal/repository"
	"github.com/nikolayk812/cart-checkout/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type command struct {
	name      string
	ownerID   string
	productID uuid.UUID
	quantity  int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		var domainErr *domain.Error
		if errors.As(err, &domainErr) {
			_ = json.NewEncoder(os.Stderr).Encode(errorView{
				Kind:    domainErr.Kind.String(),
				Class:   domainErr.Kind.Class().String(),
				Message: domainErr.Message,
			})
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cmd, err := parseCommand(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("newLogger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cmd.name == "migrate" {
		if err := migrations.Up(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migrations.Up: %w", err)
		}
		logger.Info("migrations applied")
		return nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	var catalog port.ProductCatalog = repository.NewProductCatalog(pool)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()

		catalog = cache.NewRedisCatalog(catalog, client, cfg.CatalogCacheTTL, logger)
	}

	svc := service.New(
		repository.NewCart(pool),
		catalog,
		repository.NewTransactor(pool),
		service.WithLogger(logger),
	)

	return execute(ctx, svc, cmd, out)
}

func execute(ctx context.Context, svc *service.CartService, cmd command, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	switch cmd.name {
	case "get":
		cart, err := svc.GetCart(ctx, cmd.ownerID)
		if err != nil {
			return err
		}
		return enc.Encode(newCartView(cart))
	case "add":
		cart, err := svc.AddItem(ctx, cmd.ownerID, cmd.productID, cmd.quantity)
		if err != nil {
			return err
		}
		return enc.Encode(newCartView(cart))
	case "update":
		cart, err := svc.UpdateItemQuantity(ctx, cmd.ownerID, cmd.productID, cmd.quantity)
		if err != nil {
			return err
		}
		return enc.Encode(newCartView(cart))
	case "remove":
		return svc.RemoveItem(ctx, cmd.ownerID, cmd.productID)
	case "checkout":
		result, err := svc.Checkout(ctx, cmd.ownerID)
		if err != nil {
			return err
		}
		return enc.Encode(checkoutView{
			Owner:   result.OwnerID,
			Total:   result.Total.String(),
			Balance: result.Balance.String(),
		})
	default:
		return fmt.Errorf("unknown command %q", cmd.name)
	}
}

func parseCommand(args []string) (command, error) {
	fs := flag.NewFlagSet("cartctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	ownerID := fs.String("owner", "", "cart owner ID")

	if err := fs.Parse(args); err != nil {
		return command{}, err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return command{}, errors.New("usage: cartctl [-owner ID] migrate|get|add|update|remove|checkout")
	}

	cmd := command{name: rest[0], ownerID: *ownerID}
	rest = rest[1:]

	wantArgs := map[string]int{
		"migrate":  0,
		"get":      0,
		"checkout": 0,
		"remove":   1,
		"add":      2,
		"update":   2,
	}

	n, ok := wantArgs[cmd.name]
	if !ok {
		return command{}, fmt.Errorf("unknown command %q", cmd.name)
	}
	if len(rest) != n {
		return command{}, fmt.Errorf("%s: expected %d arguments, got %d", cmd.name, n, len(rest))
	}
	if cmd.name != "migrate" && cmd.ownerID == "" {
		return command{}, fmt.Errorf("%s: -owner is required", cmd.name)
	}

	if n >= 1 {
		productID, err := uuid.Parse(rest[0])
		if err != nil {
			return command{}, fmt.Errorf("product ID: %w", err)
		}
		cmd.productID = productID
	}

	if n == 2 {
		quantity, err := strconv.Atoi(rest[1])
		if err != nil {
			return command{}, fmt.Errorf("quantity: %w", err)
		}
		cmd.quantity = quantity
	}

	return cmd, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}

type itemView struct {
	ProductID string `json:"product_id"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type cartView struct {
	Owner   string     `json:"owner"`
	Version int64      `json:"version"`
	Items   []itemView `json:"items"`
}

type checkoutView struct {
	Owner   string `json:"owner"`
	Total   string `json:"total"`
	Balance string `json:"balance"`
}

type errorView struct {
	Kind    string `json:"kind"`
	Class   string `json:"class"`
	Message string `json:"message"`
}

func newCartView(cart domain.Cart) cartView {
	items := make([]itemView, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, itemView{
			ProductID: item.ProductID.String(),
			Price:     item.Price.String(),
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal().String(),
		})
	}

	return cartView{
		Owner:   cart.OwnerID,
		Version: cart.Version,
		Items:   items,
	}
}
