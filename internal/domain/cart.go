package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

// Cart is the per-owner list of line items pending purchase.
// Items keep insertion order and hold at most one entry per product.
// Helpers never mutate the receiver: they return a new Cart to be saved.
type Cart struct {
	OwnerID string
	Items   []CartItem

	// Version is bumped by the store on every save and guards against lost updates.
	Version int64
}

type CartItem struct {
	ProductID uuid.UUID
	// Price is the unit cost captured from the catalog when the item was added.
	Price    Money
	Quantity int

	CreatedAt time.Time
}

func (i CartItem) Subtotal() Money {
	return i.Price.Mul(i.Quantity)
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) Contains(productID uuid.UUID) bool {
	return c.indexOf(productID) >= 0
}

func (c Cart) WithItem(item CartItem) (Cart, error) {
	if c.Contains(item.ProductID) {
		return Cart{}, ErrDuplicateItem
	}

	items := make([]CartItem, 0, len(c.Items)+1)
	items = append(items, c.Items...)
	items = append(items, item)

	return c.withItems(items), nil
}

func (c Cart) WithQuantity(productID uuid.UUID, quantity int) (Cart, error) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return Cart{}, ErrItemNotInCart
	}

	items := slices.Clone(c.Items)
	items[idx].Quantity = quantity

	return c.withItems(items), nil
}

func (c Cart) WithoutItem(productID uuid.UUID) (Cart, error) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return Cart{}, ErrItemNotInCart
	}

	items := make([]CartItem, 0, len(c.Items)-1)
	items = append(items, c.Items[:idx]...)
	items = append(items, c.Items[idx+1:]...)

	return c.withItems(items), nil
}

// Emptied is the post-checkout cart: same owner and version, no items.
func (c Cart) Emptied() Cart {
	return c.withItems([]CartItem{})
}

// Total sums unit price multiplied by quantity over all items.
// An empty cart totals zero in the given currency.
func (c Cart) Total(cur currency.Unit) (Money, error) {
	total := Zero(cur)

	for _, item := range c.Items {
		var err error
		total, err = total.Add(item.Subtotal())
		if err != nil {
			return Money{}, fmt.Errorf("item[%s]: %w", item.ProductID, err)
		}
	}

	return total, nil
}

func (c Cart) indexOf(productID uuid.UUID) int {
	return slices.IndexFunc(c.Items, func(item CartItem) bool {
		return item.ProductID == productID
	})
}

func (c Cart) withItems(items []CartItem) Cart {
	return Cart{
		OwnerID: c.OwnerID,
		Items:   items,
		Version: c.Version,
	}
}
