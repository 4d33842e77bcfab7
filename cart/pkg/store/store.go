package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/sunnyside/storefront/cart/pkg/model"
)

// Store is the remote cart store consumed by the cart engine: a REST
// resource collection of line items, orders and the menu catalog. The
// store is the source of truth across sessions; the engine treats its
// own copy as a cache that can go stale between a write and the
// confirmatory read.
type Store interface {
	// FetchLineItems returns the ordered line items of one user, empty
	// if none.
	FetchLineItems(c context.Context, userId uuid.UUID) ([]model.LineItem, error)
	// FindLineItem returns the user's line item referencing the menu
	// item, or nil when absent.
	FindLineItem(c context.Context, userId, menuItemId uuid.UUID) (*model.LineItem, error)
	// CreateLineItem stores a new line item; the store assigns the id.
	CreateLineItem(c context.Context, item model.LineItem) (model.LineItem, error)
	// UpdateLineItemQuantity partially updates one line item.
	UpdateLineItemQuantity(c context.Context, id uuid.UUID, quantity int32) error
	// DeleteLineItem removes a line item. Deleting a missing id is not
	// an error.
	DeleteLineItem(c context.Context, id uuid.UUID) error
	// CreateOrder stores an order record; the store assigns the id.
	CreateOrder(c context.Context, order model.Order) (model.Order, error)
	FetchMenuItems(c context.Context) ([]model.MenuItem, error)
	FindMenuItem(c context.Context, id uuid.UUID) (model.MenuItem, error)
}
