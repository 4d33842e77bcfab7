package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem is a catalog entry. The cart never owns menu items; line
// items keep a back-reference through MenuItemID only.
type MenuItem struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// LineItem is one row of a user's cart: a quantity of a single menu
// item. The store assigns ID on creation.
type LineItem struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int32           `json:"quantity"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

// OrderItem is a by-value snapshot of a line item at checkout time,
// detached from the live cart row.
type OrderItem struct {
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int32           `json:"quantity"`
}

// Order is immutable once created.
type Order struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Snapshot is the engine's derived view of the cart. Count and
// TotalAmount are folds over Items and are recomputed on every read.
type Snapshot struct {
	Items       []LineItem      `json:"items"`
	Count       int32           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	IsLoading   bool            `json:"is_loading"`
	Error       string          `json:"error,omitempty"`
}

func (i LineItem) OrderItem() OrderItem {
	return OrderItem{
		MenuItemID: i.MenuItemID,
		Name:       i.Name,
		Price:      i.Price,
		Quantity:   i.Quantity,
	}
}

// Aggregate folds line items into the cart count and total amount.
func Aggregate(items []LineItem) (count int32, total decimal.Decimal) {
	total = decimal.Zero
	for _, item := range items {
		count += item.Quantity
		total = total.Add(item.Price.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	return count, total
}
