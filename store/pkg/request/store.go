package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sunnyside/storefront/cart/pkg/model"
)

type CartItem struct {
	UserID     uuid.UUID       `json:"user_id"      validate:"required"`
	MenuItemID uuid.UUID       `json:"menu_item_id" validate:"required"`
	Name       string          `json:"name"         validate:"required"`
	Price      decimal.Decimal `json:"price"        validate:"gte=0"`
	Quantity   int32           `json:"quantity"     validate:"required,gte=1"`
}

type UpdateCartItemQuantity struct {
	Quantity int32 `json:"quantity" validate:"gte=0"`
}

type Order struct {
	UserID      uuid.UUID         `json:"user_id"      validate:"required"`
	Items       []model.OrderItem `json:"items"        validate:"required,min=1,dive"`
	TotalAmount decimal.Decimal   `json:"total_amount" validate:"gte=0"`
	Status      model.OrderStatus `json:"status"       validate:"required,oneof=pending completed"`
}
