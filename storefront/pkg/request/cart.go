package request

import (
	"github.com/google/uuid"
)

type AddCartItem struct {
	MenuItemID uuid.UUID `json:"menu_item_id" validate:"required"`
}

type UpdateCartItemQuantity struct {
	Quantity int32 `json:"quantity"`
}
