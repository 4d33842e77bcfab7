package request

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sunnyside/storefront/cart/pkg/model"
	inValidate "github.com/sunnyside/storefront/internal/validate"
)

func TestValidateCartItem(t *testing.T) {
	validate := inValidate.New()

	tests := []struct {
		name    string
		reqBody CartItem
		wantErr bool
	}{
		{
			name: "valid cart item",
			reqBody: CartItem{
				UserID:     uuid.New(),
				MenuItemID: uuid.New(),
				Name:       "Pancake Stack",
				Price:      decimal.NewFromInt(50),
				Quantity:   1,
			},
			wantErr: false,
		},
		{
			name: "zero price is allowed",
			reqBody: CartItem{
				UserID:     uuid.New(),
				MenuItemID: uuid.New(),
				Name:       "Water",
				Price:      decimal.Zero,
				Quantity:   1,
			},
			wantErr: false,
		},
		{
			name: "negative price rejected",
			reqBody: CartItem{
				UserID:     uuid.New(),
				MenuItemID: uuid.New(),
				Name:       "Pancake Stack",
				Price:      decimal.NewFromInt(-1),
				Quantity:   1,
			},
			wantErr: true,
		},
		{
			name: "zero quantity rejected",
			reqBody: CartItem{
				UserID:     uuid.New(),
				MenuItemID: uuid.New(),
				Name:       "Pancake Stack",
				Price:      decimal.NewFromInt(50),
				Quantity:   0,
			},
			wantErr: true,
		},
		{
			name: "missing user rejected",
			reqBody: CartItem{
				MenuItemID: uuid.New(),
				Name:       "Pancake Stack",
				Price:      decimal.NewFromInt(50),
				Quantity:   1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.reqBody)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateOrderAllowsZeroTotal(t *testing.T) {
	validate := inValidate.New()

	reqBody := Order{
		UserID: uuid.New(),
		Items: []model.OrderItem{
			{
				MenuItemID: uuid.New(),
				Name:       "Water",
				Price:      decimal.Zero,
				Quantity:   1,
			},
		},
		TotalAmount: decimal.Zero,
		Status:      model.OrderStatusPending,
	}

	assert.NoError(t, validate.Struct(reqBody))
}
