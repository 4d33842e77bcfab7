package repository

import (
	"encoding/json"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/sunnyside/storefront/cart/pkg/model"
)

func (i CartItem) LineItem() model.LineItem {
	return model.LineItem{
		ID:         i.ID,
		UserID:     i.UserID,
		MenuItemID: i.MenuItemID,
		Name:       i.Name,
		Price:      decimal.NewFromBigInt(i.Price.Int, i.Price.Exp),
		Quantity:   i.Quantity,
		CreatedAt:  i.CreatedAt.Time,
		UpdatedAt:  i.UpdatedAt.Time,
	}
}

func (m MenuItem) MenuItem() model.MenuItem {
	return model.MenuItem{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description.String,
		Category:    m.Category.String,
		ImageURL:    m.ImageUrl.String,
		Price:       decimal.NewFromBigInt(m.Price.Int, m.Price.Exp),
	}
}

func (o Order) Order() (model.Order, error) {
	items := []model.OrderItem{}
	err := json.Unmarshal(o.Items, &items)
	if err != nil {
		return model.Order{}, err
	}
	return model.Order{
		ID:          o.ID,
		UserID:      o.UserID,
		Items:       items,
		TotalAmount: decimal.NewFromBigInt(o.TotalAmount.Int, o.TotalAmount.Exp),
		Status:      model.OrderStatus(o.Status),
		CreatedAt:   o.CreatedAt.Time,
	}, nil
}

// Numeric converts a decimal amount into pgx's numeric representation.
func Numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		Int:              d.Coefficient(),
		NaN:              false,
		Valid:            true,
	}
}
