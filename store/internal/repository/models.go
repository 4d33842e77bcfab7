package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CartItem struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	MenuItemID uuid.UUID
	Name       string
	Price      pgtype.Numeric
	Quantity   int32
	CreatedAt  pgtype.Timestamptz
	UpdatedAt  pgtype.Timestamptz
}

type MenuItem struct {
	ID          uuid.UUID
	Name        string
	Description pgtype.Text
	Category    pgtype.Text
	ImageUrl    pgtype.Text
	Price       pgtype.Numeric
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type Order struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Items       []byte
	TotalAmount pgtype.Numeric
	Status      string
	CreatedAt   pgtype.Timestamptz
}
