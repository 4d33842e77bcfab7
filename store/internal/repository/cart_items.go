package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const findCartItemsByUserId = `
SELECT id, user_id, menu_item_id, name, price, quantity, created_at, updated_at
FROM cart_items
WHERE user_id = $1
ORDER BY created_at
`

func (q *Queries) FindCartItemsByUserId(
	c context.Context,
	userId uuid.UUID,
) ([]CartItem, error) {
	rows, err := q.db.Query(c, findCartItemsByUserId, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CartItem{}
	for rows.Next() {
		i := CartItem{}
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.MenuItemID,
			&i.Name,
			&i.Price,
			&i.Quantity,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findCartItemsByUserAndMenuItem = `
SELECT id, user_id, menu_item_id, name, price, quantity, created_at, updated_at
FROM cart_items
WHERE user_id = $1 AND menu_item_id = $2
ORDER BY created_at
`

type FindCartItemsByUserAndMenuItemParams struct {
	UserID     uuid.UUID
	MenuItemID uuid.UUID
}

func (q *Queries) FindCartItemsByUserAndMenuItem(
	c context.Context,
	arg FindCartItemsByUserAndMenuItemParams,
) ([]CartItem, error) {
	rows, err := q.db.Query(c, findCartItemsByUserAndMenuItem, arg.UserID, arg.MenuItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CartItem{}
	for rows.Next() {
		i := CartItem{}
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.MenuItemID,
			&i.Name,
			&i.Price,
			&i.Quantity,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertCartItem = `
INSERT INTO cart_items (user_id, menu_item_id, name, price, quantity)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, menu_item_id, name, price, quantity, created_at, updated_at
`

type InsertCartItemParams struct {
	UserID     uuid.UUID
	MenuItemID uuid.UUID
	Name       string
	Price      pgtype.Numeric
	Quantity   int32
}

func (q *Queries) InsertCartItem(c context.Context, arg InsertCartItemParams) (CartItem, error) {
	row := q.db.QueryRow(
		c,
		insertCartItem,
		arg.UserID,
		arg.MenuItemID,
		arg.Name,
		arg.Price,
		arg.Quantity,
	)
	i := CartItem{}
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.MenuItemID,
		&i.Name,
		&i.Price,
		&i.Quantity,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateCartItemQuantity = `
UPDATE cart_items
SET quantity = $2, updated_at = now()
WHERE id = $1
RETURNING id, user_id, menu_item_id, name, price, quantity, created_at, updated_at
`

type UpdateCartItemQuantityParams struct {
	ID       uuid.UUID
	Quantity int32
}

func (q *Queries) UpdateCartItemQuantity(
	c context.Context,
	arg UpdateCartItemQuantityParams,
) (CartItem, error) {
	row := q.db.QueryRow(c, updateCartItemQuantity, arg.ID, arg.Quantity)
	i := CartItem{}
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.MenuItemID,
		&i.Name,
		&i.Price,
		&i.Quantity,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteCartItem = `
DELETE FROM cart_items
WHERE id = $1
RETURNING id, user_id, menu_item_id, name, price, quantity, created_at, updated_at
`

func (q *Queries) DeleteCartItem(c context.Context, id uuid.UUID) (CartItem, error) {
	row := q.db.QueryRow(c, deleteCartItem, id)
	i := CartItem{}
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.MenuItemID,
		&i.Name,
		&i.Price,
		&i.Quantity,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
