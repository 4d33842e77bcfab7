package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertOrder = `
INSERT INTO orders (user_id, items, total_amount, status)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, items, total_amount, status, created_at
`

type InsertOrderParams struct {
	UserID      uuid.UUID
	Items       []byte
	TotalAmount pgtype.Numeric
	Status      string
}

func (q *Queries) InsertOrder(c context.Context, arg InsertOrderParams) (Order, error) {
	row := q.db.QueryRow(c, insertOrder, arg.UserID, arg.Items, arg.TotalAmount, arg.Status)
	o := Order{}
	err := row.Scan(&o.ID, &o.UserID, &o.Items, &o.TotalAmount, &o.Status, &o.CreatedAt)
	return o, err
}

const findOrdersByUserId = `
SELECT id, user_id, items, total_amount, status, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`

func (q *Queries) FindOrdersByUserId(c context.Context, userId uuid.UUID) ([]Order, error) {
	rows, err := q.db.Query(c, findOrdersByUserId, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []Order{}
	for rows.Next() {
		o := Order{}
		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.Items,
			&o.TotalAmount,
			&o.Status,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
