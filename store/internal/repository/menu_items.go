package repository

import (
	"context"

	"github.com/google/uuid"
)

const findMenuItems = `
SELECT id, name, description, category, image_url, price, created_at, updated_at
FROM menu_items
ORDER BY category, name
`

func (q *Queries) FindMenuItems(c context.Context) ([]MenuItem, error) {
	rows, err := q.db.Query(c, findMenuItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []MenuItem{}
	for rows.Next() {
		i := MenuItem{}
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Description,
			&i.Category,
			&i.ImageUrl,
			&i.Price,
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

const findMenuItemById = `
SELECT id, name, description, category, image_url, price, created_at, updated_at
FROM menu_items
WHERE id = $1
`

func (q *Queries) FindMenuItemById(c context.Context, id uuid.UUID) (MenuItem, error) {
	row := q.db.QueryRow(c, findMenuItemById, id)
	i := MenuItem{}
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Category,
		&i.ImageUrl,
		&i.Price,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
