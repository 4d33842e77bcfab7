package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Password  string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

const findUserByEmail = `
SELECT id, username, email, password, created_at, updated_at
FROM users
WHERE email = $1
`

func (q *Queries) FindUserByEmail(c context.Context, email string) (User, error) {
	row := q.db.QueryRow(c, findUserByEmail, email)
	u := User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const insertUser = `
INSERT INTO users (username, email, password)
VALUES ($1, $2, $3)
RETURNING id, username, email, password, created_at, updated_at
`

type InsertUserParams struct {
	Username string
	Email    string
	Password string
}

func (q *Queries) InsertUser(c context.Context, arg InsertUserParams) (User, error) {
	row := q.db.QueryRow(c, insertUser, arg.Username, arg.Email, arg.Password)
	u := User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
