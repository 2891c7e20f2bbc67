package db

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB / *sql.Tx the query layer depends on.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Queries exposes the typed query methods over a database or transaction.
type Queries struct {
	db DBTX
}

// New creates a Queries bound to the given database handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type CreateUserParams struct {
	Email   string
	IsStaff bool
}

const createUser = `
INSERT INTO users (email, is_staff) VALUES (?, ?)
RETURNING id, email, is_staff, created_at
`

func (q *Queries) CreateUser(ctx context.Context, arg *CreateUserParams) (*User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, createUser, arg.Email, arg.IsStaff).
		Scan(&u.ID, &u.Email, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

type CreateUserTokenParams struct {
	Key    string
	UserID int64
}

const createUserToken = `
INSERT INTO user_tokens (key, user_id) VALUES (?, ?)
RETURNING key, user_id, created_at
`

func (q *Queries) CreateUserToken(ctx context.Context, arg *CreateUserTokenParams) (*UserToken, error) {
	var t UserToken
	err := q.db.QueryRowContext(ctx, createUserToken, arg.Key, arg.UserID).
		Scan(&t.Key, &t.UserID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const getUserByToken = `
SELECT u.id, u.email, u.is_staff, u.created_at
FROM users u
JOIN user_tokens t ON t.user_id = u.id
WHERE t.key = ?
`

func (q *Queries) GetUserByToken(ctx context.Context, key string) (*User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, getUserByToken, key).
		Scan(&u.ID, &u.Email, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
