package auth

import (
	"context"
	"errors"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is a registered caller. ID doubles as the user's ledger account.
type User struct {
	ID    string
	Email string
	Hash  []byte
}

type UserStore interface {
	Create(ctx context.Context, id, email, password string) error
	Verify(ctx context.Context, email, password string) (User, error)
	Ping(ctx context.Context) error
}
