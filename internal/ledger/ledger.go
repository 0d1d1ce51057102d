package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrZeroAmount        = errors.New("amount must be positive")
)

// Transfer is an immutable journal entry. Once written it is never updated or
// deleted; reversing a transfer means writing a new one the other way.
type Transfer struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    uint64    `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Ledger tracks account balances and moves value between them. Accounts open
// implicitly on first deposit; Balance of an unknown account is 0.
type Ledger interface {
	Balance(ctx context.Context, account string) (uint64, error)
	Deposit(ctx context.Context, account string, amount uint64) error
	Transfer(ctx context.Context, from, to string, amount uint64) (Transfer, error)
	Ping(ctx context.Context) error
}
