package ledger

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// MemLedger holds balances and the transfer journal in memory.
type MemLedger struct {
	mu       sync.Mutex
	balances map[string]uint64
	journal  []Transfer
}

func NewMemLedger() *MemLedger {
	return &MemLedger{balances: make(map[string]uint64)}
}

func (l *MemLedger) Ping(ctx context.Context) error { return nil }

func (l *MemLedger) Balance(ctx context.Context, account string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account], nil
}

func (l *MemLedger) Deposit(ctx context.Context, account string, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
	return nil
}

func (l *MemLedger) Transfer(ctx context.Context, from, to string, amount uint64) (Transfer, error) {
	if amount == 0 {
		return Transfer{}, ErrZeroAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[from] < amount {
		return Transfer{}, ErrInsufficientFunds
	}
	l.balances[from] -= amount
	l.balances[to] += amount

	tr := Transfer{
		ID:        newTransferID(),
		From:      from,
		To:        to,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	l.journal = append(l.journal, tr)
	return tr, nil
}

// Journal returns a copy of the full transfer history, oldest first.
func (l *MemLedger) Journal() []Transfer {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Transfer, len(l.journal))
	copy(out, l.journal)
	return out
}

func newTransferID() string {
	return "t_" + ulid.MustNew(ulid.Now(), rand.Reader).String()
}
