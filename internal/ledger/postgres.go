package ledger

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresLedger keeps balances in the accounts table and the journal in the
// transfers table. Every Transfer runs in one transaction so the debit, the
// credit, and the journal row land together or not at all.
type PostgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return l.db.PingContext(ctx)
}

func (l *PostgresLedger) Balance(ctx context.Context, account string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var balance uint64
	err := l.db.QueryRowContext(ctx, `
		SELECT balance FROM accounts WHERE id = $1
	`, account).Scan(&balance)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (l *PostgresLedger) Deposit(ctx context.Context, account string, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO accounts (id, balance)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance
	`, account, amount)
	return err
}

func (l *PostgresLedger) Transfer(ctx context.Context, from, to string, amount uint64) (Transfer, error) {
	if amount == 0 {
		return Transfer{}, ErrZeroAmount
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := l.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return Transfer{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var balance uint64
	err = tx.QueryRowContext(ctx, `
		SELECT balance FROM accounts WHERE id = $1 FOR UPDATE
	`, from).Scan(&balance)
	if err == sql.ErrNoRows || (err == nil && balance < amount) {
		return Transfer{}, ErrInsufficientFunds
	}
	if err != nil {
		return Transfer{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE accounts SET balance = balance - $2 WHERE id = $1
	`, from, amount); err != nil {
		return Transfer{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (id, balance)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance
	`, to, amount); err != nil {
		return Transfer{}, err
	}

	tr := Transfer{
		ID:        newTransferID(),
		From:      from,
		To:        to,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO transfers (id, from_account, to_account, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, tr.ID, tr.From, tr.To, tr.Amount, tr.CreatedAt); err != nil {
		return Transfer{}, err
	}

	if err := tx.Commit(); err != nil {
		return Transfer{}, err
	}
	return tr, nil
}
