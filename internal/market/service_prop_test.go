package market_test

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"pgregory.net/rapid"

	"MarketLedger/internal/ledger"
	"MarketLedger/internal/market"
)

// A buy settles exactly when the attached payment equals the listed price;
// any other amount leaves catalog and ledger untouched.
func TestBuy_ExactnessProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		price := rapid.Uint64Range(0, 1_000_000).Draw(t, "price")
		attached := rapid.Uint64Range(0, 2_000_000).Draw(t, "attached")

		ctx := context.Background()
		store := market.NewMemStore()
		l := ledger.NewMemLedger()
		m := market.NewMarketplace(store, l, zap.NewNop(), nil)

		if _, err := m.List(ctx, alice, listing("a", fmt.Sprintf("%d", price))); err != nil {
			t.Fatalf("list: %v", err)
		}
		if err := l.Deposit(ctx, bob, 2_000_000); err != nil {
			t.Fatalf("deposit: %v", err)
		}

		err := m.Buy(ctx, bob, "a", attached)

		it, _, _ := m.Get(ctx, "a")
		if attached == price {
			if err != nil {
				t.Fatalf("exact payment rejected: %v", err)
			}
			if it.Sold != 1 {
				t.Fatalf("sold = %d after exact buy", it.Sold)
			}
			if got, _ := l.Balance(ctx, alice); got != price {
				t.Fatalf("owner balance = %d, want %d", got, price)
			}
			if price == 0 && len(l.Journal()) != 0 {
				t.Fatalf("free sale wrote a journal entry")
			}
		} else {
			if err != market.ErrPaymentMismatch {
				t.Fatalf("err = %v, want ErrPaymentMismatch", err)
			}
			if it.Sold != 0 {
				t.Fatalf("sold = %d after rejected buy", it.Sold)
			}
			if len(l.Journal()) != 0 {
				t.Fatalf("funds moved on rejected buy")
			}
		}
	})
}

// Sold equals the number of successful buys, regardless of how failures are
// interleaved.
func TestBuy_SoldMonotonicityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		const price = 10

		ctx := context.Background()
		store := market.NewMemStore()
		l := ledger.NewMemLedger()
		m := market.NewMarketplace(store, l, zap.NewNop(), nil)

		if _, err := m.List(ctx, alice, listing("a", "10")); err != nil {
			t.Fatalf("list: %v", err)
		}
		if err := l.Deposit(ctx, bob, 1_000_000); err != nil {
			t.Fatalf("deposit: %v", err)
		}

		attempts := rapid.SliceOfN(rapid.Uint64Range(0, 20), 1, 50).Draw(t, "attempts")

		var want uint32
		for _, attached := range attempts {
			err := m.Buy(ctx, bob, "a", attached)
			if attached == price {
				if err != nil {
					t.Fatalf("exact buy failed: %v", err)
				}
				want++
			} else if err != market.ErrPaymentMismatch {
				t.Fatalf("err = %v, want ErrPaymentMismatch", err)
			}
		}

		it, _, _ := m.Get(ctx, "a")
		if it.Sold != want {
			t.Fatalf("sold = %d, want %d", it.Sold, want)
		}
	})
}
