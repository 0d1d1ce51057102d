package market

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"MarketLedger/internal/ledger"
)

// Marketplace is the state-transition core: every public operation is a single
// run-to-completion call against the catalog store, with the ledger as the
// only external effect.
type Marketplace struct {
	store   Store
	ledger  ledger.Ledger
	log     *zap.Logger
	metrics *Metrics
}

func NewMarketplace(store Store, l ledger.Ledger, log *zap.Logger, metrics *Metrics) *Marketplace {
	if log == nil {
		log = zap.NewNop()
	}
	return &Marketplace{store: store, ledger: l, log: log, metrics: metrics}
}

// List upserts a catalog entry owned by caller. The price must parse as an
// unsigned integer up front so a purchase can never trip over a stored price
// it cannot parse. Relisting an id held by someone else is rejected.
func (m *Marketplace) List(ctx context.Context, caller string, req ListingRequest) (Item, error) {
	if _, err := ParsePrice(req.Price); err != nil {
		return Item{}, ErrMalformedPrice
	}

	prev, ok, err := m.store.Get(ctx, req.ID)
	if err != nil {
		return Item{}, err
	}
	if ok && prev.Owner != caller {
		return Item{}, ErrNotOwner
	}

	it := NewItem(req, caller)
	if err := m.store.Put(ctx, it); err != nil {
		return Item{}, err
	}

	if m.metrics != nil {
		m.metrics.Listings.Inc()
	}
	m.log.Info("product listed",
		zap.String("id", it.ID),
		zap.String("owner", it.Owner),
		zap.String("price", it.Price),
		zap.Bool("relist", ok),
	)
	return it, nil
}

func (m *Marketplace) Get(ctx context.Context, id string) (Item, bool, error) {
	return m.store.Get(ctx, id)
}

func (m *Marketplace) Products(ctx context.Context) ([]Item, error) {
	return m.store.Values(ctx)
}

// Buy settles a purchase: exact-payment check, then the sold counter is
// persisted before any value moves. Validation happens strictly before the
// store write and the store write strictly before the transfer, so every
// rejected call leaves both catalog and ledger untouched.
func (m *Marketplace) Buy(ctx context.Context, buyer, id string, attached uint64) error {
	it, ok, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		m.metrics.purchaseFailure(reasonNotFound)
		return ErrNotFound
	}

	price, err := ParsePrice(it.Price)
	if err != nil {
		// Listing validation makes this unreachable unless storage was
		// written outside this service.
		m.metrics.purchaseFailure(reasonBadPrice)
		m.log.Error("stored price failed to parse",
			zap.String("id", it.ID),
			zap.String("price", it.Price),
		)
		return ErrMalformedPrice
	}

	if attached != price {
		m.metrics.purchaseFailure(reasonPaymentMismatch)
		return ErrPaymentMismatch
	}

	if attached > 0 {
		balance, err := m.ledger.Balance(ctx, buyer)
		if err != nil {
			return err
		}
		if balance < attached {
			m.metrics.purchaseFailure(reasonNoFunds)
			return ErrInsufficientFunds
		}
	}

	if err := m.store.Put(ctx, it.RecordSale()); err != nil {
		return err
	}

	// A free item settles with no ledger movement; the transfer of a zero
	// amount is a no-op by definition, not an error.
	var transferID string
	if attached > 0 {
		tr, err := m.ledger.Transfer(ctx, buyer, it.Owner, attached)
		if err != nil {
			// The sale is already on record. The counter is not rolled
			// back; reconciliation against the journal is a separate
			// concern.
			m.metrics.purchaseFailure(reasonTransferFailed)
			m.log.Error("transfer failed after sale was recorded, reconciliation required",
				zap.String("id", it.ID),
				zap.String("buyer", buyer),
				zap.String("owner", it.Owner),
				zap.Uint64("amount", attached),
				zap.Error(err),
			)
			if errors.Is(err, ledger.ErrInsufficientFunds) {
				return ErrInsufficientFunds
			}
			return ErrTransferFailed
		}
		transferID = tr.ID
	}

	if m.metrics != nil {
		m.metrics.Purchases.Inc()
	}
	m.log.Info("product sold",
		zap.String("id", it.ID),
		zap.String("buyer", buyer),
		zap.String("owner", it.Owner),
		zap.Uint64("amount", attached),
		zap.String("transfer_id", transferID),
	)
	return nil
}
