package market

import "context"

// Store is the durable catalog mapping, keyed by item id. Put is an
// unconditional upsert; ownership rules live above the store.
type Store interface {
	Put(ctx context.Context, it Item) error
	Get(ctx context.Context, id string) (Item, bool, error)
	Values(ctx context.Context) ([]Item, error)
	Ping(ctx context.Context) error
}
