// internal/domain/cart/persistence.go
package cart

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront/internal/infrastructure/storage"
)

// DefaultStorageKey is where the item list is persisted
const DefaultStorageKey = "cart"

// Persister mirrors the item list into storage as a JSON array. Storage
// failures are logged and never reach the caller; the in-memory cart stays
// authoritative.
type Persister struct {
	storage storage.Storage
	key     string
	logger  logrus.FieldLogger
}

// NewPersister creates a persister writing under key
func NewPersister(s storage.Storage, key string, logger logrus.FieldLogger) *Persister {
	if key == "" {
		key = DefaultStorageKey
	}
	return &Persister{storage: s, key: key, logger: logger.WithField("key", key)}
}

// Load reads the persisted items. A missing or unreadable value yields an
// empty cart.
func (p *Persister) Load(ctx context.Context) State {
	raw, err := p.storage.Get(ctx, p.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			p.logger.WithError(err).Warn("Failed to read persisted cart")
		}
		return State{Items: []LineItem{}}
	}

	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		p.logger.WithError(err).Warn("Discarding malformed persisted cart")
		return State{Items: []LineItem{}}
	}

	return State{Items: sanitize(items)}
}

// Save writes the items
func (p *Persister) Save(ctx context.Context, items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return p.storage.Set(ctx, p.key, raw)
}

// Handle is a store Listener. Clearing erases the stored value, visibility
// changes are not persisted and every other action rewrites the item list.
func (p *Persister) Handle(ctx context.Context, e Event) {
	switch e.Action.(type) {
	case SetOpenAction, ToggleAction:
		return
	case ClearAction:
		if err := p.storage.Delete(ctx, p.key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			p.logger.WithError(err).Error("Failed to erase persisted cart")
		}
		return
	}

	if err := p.Save(ctx, e.Current.Items); err != nil {
		p.logger.WithError(err).WithField("action", e.Action.Kind()).Error("Failed to persist cart")
	}
}

// Open loads the cart stored under key and returns a store that persists
// every subsequent mutation
func Open(ctx context.Context, s storage.Storage, key string, rules PricingRules, logger logrus.FieldLogger) *Store {
	p := NewPersister(s, key, logger)
	store := NewStore(p.Load(ctx), rules, logger)
	store.Subscribe(p.Handle)
	return store
}

// sanitize drops lines that break the cart invariants (duplicate ids and
// non-positive quantities) and reprices the rest. A line without a stock
// bound keeps its stored quantity as the bound.
func sanitize(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.CartItemID == "" || it.Quantity <= 0 {
			continue
		}
		if _, dup := seen[it.CartItemID]; dup {
			continue
		}
		seen[it.CartItemID] = struct{}{}
		if it.MaxQuantity <= 0 {
			it.MaxQuantity = it.Quantity
		}
		it.Quantity = min(it.Quantity, it.MaxQuantity)
		out = append(out, reprice(it, it.InStock))
	}
	return out
}
