// internal/domain/cart/store.go
package cart

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront/internal/domain/catalog"
)

// Event is delivered to subscribers after every dispatched action
type Event struct {
	Action   Action
	Previous State
	Current  State
}

// Listener receives events synchronously, in dispatch order. It must not
// dispatch to the same store.
type Listener func(ctx context.Context, e Event)

type subscription struct {
	id int
	fn Listener
}

// Store owns one cart. Mutations are serialised; each one is applied with
// Reduce and then announced to subscribers before the next mutation starts.
type Store struct {
	mu        sync.Mutex
	state     State
	rules     PricingRules
	listeners []subscription
	nextID    int
	logger    logrus.FieldLogger
}

// NewStore creates a store holding initial
func NewStore(initial State, rules PricingRules, logger logrus.FieldLogger) *Store {
	if initial.Items == nil {
		initial.Items = []LineItem{}
	}
	return &Store{
		state:  initial.Clone(),
		rules:  rules,
		logger: logger,
	}
}

// Subscribe registers fn and returns a function that removes it
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch applies action and returns the new state
func (s *Store) Dispatch(ctx context.Context, action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	s.state = Reduce(prev, action, s.rules)

	s.logger.WithFields(logrus.Fields{
		"action": action.Kind(),
		"items":  len(s.state.Items),
	}).Debug("Cart updated")

	event := Event{Action: action, Previous: prev.Clone(), Current: s.state.Clone()}
	for _, l := range s.listeners {
		l.fn(ctx, event)
	}
	return s.state.Clone()
}

// AddToCart adds quantity units of a product variant
func (s *Store) AddToCart(ctx context.Context, product catalog.Product, size, color string, quantity int) State {
	return s.Dispatch(ctx, AddAction{Product: product, Size: size, Color: color, Quantity: quantity})
}

// UpdateQuantity sets a line's quantity; <= 0 removes it
func (s *Store) UpdateQuantity(ctx context.Context, cartItemID string, quantity int) State {
	return s.Dispatch(ctx, UpdateAction{CartItemID: cartItemID, Quantity: quantity})
}

// RemoveFromCart drops a line if present
func (s *Store) RemoveFromCart(ctx context.Context, cartItemID string) State {
	return s.Dispatch(ctx, RemoveAction{CartItemID: cartItemID})
}

// ClearCart empties the cart
func (s *Store) ClearCart(ctx context.Context) State {
	return s.Dispatch(ctx, ClearAction{})
}

func (s *Store) Open(ctx context.Context) State {
	return s.Dispatch(ctx, SetOpenAction{Open: true})
}

func (s *Store) Close(ctx context.Context) State {
	return s.Dispatch(ctx, SetOpenAction{Open: false})
}

func (s *Store) Toggle(ctx context.Context) State {
	return s.Dispatch(ctx, ToggleAction{})
}

// State returns a copy of the current state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Summary totals the current items
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeSummary(s.state.Items, s.rules)
}

// Rules returns the pricing rules the store was built with
func (s *Store) Rules() PricingRules {
	return s.rules
}
