package cart

import (
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/edustore/storefront/internal/domain"
	"github.com/edustore/storefront/internal/storage"
)

// DefaultKey is the storage key a single-cart deployment persists under
const DefaultKey = "cart"

// Store owns a cart for the lifetime of a session. All mutations are
// serialized through Dispatch, and every item mutation is mirrored to
// durable storage before Dispatch returns. The in-memory state stays
// authoritative when storage misbehaves.
type Store struct {
	mu     sync.Mutex
	state  State
	kv     storage.KV
	key    string
	logger *zap.Logger
}

// NewStore creates a cart store persisting under the given storage key
func NewStore(kv storage.KV, key string, logger *zap.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		state:  State{Items: []domain.CartItem{}},
		kv:     kv,
		key:    key,
		logger: logger,
	}
}

// Load hydrates the cart from storage. A missing key or a payload that no
// longer parses degrades to an empty cart; Load never fails.
func (s *Store) Load() {
	value, err := s.kv.Get(s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Failed to read cart from storage", zap.Error(err))
		}
		return
	}

	var items []domain.CartItem
	if err := json.Unmarshal(value, &items); err != nil {
		s.logger.Warn("Discarding corrupt cart payload", zap.Error(err))
		return
	}

	s.Dispatch(LoadCart{Items: items})
}

// Dispatch applies an action and returns the resulting state. Item
// mutations are persisted synchronously, best effort; drawer visibility is
// never persisted.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a)

	if mutatesItems(a) {
		s.persistLocked()
	}

	return s.snapshotLocked()
}

// Clear empties the cart. Clearing an already-empty cart is a no-op, which
// keeps the confirmation path safe to run after a manual clear.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.state.Items) == 0 {
		return
	}

	s.state = Reduce(s.state, ClearCart{})
	s.persistLocked()
}

// State returns a copy of the current cart state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Items returns a copy of the current line items
func (s *Store) Items() []domain.CartItem {
	return s.State().Items
}

// Has reports whether an item with the given ID is in the cart
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.state.Items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// IsOpen reports the drawer visibility
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsOpen
}

// Count returns the total unit count, recomputed from the items
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Count()
}

// Subtotal returns the cart subtotal in cents, recomputed from the items
func (s *Store) Subtotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Subtotal()
}

// Total returns the amount due in cents, recomputed from the items
func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Total()
}

func (s *Store) persistLocked() {
	payload, err := json.Marshal(s.state.Items)
	if err != nil {
		s.logger.Warn("Failed to serialize cart", zap.Error(err))
		return
	}

	if err := s.kv.Set(s.key, payload); err != nil {
		s.logger.Warn("Failed to persist cart", zap.Error(err))
	}
}

func (s *Store) snapshotLocked() State {
	items := make([]domain.CartItem, len(s.state.Items))
	copy(items, s.state.Items)
	return State{Items: items, IsOpen: s.state.IsOpen}
}
