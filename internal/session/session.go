package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edustore/storefront/internal/cart"
	"github.com/edustore/storefront/internal/checkout"
	"github.com/edustore/storefront/internal/gateway"
	"github.com/edustore/storefront/internal/storage"
)

// Session binds one visitor to a cart store and a checkout orchestrator.
// The cart survives across visits through durable storage keyed by the
// session ID; the checkout session is ephemeral.
type Session struct {
	ID       string
	Cart     *cart.Store
	Checkout *checkout.Orchestrator
}

// Manager creates and caches sessions for the server's lifetime
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	kv           storage.KV
	provider     *gateway.Client
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewManager creates a session manager over shared storage and provider
func NewManager(kv storage.KV, provider *gateway.Client, pollInterval time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		sessions:     make(map[string]*Session),
		kv:           kv,
		provider:     provider,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// GetOrCreate returns the session for the given ID, creating and hydrating
// it on first sight. Only IDs this manager could have minted are honored;
// anything else gets a fresh session, so forged cookies cannot plant
// arbitrary storage keys.
func (m *Manager) GetOrCreate(id string) *Session {
	if _, err := uuid.Parse(id); err != nil {
		id = ""
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			return s
		}
	} else {
		id = uuid.NewString()
	}

	logger := m.logger.With(zap.String("session_id", id))

	cartStore := cart.NewStore(m.kv, "cart:"+id, logger)
	cartStore.Load()

	watcher := checkout.NewWatcher(m.provider, m.pollInterval, logger)
	orchestrator := checkout.NewOrchestrator(cartStore, m.provider, watcher, logger)

	s := &Session{
		ID:       id,
		Cart:     cartStore,
		Checkout: orchestrator,
	}
	m.sessions[id] = s
	return s
}

// Shutdown stops every session's watcher so no poll fires after teardown
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		s.Checkout.Close()
	}
}
