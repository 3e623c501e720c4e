// Package backends tracks the remote backend of each account and
// validates mail server settings by connecting to the server.
package backends

import (
	"sync"

	"github.com/koivumail/mail-prefs-api/accounts"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// Manager associates each account with its remote backend. Backend
// associations are registered lazily and dropped when an account is
// deleted.
type Manager struct {
	mu      sync.Mutex
	tracked map[string]accounts.ServerSettings
	limiter ratelimit.Limiter
	cfg     Config
}

type ManagerOption func(*Manager)

// WithCheckRatelimiter overrides the rate limiter applied to server
// validation checks.
func WithCheckRatelimiter(limiter ratelimit.Limiter) ManagerOption {
	return func(m *Manager) {
		m.limiter = limiter
	}
}

func NewManager(opts ...ManagerOption) *Manager {
	cfg := ParseConfig()

	m := &Manager{
		tracked: make(map[string]accounts.ServerSettings),
		limiter: ratelimit.New(cfg.ValidationMaxRate),
		cfg:     cfg,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Track registers the incoming server of an account so the backend
// association can be torn down when the account is deleted.
func (m *Manager) Track(accountUUID string, incoming accounts.ServerSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracked[accountUUID] = incoming
}

// Tracked reports whether an account currently has a backend
// association.
func (m *Manager) Tracked(accountUUID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tracked[accountUUID]
	return ok
}

// RemoveBackend drops the backend association of an account. Removing
// an account that was never tracked is not an error.
func (m *Manager) RemoveBackend(a *accounts.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tracked[a.UUID]; !ok {
		return nil
	}

	delete(m.tracked, a.UUID)

	log.
		WithFields(log.Fields{"accountUUID": a.UUID}).
		Debug("Removed backend for account")

	return nil
}

// AccountAddedHandler registers the backend of a freshly saved account.
type AccountAddedHandler struct {
	Manager *Manager
}

func (h *AccountAddedHandler) Handle(payload accounts.AccountAddedPayload) {
	h.Manager.Track(payload.UUID, payload.Incoming)
}
