package accounts

import (
	"fmt"

	"github.com/koivumail/mail-prefs-api/secrets"
	"github.com/koivumail/mail-prefs-api/storage"
)

// Test doubles for the service collaborators, used only in tests.

type testBackendManager struct {
	removed   []string
	removeErr error
}

func (m *testBackendManager) RemoveBackend(a *Account) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, a.UUID)
	return nil
}

type testLocalStore struct {
	removed           []string
	resetLimits       map[string]int
	switchedProviders map[string]string
	unavailable       map[string]struct{}
	removeErr         error
	resetErr          error
	switchProviderErr error
}

func newTestLocalStore() *testLocalStore {
	return &testLocalStore{
		resetLimits:       make(map[string]int),
		switchedProviders: make(map[string]string),
		unavailable:       make(map[string]struct{}),
	}
}

func (s *testLocalStore) RemoveAccount(accountUUID string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed = append(s.removed, accountUUID)
	return nil
}

func (s *testLocalStore) ResetVisibleLimits(accountUUID string, displayCount int) error {
	if s.resetErr != nil {
		return s.resetErr
	}
	s.resetLimits[accountUUID] = displayCount
	return nil
}

func (s *testLocalStore) SwitchStorageProvider(accountUUID, providerID string) error {
	if s.switchProviderErr != nil {
		return s.switchProviderErr
	}
	s.switchedProviders[accountUUID] = providerID
	return nil
}

func (s *testLocalStore) ProviderAvailable(providerID string) bool {
	_, unavailable := s.unavailable[providerID]
	return !unavailable
}

func testCrypter() secrets.Crypter {
	return secrets.NewAESCrypter([]byte("testkeytestkeytestkeytestkeytest"))
}

func newTestService(store storage.Store) (*Service, *testBackendManager, *testLocalStore) {
	backends := &testBackendManager{}
	local := newTestLocalStore()
	service := NewService(store, NewSerializer(testCrypter()), backends, local)
	return service, backends, local
}

func newTestAccount(service *Service, index int) (*Account, error) {
	a, err := service.NewAccount()
	if err != nil {
		return nil, err
	}
	a.Name = fmt.Sprintf("Account %d", index)
	a.Email = fmt.Sprintf("user%d@example.org", index)
	if err := service.SaveAccount(a); err != nil {
		return nil, err
	}
	return a, nil
}
