package accounts

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/koivumail/mail-prefs-api/datastore"
	"github.com/koivumail/mail-prefs-api/errors"
	"github.com/koivumail/mail-prefs-api/storage"
	log "github.com/sirupsen/logrus"
)

// BackendManager removes the remote backend association of a deleted
// account.
type BackendManager interface {
	RemoveBackend(a *Account) error
}

// LocalStore manages the on-disk message storage of an account.
type LocalStore interface {
	RemoveAccount(accountUUID string) error
	ResetVisibleLimits(accountUUID string, displayCount int) error
	SwitchStorageProvider(accountUUID, providerID string) error
	ProviderAvailable(providerID string) bool
}

// Service is the account preferences manager. It caches all accounts
// in memory and mediates loading, saving, deleting and reordering
// against the preference store.
//
// All operations synchronize on a single coarse lock. Accounts handed
// out are shared instances; callers mutate them and persist the result
// through SaveAccount.
type Service struct {
	mu         sync.Mutex
	store      storage.Store
	serializer *Serializer
	backends   BackendManager
	local      LocalStore
	cfg        Config

	accounts        map[string]*Account
	accountsInOrder []*Account
	newAccount      *Account
}

// NewService initiates a new account preferences service.
func NewService(
	store storage.Store,
	serializer *Serializer,
	backends BackendManager,
	local LocalStore,
) *Service {
	cfg := ParseConfig()
	return &Service{
		store:      store,
		serializer: serializer,
		backends:   backends,
		local:      local,
		cfg:        cfg,
	}
}

// LoadAccounts replaces the in-memory account cache with the persisted
// account set.
func (s *Service) LoadAccounts() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAccounts()
}

func (s *Service) loadAccounts() error {
	accounts := make(map[string]*Account)
	accountsInOrder := make([]*Account, 0)

	uuids, err := loadUUIDList(s.store)
	if err != nil {
		return err
	}

	for _, accountUUID := range uuids {
		a := NewAccountWithUUID(accountUUID)
		if err := s.serializer.Load(a, s.store); err != nil {
			return err
		}
		accounts[accountUUID] = a
		accountsInOrder = append(accountsInOrder, a)
	}

	// A pending new account that already received an account number
	// survives the reload.
	if s.newAccount != nil && s.newAccount.AccountNumber != UnassignedAccountNumber {
		if _, ok := accounts[s.newAccount.UUID]; !ok {
			accounts[s.newAccount.UUID] = s.newAccount
			accountsInOrder = append(accountsInOrder, s.newAccount)
		}
		s.newAccount = nil
	}

	s.accounts = accounts
	s.accountsInOrder = accountsInOrder

	return nil
}

func (s *Service) ensureLoaded() error {
	if s.accounts == nil {
		return s.loadAccounts()
	}
	return nil
}

// Accounts returns a snapshot of all accounts in display order.
func (s *Service) Accounts() ([]*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountsSnapshot()
}

func (s *Service) accountsSnapshot() ([]*Account, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	snapshot := make([]*Account, len(s.accountsInOrder))
	copy(snapshot, s.accountsInOrder)
	return snapshot, nil
}

// List returns a page of the account snapshot.
func (s *Service) List(limit, offset int) ([]*Account, error) {
	o := datastore.ParseListOptions(limit, offset)

	all, err := s.Accounts()
	if err != nil {
		return nil, err
	}

	if o.Offset >= len(all) {
		return []*Account{}, nil
	}
	all = all[o.Offset:]

	if o.Limit >= 0 && o.Limit < len(all) {
		all = all[:o.Limit]
	}

	return all, nil
}

// AvailableAccounts returns all accounts that are enabled and whose
// local storage provider is currently available.
func (s *Service) AvailableAccounts() ([]*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availableAccounts()
}

func (s *Service) availableAccounts() ([]*Account, error) {
	all, err := s.accountsSnapshot()
	if err != nil {
		return nil, err
	}
	available := make([]*Account, 0, len(all))
	for _, a := range all {
		if a.Enabled && s.local.ProviderAvailable(a.LocalStorageProviderID) {
			available = append(available, a)
		}
	}
	return available, nil
}

// Account returns the account with the given UUID, or nil when no such
// account exists.
func (s *Service) Account(accountUUID string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account(accountUUID)
}

func (s *Service) account(accountUUID string) (*Account, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return s.accounts[accountUUID], nil
}

// Details returns a specific account or a not-found request error.
func (s *Service) Details(accountUUID string) (*Account, error) {
	a, err := s.Account(accountUUID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, &errors.RequestError{
			StatusCode: http.StatusNotFound,
			Err:        fmt.Errorf("account %s not found", accountUUID),
		}
	}
	return a, nil
}

// NewAccount creates a new account with a random UUID and default
// configuration. The account is registered in the cache but not
// persisted until SaveAccount.
func (s *Service) NewAccount() (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	a := NewAccountWithUUID(uuid.New().String())
	s.serializer.LoadDefaults(a)
	s.accounts[a.UUID] = a
	s.accountsInOrder = append(s.accountsInOrder, a)
	s.newAccount = a

	return a, nil
}

// DeleteAccount removes an account from the cache and the preference
// store. Removal of the remote backend and the local message store is
// best-effort; failures are logged and do not abort the deletion.
func (s *Service) DeleteAccount(a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accounts != nil {
		delete(s.accounts, a.UUID)
	}
	for i, other := range s.accountsInOrder {
		if other.UUID == a.UUID {
			s.accountsInOrder = append(s.accountsInOrder[:i], s.accountsInOrder[i+1:]...)
			break
		}
	}

	if err := s.backends.RemoveBackend(a); err != nil {
		log.
			WithFields(log.Fields{"accountUUID": a.UUID, "error": err}).
			Error("Failed to remove remote backend for account")
	}

	if err := s.local.RemoveAccount(a.UUID); err != nil {
		log.
			WithFields(log.Fields{"accountUUID": a.UUID, "error": err}).
			Error("Failed to remove local store for account")
	}

	if err := s.serializer.Delete(s.store, a); err != nil {
		return err
	}

	if s.newAccount != nil && s.newAccount.UUID == a.UUID {
		s.newAccount = nil
	}

	return nil
}

// DefaultAccount returns the account marked as default. If no account
// is marked as default the first available account is marked as
// default and then returned. If there are no accounts the method
// returns nil without an error.
func (s *Service) DefaultAccount() (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaultUUID, err := storage.GetString(s.store, DefaultAccountUUIDKey, "")
	if err != nil {
		return nil, err
	}

	defaultAccount, err := s.account(defaultUUID)
	if err != nil {
		return nil, err
	}

	if defaultAccount == nil {
		available, err := s.availableAccounts()
		if err != nil {
			return nil, err
		}
		if len(available) == 0 {
			return nil, nil
		}
		defaultAccount = available[0]
		if err := s.setDefaultAccount(defaultAccount); err != nil {
			return nil, err
		}
	}

	return defaultAccount, nil
}

// SetDefaultAccount persists the given account as the default.
func (s *Service) SetDefaultAccount(a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setDefaultAccount(a)
}

func (s *Service) setDefaultAccount(a *Account) error {
	return s.store.Edit().PutString(DefaultAccountUUIDKey, a.UUID).Commit()
}

// SaveAccount persists an account. A new account receives the smallest
// free account number. Pending visible-limit and storage-provider
// changes are applied best-effort before serializing.
func (s *Service) SaveAccount(a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return err
	}

	isNew := a.AccountNumber == UnassignedAccountNumber

	if isNew {
		number, err := s.generateAccountNumber()
		if err != nil {
			return err
		}
		a.AccountNumber = number
	}

	s.processChangedValues(a)

	editor := s.store.Edit()
	if err := s.serializer.Save(s.store, editor, a); err != nil {
		return err
	}

	if _, ok := s.accounts[a.UUID]; !ok {
		s.accounts[a.UUID] = a
		s.accountsInOrder = append(s.accountsInOrder, a)
	}

	if isNew {
		AccountAdded.Trigger(AccountAddedPayload{
			UUID:          a.UUID,
			AccountNumber: a.AccountNumber,
			Incoming:      a.Incoming,
		})
	}

	return nil
}

// processChangedValues applies pending account reconfigurations to the
// local message store. Failures are logged, not propagated; the save
// itself must not be aborted by them.
func (s *Service) processChangedValues(a *Account) {
	if a.VisibleLimitsChanged() {
		if err := s.local.ResetVisibleLimits(a.UUID, a.DisplayCount); err != nil {
			log.
				WithFields(log.Fields{"accountUUID": a.UUID, "error": err}).
				Error("Failed to reset visible limits in local store")
		}
	}

	if a.LocalStorageProviderChanged() {
		if err := s.local.SwitchStorageProvider(a.UUID, a.LocalStorageProviderID); err != nil {
			log.
				WithFields(log.Fields{"accountUUID": a.UUID, "error": err}).
				Error("Failed to switch local storage provider")
		}
	}

	a.ResetChangeMarkers()
}

// GenerateAccountNumber computes the smallest non-negative integer not
// yet used as an account number.
func (s *Service) GenerateAccountNumber() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateAccountNumber()
}

func (s *Service) generateAccountNumber() (int, error) {
	if err := s.ensureLoaded(); err != nil {
		return UnassignedAccountNumber, err
	}

	numbers := make([]int, 0, len(s.accountsInOrder))
	for _, a := range s.accountsInOrder {
		numbers = append(numbers, a.AccountNumber)
	}

	return findNewAccountNumber(numbers), nil
}

func findNewAccountNumber(numbers []int) int {
	newNumber := -1
	sort.Ints(numbers)
	for _, number := range numbers {
		if number > newNumber+1 {
			break
		}
		newNumber = number
	}
	return newNumber + 1
}

// Move shifts an account one position up or down in the display order
// and reloads the account set from storage.
func (s *Service) Move(a *Account, up bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.serializer.Move(s.store, a, up); err != nil {
		return err
	}

	return s.loadAccounts()
}
