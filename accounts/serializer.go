package accounts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/koivumail/mail-prefs-api/secrets"
	"github.com/koivumail/mail-prefs-api/storage"
)

const (
	// AccountUUIDsKey holds the comma-separated list of account UUIDs
	// in display order.
	AccountUUIDsKey = "accountUuids"

	// DefaultAccountUUIDKey holds the UUID of the default account.
	DefaultAccountUUIDKey = "defaultAccountUuid"
)

// Serializer converts between an Account and its persisted key-value
// representation. Account keys are prefixed with the account UUID,
// e.g. "<uuid>.name". Server passwords are encrypted at rest.
type Serializer struct {
	crypter secrets.Crypter
	cfg     Config
}

func NewSerializer(crypter secrets.Crypter) *Serializer {
	cfg := ParseConfig()
	return &Serializer{crypter, cfg}
}

// LoadDefaults applies the default configuration to a fresh account.
func (s *Serializer) LoadDefaults(a *Account) {
	a.AccountNumber = UnassignedAccountNumber
	a.Enabled = true
	a.DisplayCount = s.cfg.DefaultDisplayCount
	a.LocalStorageProviderID = s.cfg.DefaultStorageProvider
	a.ResetChangeMarkers()
}

// Load populates all account fields from the store.
func (s *Serializer) Load(a *Account, store storage.Store) error {
	var err error

	if a.AccountNumber, err = storage.GetInt(store, accountKey(a.UUID, "accountNumber"), UnassignedAccountNumber); err != nil {
		return err
	}
	if a.Name, err = storage.GetString(store, accountKey(a.UUID, "name"), ""); err != nil {
		return err
	}
	if a.Email, err = storage.GetString(store, accountKey(a.UUID, "email"), ""); err != nil {
		return err
	}
	if a.Enabled, err = storage.GetBool(store, accountKey(a.UUID, "enabled"), true); err != nil {
		return err
	}
	if a.DisplayCount, err = storage.GetInt(store, accountKey(a.UUID, "displayCount"), s.cfg.DefaultDisplayCount); err != nil {
		return err
	}
	if a.LocalStorageProviderID, err = storage.GetString(store, accountKey(a.UUID, "localStorageProvider"), s.cfg.DefaultStorageProvider); err != nil {
		return err
	}

	if err := s.loadServerSettings(store, accountKey(a.UUID, "incomingServerSettings"), &a.Incoming); err != nil {
		return err
	}
	if err := s.loadServerSettings(store, accountKey(a.UUID, "outgoingServerSettings"), &a.Outgoing); err != nil {
		return err
	}

	a.ResetChangeMarkers()

	return nil
}

// Save writes all account fields into the editor, registers the UUID
// in the account list if needed and commits the transaction.
func (s *Serializer) Save(store storage.Store, editor *storage.Editor, a *Account) error {
	editor.PutInt(accountKey(a.UUID, "accountNumber"), a.AccountNumber)
	editor.PutString(accountKey(a.UUID, "name"), a.Name)
	editor.PutString(accountKey(a.UUID, "email"), a.Email)
	editor.PutBool(accountKey(a.UUID, "enabled"), a.Enabled)
	editor.PutInt(accountKey(a.UUID, "displayCount"), a.DisplayCount)
	editor.PutString(accountKey(a.UUID, "localStorageProvider"), a.LocalStorageProviderID)

	if err := s.saveServerSettings(editor, accountKey(a.UUID, "incomingServerSettings"), a.Incoming); err != nil {
		return err
	}
	if err := s.saveServerSettings(editor, accountKey(a.UUID, "outgoingServerSettings"), a.Outgoing); err != nil {
		return err
	}

	uuids, err := loadUUIDList(store)
	if err != nil {
		return err
	}
	if !containsUUID(uuids, a.UUID) {
		uuids = append(uuids, a.UUID)
		editor.PutString(AccountUUIDsKey, strings.Join(uuids, ","))
	}

	return editor.Commit()
}

// Delete removes all persisted keys of an account and drops its UUID
// from the account list.
func (s *Serializer) Delete(store storage.Store, a *Account) error {
	editor := store.Edit()

	keys, err := store.Keys()
	if err != nil {
		return err
	}
	prefix := a.UUID + "."
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			editor.Remove(key)
		}
	}

	uuids, err := loadUUIDList(store)
	if err != nil {
		return err
	}
	remaining := make([]string, 0, len(uuids))
	for _, uuid := range uuids {
		if uuid != a.UUID {
			remaining = append(remaining, uuid)
		}
	}
	if len(remaining) == 0 {
		editor.Remove(AccountUUIDsKey)
	} else {
		editor.PutString(AccountUUIDsKey, strings.Join(remaining, ","))
	}

	defaultUUID, err := storage.GetString(store, DefaultAccountUUIDKey, "")
	if err != nil {
		return err
	}
	if defaultUUID == a.UUID {
		editor.Remove(DefaultAccountUUIDKey)
	}

	return editor.Commit()
}

// Move swaps the account with its neighbour in the persisted display
// order. Moving past either end of the list is a no-op.
func (s *Serializer) Move(store storage.Store, a *Account, up bool) error {
	uuids, err := loadUUIDList(store)
	if err != nil {
		return err
	}

	pos := -1
	for i, uuid := range uuids {
		if uuid == a.UUID {
			pos = i
			break
		}
	}
	if pos == -1 {
		return fmt.Errorf("account %s not found in account list", a.UUID)
	}

	target := pos + 1
	if up {
		target = pos - 1
	}
	if target < 0 || target >= len(uuids) {
		return nil
	}

	uuids[pos], uuids[target] = uuids[target], uuids[pos]

	return store.Edit().PutString(AccountUUIDsKey, strings.Join(uuids, ",")).Commit()
}

func (s *Serializer) loadServerSettings(store storage.Store, key string, settings *ServerSettings) error {
	raw, err := storage.GetString(store, key, "")
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}

	if err := json.Unmarshal([]byte(raw), settings); err != nil {
		return fmt.Errorf("unable to decode server settings under %q: %w", key, err)
	}

	if settings.Password != "" {
		password, err := secrets.DecryptString(s.crypter, settings.Password)
		if err != nil {
			return fmt.Errorf("unable to decrypt server password under %q: %w", key, err)
		}
		settings.Password = password
	}

	return nil
}

func (s *Serializer) saveServerSettings(editor *storage.Editor, key string, settings ServerSettings) error {
	if settings.Password != "" {
		password, err := secrets.EncryptString(s.crypter, settings.Password)
		if err != nil {
			return err
		}
		settings.Password = password
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	editor.PutString(key, string(raw))

	return nil
}

func accountKey(uuid, field string) string {
	return uuid + "." + field
}

func loadUUIDList(store storage.Store) ([]string, error) {
	raw, err := storage.GetString(store, AccountUUIDsKey, "")
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	return strings.Split(raw, ","), nil
}

func containsUUID(uuids []string, uuid string) bool {
	for _, u := range uuids {
		if u == uuid {
			return true
		}
	}
	return false
}
