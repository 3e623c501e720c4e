// Package accounts implements the mail account preferences manager:
// an in-memory registry of accounts backed by the durable preference
// store.
package accounts

// UnassignedAccountNumber marks an account that has not been saved yet.
const UnassignedAccountNumber = -1

type ConnectionSecurity string

const (
	SecurityNone     ConnectionSecurity = "none"
	SecurityStartTLS ConnectionSecurity = "starttls"
	SecuritySSL      ConnectionSecurity = "ssl-tls"
)

// ServerSettings holds the connection settings of one mail server.
type ServerSettings struct {
	Protocol string             `json:"protocol"`
	Host     string             `json:"host"`
	Port     int                `json:"port"`
	Security ConnectionSecurity `json:"security"`
	AuthType string             `json:"authType"`
	Username string             `json:"username"`
	Password string             `json:"password,omitempty"`
}

// Account represents one configured mail account.
type Account struct {
	UUID                   string         `json:"uuid"`
	AccountNumber          int            `json:"accountNumber"`
	Name                   string         `json:"name"`
	Email                  string         `json:"email"`
	Enabled                bool           `json:"enabled"`
	DisplayCount           int            `json:"displayCount"`
	LocalStorageProviderID string         `json:"localStorageProviderId"`
	Incoming               ServerSettings `json:"incoming"`
	Outgoing               ServerSettings `json:"outgoing"`

	// Change markers, consumed on save.
	changedVisibleLimits        bool
	changedLocalStorageProvider bool
}

func NewAccountWithUUID(uuid string) *Account {
	return &Account{
		UUID:          uuid,
		AccountNumber: UnassignedAccountNumber,
	}
}

// SetDisplayCount updates the number of messages shown per folder and
// marks the visible limits as changed.
func (a *Account) SetDisplayCount(count int) {
	if a.DisplayCount != count {
		a.DisplayCount = count
		a.changedVisibleLimits = true
	}
}

// SetLocalStorageProviderID repoints the account to another local
// message storage provider.
func (a *Account) SetLocalStorageProviderID(id string) {
	if a.LocalStorageProviderID != id {
		a.LocalStorageProviderID = id
		a.changedLocalStorageProvider = true
	}
}

func (a *Account) VisibleLimitsChanged() bool {
	return a.changedVisibleLimits
}

func (a *Account) LocalStorageProviderChanged() bool {
	return a.changedLocalStorageProvider
}

func (a *Account) ResetChangeMarkers() {
	a.changedVisibleLimits = false
	a.changedLocalStorageProvider = false
}
