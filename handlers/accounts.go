package handlers

import (
	"net/http"

	"github.com/koivumail/mail-prefs-api/accounts"
	"github.com/koivumail/mail-prefs-api/backends"
)

// Accounts is a HTTP server for account preferences management.
// It provides list, create, details, update, delete, reorder and
// default-account APIs. It uses the account preferences service to
// interface with data.
type Accounts struct {
	service  *accounts.Service
	backends *backends.Manager
}

// AccountRequest represents a JSON payload for creating or updating an
// account. Absent fields leave the current value untouched.
type AccountRequest struct {
	Name                   *string                  `json:"name"`
	Email                  *string                  `json:"email"`
	Enabled                *bool                    `json:"enabled"`
	DisplayCount           *int                     `json:"displayCount"`
	LocalStorageProviderID *string                  `json:"localStorageProviderId"`
	Incoming               *accounts.ServerSettings `json:"incoming"`
	Outgoing               *accounts.ServerSettings `json:"outgoing"`
}

// MoveRequest represents a JSON payload for moving an account in the
// display order.
type MoveRequest struct {
	Direction string `json:"direction"` // "up" or "down"
}

// DefaultAccountRequest represents a JSON payload for marking an
// account as the default.
type DefaultAccountRequest struct {
	UUID string `json:"uuid"`
}

// ValidateRequest represents a JSON payload for server validation.
type ValidateRequest struct {
	Incoming *accounts.ServerSettings `json:"incoming"`
	Outgoing *accounts.ServerSettings `json:"outgoing"`
}

// NewAccounts initiates a new accounts server.
func NewAccounts(service *accounts.Service, backends *backends.Manager) *Accounts {
	return &Accounts{service, backends}
}

func (s *Accounts) List() http.Handler {
	return http.HandlerFunc(s.ListFunc)
}

func (s *Accounts) Create() http.Handler {
	return http.HandlerFunc(s.CreateFunc)
}

func (s *Accounts) Details() http.Handler {
	return http.HandlerFunc(s.DetailsFunc)
}

func (s *Accounts) Update() http.Handler {
	return http.HandlerFunc(s.UpdateFunc)
}

func (s *Accounts) Delete() http.Handler {
	return http.HandlerFunc(s.DeleteFunc)
}

func (s *Accounts) Move() http.Handler {
	return http.HandlerFunc(s.MoveFunc)
}

func (s *Accounts) GetDefault() http.Handler {
	return http.HandlerFunc(s.GetDefaultFunc)
}

func (s *Accounts) SetDefault() http.Handler {
	return http.HandlerFunc(s.SetDefaultFunc)
}

func (s *Accounts) ValidateSettings() http.Handler {
	return http.HandlerFunc(s.ValidateSettingsFunc)
}
