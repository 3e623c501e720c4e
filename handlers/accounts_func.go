package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/koivumail/mail-prefs-api/accounts"
	"github.com/koivumail/mail-prefs-api/errors"
)

// ListFunc returns all accounts in display order.
func (s *Accounts) ListFunc(rw http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.FormValue("limit"))
	if err != nil {
		limit = 0
	}

	offset, err := strconv.Atoi(r.FormValue("offset"))
	if err != nil {
		offset = 0
	}

	res, err := s.service.List(limit, offset)

	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// CreateFunc creates and persists a new account.
func (s *Accounts) CreateFunc(rw http.ResponseWriter, r *http.Request) {
	if err := checkNonEmptyBody(r); err != nil {
		handleError(rw, r, err)
		return
	}

	var req AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(rw, r, InvalidBodyError)
		return
	}

	account, err := s.service.NewAccount()
	if err != nil {
		handleError(rw, r, err)
		return
	}

	applyAccountRequest(account, &req)

	if err := s.service.SaveAccount(account); err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusCreated, account)
}

// DetailsFunc returns details regarding an account.
// It reads the UUID for the wanted account from the URL.
func (s *Accounts) DetailsFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	res, err := s.service.Details(vars["accountUuid"])

	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// UpdateFunc applies a partial update to an account and persists it.
func (s *Accounts) UpdateFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := checkNonEmptyBody(r); err != nil {
		handleError(rw, r, err)
		return
	}

	var req AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(rw, r, InvalidBodyError)
		return
	}

	account, err := s.service.Details(vars["accountUuid"])
	if err != nil {
		handleError(rw, r, err)
		return
	}

	applyAccountRequest(account, &req)

	if err := s.service.SaveAccount(account); err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, account)
}

// DeleteFunc deletes an account.
func (s *Accounts) DeleteFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	account, err := s.service.Details(vars["accountUuid"])
	if err != nil {
		handleError(rw, r, err)
		return
	}

	if err := s.service.DeleteAccount(account); err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, map[string]string{"deleted": account.UUID})
}

// MoveFunc moves an account up or down in the display order.
func (s *Accounts) MoveFunc(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := checkNonEmptyBody(r); err != nil {
		handleError(rw, r, err)
		return
	}

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(rw, r, InvalidBodyError)
		return
	}

	if req.Direction != "up" && req.Direction != "down" {
		handleError(rw, r, &errors.RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("direction must be 'up' or 'down'"),
		})
		return
	}

	account, err := s.service.Details(vars["accountUuid"])
	if err != nil {
		handleError(rw, r, err)
		return
	}

	if err := s.service.Move(account, req.Direction == "up"); err != nil {
		handleError(rw, r, err)
		return
	}

	res, err := s.service.Accounts()
	if err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// GetDefaultFunc returns the default account.
func (s *Accounts) GetDefaultFunc(rw http.ResponseWriter, r *http.Request) {
	account, err := s.service.DefaultAccount()
	if err != nil {
		handleError(rw, r, err)
		return
	}

	if account == nil {
		handleError(rw, r, &errors.RequestError{
			StatusCode: http.StatusNotFound,
			Err:        fmt.Errorf("no accounts configured"),
		})
		return
	}

	handleJsonResponse(rw, http.StatusOK, account)
}

// SetDefaultFunc marks an account as the default.
func (s *Accounts) SetDefaultFunc(rw http.ResponseWriter, r *http.Request) {
	if err := checkNonEmptyBody(r); err != nil {
		handleError(rw, r, err)
		return
	}

	var req DefaultAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(rw, r, InvalidBodyError)
		return
	}

	account, err := s.service.Details(req.UUID)
	if err != nil {
		handleError(rw, r, err)
		return
	}

	if err := s.service.SetDefaultAccount(account); err != nil {
		handleError(rw, r, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, account)
}

// ValidateSettingsFunc checks server settings by connecting to the
// configured servers.
func (s *Accounts) ValidateSettingsFunc(rw http.ResponseWriter, r *http.Request) {
	if err := checkNonEmptyBody(r); err != nil {
		handleError(rw, r, err)
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(rw, r, InvalidBodyError)
		return
	}

	if req.Incoming == nil && req.Outgoing == nil {
		handleError(rw, r, InvalidBodyError)
		return
	}

	if req.Incoming != nil {
		if err := s.backends.CheckIncoming(r.Context(), *req.Incoming); err != nil {
			handleError(rw, r, err)
			return
		}
	}

	if req.Outgoing != nil {
		if err := s.backends.CheckOutgoing(r.Context(), *req.Outgoing); err != nil {
			handleError(rw, r, err)
			return
		}
	}

	handleJsonResponse(rw, http.StatusOK, map[string]bool{"valid": true})
}

func applyAccountRequest(account *accounts.Account, req *AccountRequest) {
	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Email != nil {
		account.Email = *req.Email
	}
	if req.Enabled != nil {
		account.Enabled = *req.Enabled
	}
	if req.DisplayCount != nil {
		account.SetDisplayCount(*req.DisplayCount)
	}
	if req.LocalStorageProviderID != nil {
		account.SetLocalStorageProviderID(*req.LocalStorageProviderID)
	}
	if req.Incoming != nil {
		account.Incoming = *req.Incoming
	}
	if req.Outgoing != nil {
		account.Outgoing = *req.Outgoing
	}
}
