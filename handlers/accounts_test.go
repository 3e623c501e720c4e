package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/koivumail/mail-prefs-api/accounts"
	"github.com/koivumail/mail-prefs-api/backends"
	"github.com/koivumail/mail-prefs-api/secrets"
	"github.com/koivumail/mail-prefs-api/storage"
	"go.uber.org/ratelimit"
)

type testLocalStore struct{}

func (testLocalStore) RemoveAccount(accountUUID string) error { return nil }

func (testLocalStore) ResetVisibleLimits(accountUUID string, count int) error { return nil }

func (testLocalStore) SwitchStorageProvider(accountUUID, providerID string) error { return nil }

func (testLocalStore) ProviderAvailable(providerID string) bool { return true }

func testRouter(t *testing.T) *mux.Router {
	t.Helper()

	crypter := secrets.NewAESCrypter([]byte("testkeytestkeytestkeytestkeytest"))
	manager := backends.NewManager(backends.WithCheckRatelimiter(ratelimit.NewUnlimited()))

	service := accounts.NewService(
		storage.NewMemStore(),
		accounts.NewSerializer(crypter),
		manager,
		testLocalStore{},
	)

	handlers := NewAccounts(service, manager)

	router := mux.NewRouter()
	router.Handle("/accounts", handlers.List()).Methods(http.MethodGet)
	router.Handle("/accounts", handlers.Create()).Methods(http.MethodPost)
	router.Handle("/accounts/default", handlers.GetDefault()).Methods(http.MethodGet)
	router.Handle("/accounts/default", handlers.SetDefault()).Methods(http.MethodPut)
	router.Handle("/accounts/validate", handlers.ValidateSettings()).Methods(http.MethodPost)
	router.Handle("/accounts/{accountUuid}", handlers.Details()).Methods(http.MethodGet)
	router.Handle("/accounts/{accountUuid}", handlers.Update()).Methods(http.MethodPut)
	router.Handle("/accounts/{accountUuid}", handlers.Delete()).Methods(http.MethodDelete)
	router.Handle("/accounts/{accountUuid}/move", handlers.Move()).Methods(http.MethodPost)

	return router
}

func TestAccountHandlers(t *testing.T) {
	router := testRouter(t)

	var tempAcc accounts.Account

	// NOTE: The order of the test "steps" matters
	steps := []struct {
		name     string
		method   string
		url      string
		body     string
		expected string
		status   int
	}{
		{
			name:     "list accounts db empty",
			method:   http.MethodGet,
			url:      "/accounts",
			expected: `\[\]\n`,
			status:   http.StatusOK,
		},
		{
			name:     "get default account with no accounts",
			method:   http.MethodGet,
			url:      "/accounts/default",
			expected: `no accounts configured\n`,
			status:   http.StatusNotFound,
		},
		{
			name:     "create account empty body",
			method:   http.MethodPost,
			url:      "/accounts",
			expected: `empty body\n`,
			status:   http.StatusBadRequest,
		},
		{
			name:     "create account invalid body",
			method:   http.MethodPost,
			url:      "/accounts",
			body:     "notjson",
			expected: `invalid body\n`,
			status:   http.StatusBadRequest,
		},
		{
			name:     "create account",
			method:   http.MethodPost,
			url:      "/accounts",
			body:     `{"name":"Work","email":"work@example.org"}`,
			expected: `\{"uuid":".*","accountNumber":0,"name":"Work","email":"work@example.org","enabled":true,.*\}\n`,
			status:   http.StatusCreated,
		},
		{
			name:     "list accounts db not empty",
			method:   http.MethodGet,
			url:      "/accounts",
			expected: `\[\{"uuid":".*"\}\]\n`,
			status:   http.StatusOK,
		},
		{
			name:     "get details of unknown account",
			method:   http.MethodGet,
			url:      "/accounts/unknown-uuid",
			expected: `account unknown-uuid not found\n`,
			status:   http.StatusNotFound,
		},
		{
			name:     "get details of known account",
			method:   http.MethodGet,
			url:      "/accounts/<uuid>",
			expected: `\{"uuid":".*","name":"Work",.*\}\n`,
			status:   http.StatusOK,
		},
		{
			name:     "update account",
			method:   http.MethodPut,
			url:      "/accounts/<uuid>",
			body:     `{"name":"Renamed"}`,
			expected: `\{"uuid":".*","name":"Renamed",.*\}\n`,
			status:   http.StatusOK,
		},
		{
			name:     "get default account falls back to first available",
			method:   http.MethodGet,
			url:      "/accounts/default",
			expected: `\{"uuid":".*","name":"Renamed",.*\}\n`,
			status:   http.StatusOK,
		},
		{
			name:     "set default account",
			method:   http.MethodPut,
			url:      "/accounts/default",
			body:     `{"uuid":"<uuid>"}`,
			expected: `\{"uuid":".*"\}\n`,
			status:   http.StatusOK,
		},
		{
			name:     "move account with invalid direction",
			method:   http.MethodPost,
			url:      "/accounts/<uuid>/move",
			body:     `{"direction":"sideways"}`,
			expected: `direction must be 'up' or 'down'\n`,
			status:   http.StatusBadRequest,
		},
		{
			name:     "move the only account up",
			method:   http.MethodPost,
			url:      "/accounts/<uuid>/move",
			body:     `{"direction":"up"}`,
			expected: `\[\{"uuid":".*"\}\]\n`,
			status:   http.StatusOK,
		},
		{
			name:     "validate settings without servers",
			method:   http.MethodPost,
			url:      "/accounts/validate",
			body:     `{}`,
			expected: `invalid body\n`,
			status:   http.StatusBadRequest,
		},
		{
			name:     "delete account",
			method:   http.MethodDelete,
			url:      "/accounts/<uuid>",
			expected: `\{"deleted":".*"\}\n`,
			status:   http.StatusOK,
		},
		{
			name:     "list accounts after delete",
			method:   http.MethodGet,
			url:      "/accounts",
			expected: `\[\]\n`,
			status:   http.StatusOK,
		},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			replacer := strings.NewReplacer("<uuid>", tempAcc.UUID)

			url := replacer.Replace(step.url)

			var body *strings.Reader
			if step.body != "" {
				body = strings.NewReader(replacer.Replace(step.body))
			} else {
				body = strings.NewReader("")
			}

			req, err := http.NewRequest(step.method, url, body)
			if err != nil {
				t.Fatalf("Did not expect an error, got: %s", err)
			}

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if status := rr.Code; status != step.status {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, step.status)
			}

			// Store the new account if this test case created one
			if step.status == http.StatusCreated {
				json.Unmarshal(rr.Body.Bytes(), &tempAcc)
			}

			re := regexp.MustCompile(step.expected)
			match := re.FindString(rr.Body.String())
			if match == "" || match != rr.Body.String() {
				t.Errorf("handler returned unexpected body: got %q want %v", rr.Body.String(), re)
			}
		})
	}
}
