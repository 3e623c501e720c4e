package backends

import (
	"testing"

	"github.com/koivumail/mail-prefs-api/accounts"
	"go.uber.org/ratelimit"
)

func testSettings() accounts.ServerSettings {
	return accounts.ServerSettings{
		Protocol: "imap",
		Host:     "imap.example.org",
		Port:     993,
		Security: accounts.SecuritySSL,
		AuthType: "plain",
		Username: "test",
	}
}

func TestTrack(t *testing.T) {
	m := NewManager(WithCheckRatelimiter(ratelimit.NewUnlimited()))

	if m.Tracked("uuid-1") {
		t.Error("expected no backend before tracking")
	}

	m.Track("uuid-1", testSettings())

	if !m.Tracked("uuid-1") {
		t.Error("expected a tracked backend")
	}
}

func TestRemoveBackend(t *testing.T) {
	m := NewManager(WithCheckRatelimiter(ratelimit.NewUnlimited()))

	t.Run("drops a tracked backend", func(t *testing.T) {
		m.Track("uuid-1", testSettings())

		if err := m.RemoveBackend(&accounts.Account{UUID: "uuid-1"}); err != nil {
			t.Fatal(err)
		}

		if m.Tracked("uuid-1") {
			t.Error("expected the backend to be removed")
		}
	})

	t.Run("removing an untracked account is not an error", func(t *testing.T) {
		if err := m.RemoveBackend(&accounts.Account{UUID: "uuid-never-seen"}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestAccountAddedHandler(t *testing.T) {
	m := NewManager(WithCheckRatelimiter(ratelimit.NewUnlimited()))
	h := AccountAddedHandler{Manager: m}

	h.Handle(accounts.AccountAddedPayload{
		UUID:          "uuid-1",
		AccountNumber: 0,
		Incoming:      testSettings(),
	})

	if !m.Tracked("uuid-1") {
		t.Error("expected the handler to track the new account")
	}
}
