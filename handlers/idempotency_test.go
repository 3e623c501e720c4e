package handlers

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

func Test_IdempotencyMiddleware(t *testing.T) {
	is := NewIdempotencyStoreLocal()

	// Dummy endpoint for testing
	testHandler := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
	})

	opts := IdempotencyHandlerOptions{
		Expiry:      5000 * time.Millisecond,
		IgnorePaths: []string{"/ignored"},
	}

	router := mux.NewRouter()
	router.Handle("/test", IdempotencyHandler(testHandler, opts, is)).Methods(http.MethodPost)
	router.Handle("/ignored", IdempotencyHandler(testHandler, opts, is)).Methods(http.MethodPost)

	ik := "idempotency-key-test"
	body := bytes.NewBufferString("")

	t.Run("returns 200 with a fresh key", func(t *testing.T) {
		res := sendWithHeaders(router, http.MethodPost, "/test", body, map[string]string{"Idempotency-Key": ik})
		assertStatusCode(t, res, http.StatusOK)
	})

	t.Run("returns 409 with a used key", func(t *testing.T) {
		res := sendWithHeaders(router, http.MethodPost, "/test", body, map[string]string{"Idempotency-Key": ik})
		assertStatusCode(t, res, http.StatusConflict)
	})

	t.Run("returns 400 with missing header", func(t *testing.T) {
		res := sendWithHeaders(router, http.MethodPost, "/test", body, nil)
		assertStatusCode(t, res, http.StatusBadRequest)
	})

	t.Run("skips ignored paths", func(t *testing.T) {
		res := sendWithHeaders(router, http.MethodPost, "/ignored", body, nil)
		assertStatusCode(t, res, http.StatusOK)
	})
}

func TestIdempotencyStoreLocal(t *testing.T) {
	is := NewIdempotencyStoreLocal()

	if err := is.Set("expired-key", -time.Second); err != nil {
		t.Fatal(err)
	}

	found, err := is.Get("expired-key")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("expected an expired key not to be found")
	}
}

func sendWithHeaders(router *mux.Router, method, path string, body io.Reader, headers map[string]string) *http.Response {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("content-type", "application/json")

	for hk, hv := range headers {
		req.Header.Set(hk, hv)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr.Result()
}

func assertStatusCode(t *testing.T, res *http.Response, expected int) {
	t.Helper()
	if res.StatusCode != expected {
		t.Errorf("expected status code %d, got %d", expected, res.StatusCode)
	}
}
