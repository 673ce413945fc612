package registry

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authsvc/config"
	deliverycontext "authsvc/internal/delivery/context"
	"authsvc/internal/domain/service"
)

func newTestRegistry(baseURL string) service.UserRegistry {
	cfg := &config.Config{}
	cfg.UserRegistry = &config.UserRegistryConfig{
		BaseURL: baseURL,
		Timeout: time.Second,
	}

	return NewHTTPUserRegistry(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHTTPUserRegistry_CreateUser(t *testing.T) {
	var gotPath, gotAuth, gotRequestID string
	var gotRecord service.UserRecord

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get(deliverycontext.HeaderXRequestID)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRecord))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	registry := newTestRegistry(server.URL)

	ctx := deliverycontext.WithRequestID(context.Background(), "req-123")
	registry.CreateUser(ctx, service.UserRecord{
		Name:      "Ada",
		Surname:   "Lovelace",
		BirthDate: "1990-12-10",
		Email:     "ada@example.com",
	}, "access-token-abc")

	assert.Equal(t, "/api/users/", gotPath)
	assert.Equal(t, "Bearer access-token-abc", gotAuth)
	assert.Equal(t, "req-123", gotRequestID)
	assert.Equal(t, "ada@example.com", gotRecord.Email)
	assert.Equal(t, "Ada", gotRecord.Name)
	assert.Equal(t, "Lovelace", gotRecord.Surname)
	assert.Equal(t, "1990-12-10", gotRecord.BirthDate)
}

func TestHTTPUserRegistry_ServerErrorDoesNotPanic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	registry := newTestRegistry(server.URL)

	// Delivery failures are swallowed; registration must not observe them.
	registry.CreateUser(context.Background(), service.UserRecord{Email: "ada@example.com"}, "token")
}

func TestHTTPUserRegistry_UnreachableEndpoint(t *testing.T) {
	registry := newTestRegistry("http://127.0.0.1:1")

	registry.CreateUser(context.Background(), service.UserRecord{Email: "ada@example.com"}, "token")
}

func TestHTTPUserRegistry_MissingBaseURL(t *testing.T) {
	registry := newTestRegistry("")

	// No endpoint configured: the notification is skipped, not an error.
	registry.CreateUser(context.Background(), service.UserRecord{Email: "ada@example.com"}, "token")
}
