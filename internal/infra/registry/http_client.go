// Package registry notifies the downstream user service about new accounts.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"authsvc/config"
	deliverycontext "authsvc/internal/delivery/context"
	"authsvc/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	createUserPath = "/api/users/"
	defaultTimeout = 10 * time.Second
)

// httpUserRegistry implements UserRegistry by posting the account record to
// the user service. Delivery is best-effort: failures are logged and never
// propagated to the registration flow.
type httpUserRegistry struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPUserRegistry creates a user registry client from config.
func NewHTTPUserRegistry(cfg *config.Config, logger *slog.Logger) service.UserRegistry {
	baseURL := ""
	timeout := defaultTimeout
	if cfg.UserRegistry != nil {
		baseURL = cfg.UserRegistry.BaseURL
		if cfg.UserRegistry.Timeout > 0 {
			timeout = cfg.UserRegistry.Timeout
		}
	}

	return &httpUserRegistry{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// CreateUser announces a new account to the user service. The caller's access
// token rides along as a bearer credential; it is a plain parameter, never
// shared mutable state.
func (r *httpUserRegistry) CreateUser(ctx context.Context, record service.UserRecord, accessToken string) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, r.logger)

	if r.baseURL == "" {
		logger.Warn("User registry base URL not configured, skipping notification",
			slog.String("email", record.Email),
		)

		return
	}

	if err := r.deliver(ctx, record, accessToken); err != nil {
		logger.Error("Failed to notify user registry",
			slog.String("email", record.Email),
			slog.Any("error", err),
		)

		return
	}

	logger.Info("User registry notified",
		slog.String("email", record.Email),
	)
}

func (r *httpUserRegistry) deliver(ctx context.Context, record service.UserRecord, accessToken string) error {
	endpoint, err := url.JoinPath(r.baseURL, createUserPath)
	if err != nil {
		return errors.WithStack(err)
	}

	body, err := json.Marshal(record)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	// Propagate the request id for cross-service tracing.
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(deliverycontext.HeaderXRequestID, requestID)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	// Drain the body so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("user registry returned non-success status: %d", resp.StatusCode)
	}

	return nil
}
