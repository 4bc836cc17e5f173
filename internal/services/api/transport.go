// Package api is the HTTP client for the remote Tamarind service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"github.com/tamarindhq/tamarind/internal/domain"
)

// Doer executes a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource supplies the bearer token for outgoing requests. An empty
// token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Transport executes JSON requests against the service, adding auth and
// request-correlation headers and tripping a circuit breaker after
// repeated transport failures so an unreachable server degrades to an
// offline state instead of hammering the network.
type Transport struct {
	baseURL string
	doer    Doer
	tokens  TokenSource
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewTransport creates a transport. doer may be nil, in which case a
// default http.Client with a 15s timeout is used.
func NewTransport(baseURL string, doer Doer, tokens TokenSource, logger *slog.Logger) *Transport {
	if doer == nil {
		doer = &http.Client{Timeout: 15 * time.Second}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "tamarind-api",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("api breaker state change", "from", from.String(), "to", to.String())
		},
	})

	return &Transport{
		baseURL: baseURL,
		doer:    doer,
		tokens:  tokens,
		breaker: breaker,
		logger:  logger,
	}
}

type result struct {
	body   []byte
	status int
}

// Do executes one JSON request and returns the raw response body and HTTP
// status. Only transport-level failures and 5xx responses count against
// the breaker; client errors are the caller's problem and pass through.
func (t *Transport) Do(ctx context.Context, method, path string, payload any) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, body)
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := t.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	out, err := t.breaker.Execute(func() (any, error) {
		resp, err := t.doer.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return result{body: data, status: resp.StatusCode}, fmt.Errorf("server error: %s", resp.Status)
		}
		return result{body: data, status: resp.StatusCode}, nil
	})

	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			t.logger.Debug("request short-circuited, breaker open", "method", method, "path", path)
			return nil, 0, domain.ErrOffline
		}
		// A 5xx still carries a body worth surfacing to the caller.
		if res, ok := out.(result); ok {
			return res.body, res.status, nil
		}
		return nil, 0, err
	}

	res := out.(result)
	t.logger.Debug("request done", "method", method, "path", path, "status", res.status)
	return res.body, res.status, nil
}

// Online reports whether the breaker currently allows requests through.
func (t *Transport) Online() bool {
	return t.breaker.State() != gobreaker.StateOpen
}
