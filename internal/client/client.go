// Package client contains the HTTP adapters for the external services the
// waterfall talks to: the scrape worker, the LLM extraction worker, the
// mailbox verification API and the third-party email finder. Each adapter
// maps a remote "daily limit" response to waterfall.ErrQuotaExceeded so the
// engine handles quota exhaustion as data, not as message prose.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/idtoken"

	"github.com/octobees/contact-resolver/internal/service/waterfall"
)

const defaultCallTimeout = 30 * time.Second

// HTTPDoer abstracts the HTTP client to simplify testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// newWorkerHTTPClient builds the HTTP client for a worker base URL,
// preferring an ID token client when ambient credentials allow it.
func newWorkerHTTPClient(baseURL string) HTTPDoer {
	idc, err := idtoken.NewClient(context.Background(), baseURL)
	if err != nil {
		return &http.Client{Timeout: defaultCallTimeout}
	}
	return idc
}

// newPacer spaces successive calls to respect a provider's rate limits. Zero
// or negative intervals disable pacing.
func newPacer(minInterval time.Duration) *rate.Limiter {
	if minInterval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(minInterval), 1)
}

// quotaExhausted recognizes the provider wording for a spent daily budget.
func quotaExhausted(statusCode int, message string) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	return strings.Contains(strings.ToLower(message), "daily limit")
}

func decodeEnvelope(body io.Reader, data any) (string, error) {
	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil && err != io.EOF {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if envelope.Error != "" {
		return envelope.Error, nil
	}
	if len(envelope.Data) > 0 && data != nil {
		if err := json.Unmarshal(envelope.Data, data); err != nil {
			return "", fmt.Errorf("decode response data: %w", err)
		}
	}
	return "", nil
}

func extractErrorMessage(body io.Reader) string {
	payload, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return "unreadable error response"
	}
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Status  string `json:"status"`
	}
	if json.Unmarshal(payload, &parsed) == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	msg := strings.TrimSpace(string(payload))
	if msg == "" {
		return "empty error response"
	}
	return msg
}

func quotaOrMessageError(statusCode int, message string) error {
	if quotaExhausted(statusCode, message) {
		return fmt.Errorf("%w: %s", waterfall.ErrQuotaExceeded, message)
	}
	return fmt.Errorf("remote error (status %d): %s", statusCode, message)
}
