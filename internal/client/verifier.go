package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/octobees/contact-resolver/internal/service/emailcheck"
	"github.com/octobees/contact-resolver/internal/service/waterfall"
)

// VerifierClient calls the mailbox verification API. The remote reports
// "valid"/"safe", "risky" or "invalid" per address and a distinguished
// daily-limit error when the account's budget is spent.
type VerifierClient struct {
	client  HTTPDoer
	baseURL string
	apiKey  string
	pacer   *rate.Limiter
}

// NewVerifierClient builds a verifier client.
func NewVerifierClient(httpClient HTTPDoer, baseURL, apiKey string, minInterval time.Duration) *VerifierClient {
	if baseURL == "" {
		panic("verifier baseURL must not be empty")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultCallTimeout}
	}
	return &VerifierClient{
		client:  httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		pacer:   newPacer(minInterval),
	}
}

// VerifyEmail checks the address in the given mode ("quick" or "power").
// A remote daily-limit message is surfaced as waterfall.ErrQuotaExceeded
// even when the local counters disagree; the remote is the source of truth.
func (c *VerifierClient) VerifyEmail(ctx context.Context, address, mode string) (emailcheck.VerifyResult, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return emailcheck.VerifyResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultCallTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("email", address)
	query.Set("key", c.apiKey)
	query.Set("mode", mode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/verify?"+query.Encode(), nil)
	if err != nil {
		return emailcheck.VerifyResult{}, fmt.Errorf("create verify request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return emailcheck.VerifyResult{}, fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		message := extractErrorMessage(resp.Body)
		return emailcheck.VerifyResult{}, quotaOrMessageError(resp.StatusCode, message)
	}

	var payload struct {
		Status  string `json:"status"`
		IsValid *bool  `json:"is_valid"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil && err != io.EOF {
		return emailcheck.VerifyResult{}, fmt.Errorf("decode verify response: %w", err)
	}
	if quotaExhausted(resp.StatusCode, payload.Message) {
		return emailcheck.VerifyResult{}, fmt.Errorf("%w: %s", waterfall.ErrQuotaExceeded, payload.Message)
	}

	status := strings.ToLower(payload.Status)
	isValid := status == "valid" || status == "safe"
	if payload.IsValid != nil {
		isValid = *payload.IsValid
	}
	return emailcheck.VerifyResult{IsValid: isValid, Status: status}, nil
}

var _ waterfall.EmailVerifier = (*VerifierClient)(nil)
