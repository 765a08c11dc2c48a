package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/octobees/contact-resolver/internal/service/waterfall"
)

// FinderClient calls the paid third-party email finder. One lookup costs one
// finder credit regardless of how many candidates come back.
type FinderClient struct {
	client  HTTPDoer
	baseURL string
	apiKey  string
	pacer   *rate.Limiter
}

// NewFinderClient builds a finder client.
func NewFinderClient(httpClient HTTPDoer, baseURL, apiKey string, minInterval time.Duration) *FinderClient {
	if baseURL == "" {
		panic("finder baseURL must not be empty")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultCallTimeout}
	}
	return &FinderClient{
		client:  httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		pacer:   newPacer(minInterval),
	}
}

// FindEmail looks up candidate addresses for the person at the domain,
// sorted by the provider's certainty score.
func (c *FinderClient) FindEmail(ctx context.Context, firstName, lastName, domain string) ([]waterfall.FoundEmail, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]string{
		"first_name": firstName,
		"last_name":  lastName,
		"domain":     domain,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal finder payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultCallTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/find", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create finder request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("finder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		message := extractErrorMessage(resp.Body)
		return nil, quotaOrMessageError(resp.StatusCode, message)
	}

	var payload struct {
		Emails []waterfall.FoundEmail `json:"emails"`
		Error  string                 `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode finder response: %w", err)
	}
	if payload.Error != "" {
		return nil, quotaOrMessageError(resp.StatusCode, payload.Error)
	}
	return payload.Emails, nil
}

var _ waterfall.EmailFinder = (*FinderClient)(nil)
