package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/octobees/contact-resolver/internal/service/waterfall"
)

// llmCallTimeout is longer than the default because the extraction worker
// crawls the site and waits for model output before answering.
const llmCallTimeout = 90 * time.Second

// LLMClient calls the extraction worker that prompts a model with website
// content and returns structured owner candidates.
type LLMClient struct {
	client  HTTPDoer
	baseURL string
	pacer   *rate.Limiter
}

// NewLLMClient builds an extraction worker client. A nil httpClient
// auto-configures an ID token client for the worker URL.
func NewLLMClient(httpClient HTTPDoer, baseURL string, minInterval time.Duration) *LLMClient {
	if baseURL == "" {
		panic("llm worker baseURL must not be empty")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if httpClient == nil {
		httpClient = newWorkerHTTPClient(baseURL)
	}
	return &LLMClient{client: httpClient, baseURL: baseURL, pacer: newPacer(minInterval)}
}

// ExtractOwners submits the business to the extraction worker. A 204 from
// the worker means the model found nothing and yields (nil, nil).
func (c *LLMClient) ExtractOwners(ctx context.Context, businessName, url string) (*waterfall.ExtractResult, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]string{
		"business_name": businessName,
		"url":           url,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal extract payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, llmCallTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract-owners", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extract request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode >= 400 {
		message := extractErrorMessage(resp.Body)
		return nil, quotaOrMessageError(resp.StatusCode, message)
	}

	var result waterfall.ExtractResult
	if msg, err := decodeEnvelope(resp.Body, &result); err != nil {
		return nil, err
	} else if msg != "" {
		return nil, quotaOrMessageError(resp.StatusCode, msg)
	}
	return &result, nil
}

var _ waterfall.OwnerExtractor = (*LLMClient)(nil)
