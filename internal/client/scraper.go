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

// ScraperClient calls the scrape worker that fetches a website and extracts
// owner names and email addresses from its page text.
type ScraperClient struct {
	client  HTTPDoer
	baseURL string
	pacer   *rate.Limiter
}

// NewScraperClient builds a scraper client. A nil httpClient auto-configures
// an ID token client for the worker URL.
func NewScraperClient(httpClient HTTPDoer, baseURL string, minInterval time.Duration) *ScraperClient {
	if baseURL == "" {
		panic("scraper baseURL must not be empty")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if httpClient == nil {
		httpClient = newWorkerHTTPClient(baseURL)
	}
	return &ScraperClient{client: httpClient, baseURL: baseURL, pacer: newPacer(minInterval)}
}

// ScrapeWebsite asks the worker to crawl the site and returns the extracted
// owner names and addresses.
func (c *ScraperClient) ScrapeWebsite(ctx context.Context, url string) (*waterfall.ScrapeResult, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]string{"url": url})
	if err != nil {
		return nil, fmt.Errorf("marshal scrape payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultCallTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scrape-site", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create scrape request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("scrape worker error: %s", extractErrorMessage(resp.Body))
	}

	var result waterfall.ScrapeResult
	if msg, err := decodeEnvelope(resp.Body, &result); err != nil {
		return nil, err
	} else if msg != "" {
		return nil, fmt.Errorf("scrape worker error: %s", msg)
	}
	return &result, nil
}

var _ waterfall.SiteScraper = (*ScraperClient)(nil)
