package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/octobees/contact-resolver/internal/service/waterfall"
)

type stubDoer struct {
	requests []*http.Request
	response *http.Response
	err      error
}

func (s *stubDoer) Do(req *http.Request) (*http.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestVerifierClientVerifyEmail(t *testing.T) {
	doer := &stubDoer{response: jsonResponse(http.StatusOK, `{"status":"valid"}`)}
	verifier := NewVerifierClient(doer, "https://verify.example.com/", "key-123", 0)

	result, err := verifier.VerifyEmail(context.Background(), "derek@acme.com", "quick")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsValid || result.Status != "valid" {
		t.Fatalf("unexpected result: %+v", result)
	}

	req := doer.requests[0]
	if req.Method != http.MethodGet {
		t.Fatalf("expected GET, got %s", req.Method)
	}
	query := req.URL.Query()
	if query.Get("email") != "derek@acme.com" || query.Get("key") != "key-123" || query.Get("mode") != "quick" {
		t.Fatalf("unexpected query: %s", req.URL.RawQuery)
	}
}

func TestVerifierClientDailyLimitMapsToQuotaError(t *testing.T) {
	doer := &stubDoer{response: jsonResponse(http.StatusOK, `{"message":"Daily limit reached"}`)}
	verifier := NewVerifierClient(doer, "https://verify.example.com", "key", 0)

	_, err := verifier.VerifyEmail(context.Background(), "derek@acme.com", "quick")
	if !errors.Is(err, waterfall.ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestVerifierClient429MapsToQuotaError(t *testing.T) {
	doer := &stubDoer{response: jsonResponse(http.StatusTooManyRequests, `{"error":"slow down"}`)}
	verifier := NewVerifierClient(doer, "https://verify.example.com", "key", 0)

	_, err := verifier.VerifyEmail(context.Background(), "derek@acme.com", "power")
	if !errors.Is(err, waterfall.ErrQuotaExceeded) {
		t.Fatalf("expected quota error for 429, got %v", err)
	}
}

func TestFinderClientFindEmail(t *testing.T) {
	doer := &stubDoer{response: jsonResponse(http.StatusOK, `{"emails":[{"email":"derek@acme.com","certainty":0.92}]}`)}
	finder := NewFinderClient(doer, "https://find.example.com", "secret", 0)

	found, err := finder.FindEmail(context.Background(), "Derek", "Smith", "acme.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 1 || found[0].Email != "derek@acme.com" || found[0].Certainty != 0.92 {
		t.Fatalf("unexpected result: %+v", found)
	}

	req := doer.requests[0]
	if req.Header.Get("Authorization") != "Bearer secret" {
		t.Fatalf("expected bearer auth, got %q", req.Header.Get("Authorization"))
	}
}

func TestFinderClientErrorEnvelope(t *testing.T) {
	doer := &stubDoer{response: jsonResponse(http.StatusOK, `{"error":"daily limit of 20 lookups reached"}`)}
	finder := NewFinderClient(doer, "https://find.example.com", "secret", 0)

	if _, err := finder.FindEmail(context.Background(), "Derek", "Smith", "acme.com"); !errors.Is(err, waterfall.ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestScraperClientScrapeWebsite(t *testing.T) {
	doer := &stubDoer{response: jsonResponse(http.StatusOK,
		`{"data":{"owner_names":[{"name":"Derek Smith","has_email_match":false}],"emails":["derek@acme.com"]}}`)}
	scraper := NewScraperClient(doer, "http://scraper:9000", 0)

	result, err := scraper.ScrapeWebsite(context.Background(), "https://acme.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.OwnerNames) != 1 || result.OwnerNames[0].Name != "Derek Smith" {
		t.Fatalf("unexpected owners: %+v", result.OwnerNames)
	}
	if len(result.Emails) != 1 || result.Emails[0] != "derek@acme.com" {
		t.Fatalf("unexpected emails: %+v", result.Emails)
	}
}

func TestQuotaExhausted(t *testing.T) {
	if !quotaExhausted(http.StatusTooManyRequests, "") {
		t.Fatalf("429 must count as exhausted")
	}
	if !quotaExhausted(http.StatusOK, "Daily Limit reached for account") {
		t.Fatalf("daily limit message must count as exhausted")
	}
	if quotaExhausted(http.StatusOK, "temporary failure") {
		t.Fatalf("ordinary message must not count as exhausted")
	}
}
