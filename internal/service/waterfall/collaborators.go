package waterfall

import (
	"context"
	"errors"

	"github.com/octobees/contact-resolver/internal/service/emailcheck"
)

// ErrQuotaExceeded signals that a paid external service reported its daily
// limit spent. The engine treats it as a batch-level stop for the stage that
// raised it, not as a per-record retryable failure.
var ErrQuotaExceeded = errors.New("daily quota exceeded")

// ScrapedOwner is one person found in a website's page text, possibly paired
// with an email that appeared next to their name.
type ScrapedOwner struct {
	Name          string  `json:"name"`
	Title         string  `json:"title,omitempty"`
	MatchedEmail  *string `json:"matched_email,omitempty"`
	HasEmailMatch bool    `json:"has_email_match"`
}

// ScrapeResult is the regex stage's raw output.
type ScrapeResult struct {
	OwnerNames []ScrapedOwner `json:"owner_names"`
	Emails     []string       `json:"emails"`
}

// SiteScraper fetches a website and extracts owner names and addresses from
// the on-page text and mailto links.
type SiteScraper interface {
	ScrapeWebsite(ctx context.Context, url string) (*ScrapeResult, error)
}

// ExtractedOwner is a person the LLM stage pulled out of a website.
type ExtractedOwner struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
	Email string `json:"email,omitempty"`
}

// TypedEmail is an address the LLM classified as personal or generic.
type TypedEmail struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

// ExtractResult carries the LLM stage output. Token counts are reported in
// logs only; they never gate behavior.
type ExtractResult struct {
	Owners       []ExtractedOwner `json:"owners"`
	Emails       []TypedEmail     `json:"emails"`
	InputTokens  int              `json:"input_tokens"`
	OutputTokens int              `json:"output_tokens"`
}

// OwnerExtractor asks an LLM to read a business website and return owner
// candidates. A nil result with nil error means the model found nothing.
type OwnerExtractor interface {
	ExtractOwners(ctx context.Context, businessName, url string) (*ExtractResult, error)
}

// EmailVerifier checks whether a mailbox accepts mail. Implementations map a
// remote "daily limit" response to ErrQuotaExceeded.
type EmailVerifier interface {
	VerifyEmail(ctx context.Context, address, mode string) (emailcheck.VerifyResult, error)
}

// FoundEmail is a finder hit with the provider's certainty score.
type FoundEmail struct {
	Email     string  `json:"email"`
	Certainty float64 `json:"certainty"`
}

// EmailFinder looks up an address from a full name and domain via a paid
// third-party API. Implementations map "daily limit" responses to
// ErrQuotaExceeded.
type EmailFinder interface {
	FindEmail(ctx context.Context, firstName, lastName, domain string) ([]FoundEmail, error)
}
