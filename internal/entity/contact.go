package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NameSource records where the current owner name came from.
type NameSource string

const (
	NameSourceNone  NameSource = ""
	NameSourceRegex NameSource = "regex"
	NameSourceTeam  NameSource = "team"
	NameSourceLLM   NameSource = "llm"
)

// Rank orders name sources by authority. A candidate may only replace the
// current name when its rank is strictly higher.
func (s NameSource) Rank() int {
	switch s {
	case NameSourceRegex, NameSourceTeam:
		return 1
	case NameSourceLLM:
		return 2
	default:
		return 0
	}
}

// EmailSource records which discovery stage produced the current email.
type EmailSource string

const (
	EmailSourceNone          EmailSource = ""
	EmailSourceWebsiteScrape EmailSource = "website_scrape"
	EmailSourceLLM           EmailSource = "llm"
	EmailSourcePatternVerify EmailSource = "pattern_verify"
	EmailSourceFinder        EmailSource = "finder"
)

// VerificationStatus is the outcome of the email verification state machine.
type VerificationStatus string

const (
	VerificationUnchecked VerificationStatus = "unchecked"
	VerificationValid     VerificationStatus = "valid"
	VerificationRisky     VerificationStatus = "risky"
	VerificationInvalid   VerificationStatus = "invalid"
)

// OwnerCandidate is one person extracted from a business website before the
// upgrade policy decided whether to adopt them.
type OwnerCandidate struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	FullName  string  `json:"full_name"`
	Title     string  `json:"title,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// BusinessContact is the record the resolution engine refines. All optional
// fields are explicit pointers; there is no open-ended payload blob.
type BusinessContact struct {
	ID                      uuid.UUID          `json:"id"`
	BusinessName            string             `json:"business_name"`
	WebsiteURL              *string            `json:"website_url,omitempty"`
	Domain                  *string            `json:"domain,omitempty"`
	Phone                   *string            `json:"phone,omitempty"`
	City                    *string            `json:"city,omitempty"`
	Country                 *string            `json:"country,omitempty"`
	OwnerFirstName          *string            `json:"owner_first_name,omitempty"`
	OwnerLastName           *string            `json:"owner_last_name,omitempty"`
	NameSource              NameSource         `json:"name_source"`
	NameIsFallback          bool               `json:"name_is_fallback"`
	Email                   *string            `json:"email,omitempty"`
	EmailSource             EmailSource        `json:"email_source"`
	EmailVerified           *bool              `json:"email_verified,omitempty"`
	EmailVerificationStatus VerificationStatus `json:"email_verification_status"`
	Owners                  []OwnerCandidate   `json:"owners,omitempty"`
	CreatedAt               time.Time          `json:"created_at"`
	UpdatedAt               time.Time          `json:"updated_at"`
}

// GreetingName returns the salutation used in outreach templates. Records
// without an established person name fall back to "there".
func (c *BusinessContact) GreetingName() string {
	if c.OwnerFirstName != nil && strings.TrimSpace(*c.OwnerFirstName) != "" {
		return *c.OwnerFirstName
	}
	return "there"
}

// HasPersonName reports whether a non-fallback owner name is on file.
func (c *BusinessContact) HasPersonName() bool {
	return !c.NameIsFallback && c.OwnerFirstName != nil && *c.OwnerFirstName != ""
}

// SetEmail replaces the email and resets the verification fields for the new
// address.
func (c *BusinessContact) SetEmail(address string, source EmailSource) {
	addr := strings.ToLower(strings.TrimSpace(address))
	c.Email = &addr
	c.EmailSource = source
	c.EmailVerified = nil
	c.EmailVerificationStatus = VerificationUnchecked
}

// ClearEmail removes the email after a hard invalidation. The source is kept
// so the audit trail shows which stage produced the rejected address.
func (c *BusinessContact) ClearEmail() {
	c.Email = nil
	verified := false
	c.EmailVerified = &verified
	c.EmailVerificationStatus = VerificationInvalid
}
