package waterfall

import (
	"net/url"
	"strings"

	"github.com/octobees/contact-resolver/internal/entity"
	"github.com/octobees/contact-resolver/internal/service/emailcheck"
	"github.com/octobees/contact-resolver/internal/service/names"
)

// acceptEmail applies the email upgrade policy and mutates the record when
// the candidate wins:
//  1. no current email: any well-formed candidate is accepted;
//  2. generic current, personal candidate: upgrade;
//  3. personal current, personal candidate: first personal wins;
//  4. generic candidate over personal current: rejected.
func acceptEmail(c *entity.BusinessContact, candidate string, source entity.EmailSource) bool {
	candidate = strings.ToLower(strings.TrimSpace(candidate))
	if !emailcheck.IsWellFormed(candidate) {
		return false
	}
	switch {
	case c.Email == nil || *c.Email == "":
		c.SetEmail(candidate, source)
		return true
	case emailcheck.IsGeneric(*c.Email) && emailcheck.IsPersonal(candidate):
		c.SetEmail(candidate, source)
		return true
	default:
		return false
	}
}

// acceptName applies the name upgrade policy: a candidate replaces the
// current name only when its source outranks it, or nothing is on file yet.
func acceptName(c *entity.BusinessContact, parsed names.ParsedName) bool {
	if parsed.FirstName == "" {
		return false
	}
	if c.NameSource != entity.NameSourceNone && parsed.Source.Rank() <= c.NameSource.Rank() {
		return false
	}
	first := parsed.FirstName
	c.OwnerFirstName = &first
	if parsed.LastName != "" {
		last := parsed.LastName
		c.OwnerLastName = &last
	} else {
		c.OwnerLastName = nil
	}
	c.NameSource = parsed.Source
	c.NameIsFallback = false
	return true
}

// hasPersonalEmail reports whether the record already carries a non-generic
// address. Stage gates key off this, not off mere email presence.
func hasPersonalEmail(c *entity.BusinessContact) bool {
	return c.Email != nil && emailcheck.IsPersonal(*c.Email)
}

// isResolved is the idempotence check: a personal, verified-valid email means
// re-running the waterfall must not invoke any external stage.
func isResolved(c *entity.BusinessContact) bool {
	return hasPersonalEmail(c) && c.EmailVerificationStatus == entity.VerificationValid
}

var socialDomains = []string{
	"facebook.com", "instagram.com", "linkedin.com", "twitter.com",
	"youtube.com", "tiktok.com", "pinterest.com",
}

// isSocialURL rejects websites that are really social-media profile pages;
// scraping those yields platform boilerplate, not owner contact details.
func isSocialURL(raw string) bool {
	host := hostOf(raw)
	if host == "" {
		return false
	}
	for _, domain := range socialDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// deriveDomain lower-cases the website host and strips a leading "www.".
func deriveDomain(raw string) string {
	return strings.TrimPrefix(hostOf(raw), "www.")
}

func hostOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(strings.ToLower(raw))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.Hostname())
}
