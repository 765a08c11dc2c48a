// Package emailcheck classifies addresses as generic (role-based) or
// personal and applies verification outcomes to a contact record.
package emailcheck

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/idna"

	"github.com/octobees/contact-resolver/internal/entity"
)

var addressPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)

// rolePrefixes are local-parts that belong to a department rather than a
// person. An address is generic when its local-part equals one of these, or
// is one of these followed only by digits ("info2@..."). Dot-joined locals
// ("hello.world@...") are treated as personal.
var rolePrefixes = []string{
	"info", "hello", "contact", "enquiries", "admin", "office", "sales",
	"mail", "support", "team", "help", "service", "bookings", "booking",
	"appointments", "reception", "general",
}

// IsGeneric reports whether the address is role-based.
func IsGeneric(email string) bool {
	local, _, ok := splitAddress(email)
	if !ok {
		return false
	}
	for _, prefix := range rolePrefixes {
		if local == prefix {
			return true
		}
		if strings.HasPrefix(local, prefix) && digitsOnly(local[len(prefix):]) {
			return true
		}
	}
	return false
}

// IsPersonal reports whether the address plausibly belongs to an individual.
func IsPersonal(email string) bool {
	if _, _, ok := splitAddress(email); !ok {
		return false
	}
	return !IsGeneric(email)
}

// IsWellFormed checks syntax and that the domain survives an IDNA round
// trip. It does not check mailbox existence.
func IsWellFormed(email string) bool {
	local, domain, ok := splitAddress(email)
	if !ok || local == "" {
		return false
	}
	ascii, err := idna.Lookup.ToASCII(domain)
	return err == nil && ascii != ""
}

// LocalPart returns the lower-cased local-part, or "" for malformed input.
func LocalPart(email string) string {
	local, _, ok := splitAddress(email)
	if !ok {
		return ""
	}
	return local
}

// VerifyResult is the normalized outcome of an external verification call.
type VerifyResult struct {
	IsValid bool
	Status  string
}

// ApplyVerification advances the contact's verification state machine:
// valid retains the email, risky retains it with the risky status so the
// exporter can decide, anything else clears the address. Callers handle
// transport errors themselves; a failed call must not reach this function.
func ApplyVerification(contact *entity.BusinessContact, result VerifyResult) {
	verified := false
	switch {
	case result.IsValid:
		verified = true
		contact.EmailVerified = &verified
		contact.EmailVerificationStatus = entity.VerificationValid
	case strings.EqualFold(result.Status, "risky"):
		contact.EmailVerified = &verified
		contact.EmailVerificationStatus = entity.VerificationRisky
	default:
		contact.ClearEmail()
	}
}

// MarkPublished marks an email that was scraped verbatim from the business's
// own website. Published addresses skip mailbox verification entirely.
func MarkPublished(contact *entity.BusinessContact) {
	verified := true
	contact.EmailVerified = &verified
	contact.EmailVerificationStatus = entity.VerificationValid
}

func splitAddress(email string) (string, string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !addressPattern.MatchString(email) {
		return "", "", false
	}
	parts := strings.SplitN(email, "@", 2)
	return parts[0], parts[1], true
}

func digitsOnly(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
