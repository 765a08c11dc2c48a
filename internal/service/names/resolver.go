// Package names turns unstructured strings scraped from business websites and
// email local-parts into validated (first, last) owner name pairs. It is
// deliberately conservative: an input it cannot segment confidently yields no
// result rather than a guessed one, because a wrong split ends up in the
// greeting line of an outreach email.
package names

import (
	"strings"
	"unicode"

	"github.com/octobees/contact-resolver/internal/entity"
)

const minPrefixLen = 2

// stopwords are tokens that disqualify a string from being a person name.
// They cover role words, business-type words and corporate suffixes.
var stopwords = map[string]struct{}{
	"team": {}, "info": {}, "support": {}, "sales": {}, "office": {},
	"admin": {}, "contact": {}, "hello": {}, "enquiries": {}, "enquiry": {},
	"booking": {}, "bookings": {}, "appointments": {}, "reception": {},
	"service": {}, "services": {}, "customer": {}, "care": {}, "front": {},
	"desk": {}, "practice": {}, "clinic": {}, "dental": {}, "studio": {},
	"salon": {}, "group": {}, "agency": {}, "company": {}, "limited": {},
	"ltd": {}, "llc": {}, "inc": {}, "corp": {}, "the": {}, "and": {},
	"manager": {}, "director": {}, "owner": {}, "founder": {}, "ceo": {},
	"principal": {}, "partner": {}, "staff": {}, "general": {},
	"marketing": {}, "accounts": {}, "billing": {}, "webmaster": {},
	"help": {}, "mail": {}, "email": {},
}

var honorifics = map[string]struct{}{
	"dr": {}, "mr": {}, "mrs": {}, "ms": {}, "miss": {}, "prof": {},
	"sir": {}, "rev": {},
}

// ParsedName is the outcome of parsing a raw owner string. An empty FirstName
// means the input was rejected.
type ParsedName struct {
	FirstName string
	LastName  string
	Source    entity.NameSource
}

// SegmentLocalPart splits a concatenated email local-part such as "kategymer"
// into ("Kate", "Gymer") by longest-prefix match against the first-name
// dictionary. Digits and punctuation are stripped first. It returns false
// when no dictionary entry prefixes the input; short accidental matches are
// avoided by scanning prefix lengths from longest to shortest.
func SegmentLocalPart(localPart string) (string, string, bool) {
	dictOnce.Do(buildDictionary)

	cleaned := stripNonLetters(strings.ToLower(localPart))
	if len(cleaned) < minPrefixLen {
		return "", "", false
	}

	upper := len(cleaned)
	if upper > maxNameLen {
		upper = maxNameLen
	}
	for l := upper; l >= minPrefixLen; l-- {
		prefix := cleaned[:l]
		if _, ok := dictSet[prefix]; !ok {
			continue
		}
		remainder := cleaned[l:]
		if remainder == "" {
			// Single-name local-part, e.g. "derek".
			return capitalize(prefix), "", true
		}
		if !isAlphabetic(remainder) || len(remainder) < minPrefixLen {
			continue
		}
		return capitalize(prefix), capitalize(remainder), true
	}
	return "", "", false
}

// ParseOwnerName interprets a raw name string scraped from a website. It
// rejects job titles, role words, business-looking strings and anything with
// digits. A trailing "Team" with a preceding label is accepted as a
// pseudo-person ("CRO Info Team") tagged with NameSourceTeam so display
// logic can skip the personal greeting.
func ParseOwnerName(raw string) ParsedName {
	raw = strings.TrimSpace(raw)
	if raw == "" || containsDigit(raw) {
		return ParsedName{}
	}

	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return ParsedName{}
	}

	if len(tokens) > 1 && strings.EqualFold(tokens[len(tokens)-1], "team") {
		return ParsedName{FirstName: titleCase(raw), Source: entity.NameSourceTeam}
	}

	// Strip a leading honorific ("Dr Jane Doe").
	if _, ok := honorifics[normalizeToken(tokens[0])]; ok && len(tokens) > 1 {
		tokens = tokens[1:]
	}

	if isBusinessLike(raw, tokens) {
		return ParsedName{}
	}

	first := tokens[0]
	if len(tokens) == 1 {
		if !IsValidFirstName(first) {
			return ParsedName{}
		}
		return ParsedName{FirstName: titleCase(first), Source: entity.NameSourceRegex}
	}

	last := tokens[len(tokens)-1]
	if !IsValidNamePair(first, last) {
		return ParsedName{}
	}
	return ParsedName{
		FirstName: titleCase(first),
		LastName:  titleCase(last),
		Source:    entity.NameSourceRegex,
	}
}

// IsValidFirstName rejects role words, too-short tokens and tokens with
// characters outside letters, hyphen and apostrophe.
func IsValidFirstName(first string) bool {
	token := normalizeToken(first)
	if len([]rune(token)) < minPrefixLen {
		return false
	}
	if _, banned := stopwords[token]; banned {
		return false
	}
	return isNameChars(first)
}

// IsValidNamePair validates a two-token name; either token being a stopword
// disqualifies the pair.
func IsValidNamePair(first, last string) bool {
	if !IsValidFirstName(first) {
		return false
	}
	lastTok := normalizeToken(last)
	if lastTok == "" {
		return false
	}
	if _, banned := stopwords[lastTok]; banned {
		return false
	}
	return isNameChars(last)
}

// isBusinessLike flags strings that look like company names rather than
// people: fully uppercase multi-word strings with no dictionary hit, or
// strings made entirely of stopwords ("The Practice").
func isBusinessLike(raw string, tokens []string) bool {
	if len(tokens) > 1 && raw == strings.ToUpper(raw) {
		for _, tok := range tokens {
			if IsKnownFirstName(tok) {
				return false
			}
		}
		return true
	}

	allStop := true
	for _, tok := range tokens {
		if _, ok := stopwords[normalizeToken(tok)]; !ok {
			allStop = false
			break
		}
	}
	return allStop
}

func normalizeToken(tok string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(tok)), ".,")
}

func stripNonLetters(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isAlphabetic(value string) bool {
	for _, r := range value {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return value != ""
}

func isNameChars(value string) bool {
	for _, r := range value {
		if unicode.IsLetter(r) || r == '-' || r == '\'' {
			continue
		}
		return false
	}
	return value != ""
}

func containsDigit(value string) bool {
	for _, r := range value {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func capitalize(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}

func titleCase(value string) string {
	parts := strings.Fields(strings.ToLower(value))
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}
