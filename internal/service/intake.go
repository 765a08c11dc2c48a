package service

import (
	"context"
	"errors"
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
)

const defaultPhoneRegion = "GB"

// RawScrapedBusiness is the unvalidated payload handed over by the maps
// scraper and the website crawler.
type RawScrapedBusiness struct {
	BusinessName    string
	Website         string
	PrimaryPhone    string
	SecondaryPhones []string
	Emails          []string
	City            string
	Country         string
}

// CleanedBusiness is a validated and normalized business ready to become a
// contact record.
type CleanedBusiness struct {
	BusinessName string   `json:"business_name"`
	WebsiteURL   string   `json:"website_url,omitempty"`
	Domain       string   `json:"domain,omitempty"`
	Phones       []string `json:"phones,omitempty"`
	Emails       []string `json:"emails,omitempty"`
	City         string   `json:"city,omitempty"`
	Country      string   `json:"country,omitempty"`
}

// DNSResolver abstracts DNS lookups to simplify testing.
type DNSResolver interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// IntakeProcessor encapsulates the cleaning rules applied to scraped
// business payloads before they enter the resolution waterfall.
type IntakeProcessor struct {
	DefaultRegion string
	dnsResolver   DNSResolver
}

// IntakeOption configures optional dependencies.
type IntakeOption func(*IntakeProcessor)

// WithDNSResolver overrides the default DNS resolver.
func WithDNSResolver(resolver DNSResolver) IntakeOption {
	return func(p *IntakeProcessor) {
		if resolver != nil {
			p.dnsResolver = resolver
		}
	}
}

// NewIntakeProcessor builds a processor with sensible defaults.
func NewIntakeProcessor(defaultRegion string, opts ...IntakeOption) *IntakeProcessor {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	p := &IntakeProcessor{
		DefaultRegion: region,
		dnsResolver:   systemDNSResolver{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process executes all cleaning rules and returns the normalized business.
func (p *IntakeProcessor) Process(ctx context.Context, input RawScrapedBusiness) (CleanedBusiness, error) {
	name := strings.TrimSpace(input.BusinessName)
	if name == "" {
		return CleanedBusiness{}, errors.New("business_name is required")
	}

	website, domain := normalizeWebsite(input.Website)

	return CleanedBusiness{
		BusinessName: name,
		WebsiteURL:   website,
		Domain:       domain,
		Phones:       p.normalizePhones(input.PrimaryPhone, input.SecondaryPhones),
		Emails:       p.cleanEmails(ctx, input.Emails),
		City:         strings.TrimSpace(input.City),
		Country:      strings.TrimSpace(input.Country),
	}, nil
}

func (p *IntakeProcessor) cleanEmails(ctx context.Context, emails []string) []string {
	if len(emails) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(emails))
	domainCache := make(map[string]bool)
	valid := make([]string, 0, len(emails))

	for _, raw := range emails {
		email := strings.ToLower(strings.TrimSpace(raw))
		if email == "" || !emailPattern.MatchString(email) {
			continue
		}
		parts := strings.SplitN(email, "@", 2)
		domain := parts[1]
		if !isDomainValid(domain) {
			continue
		}
		asciiDomain, err := idnaProfile.ToASCII(domain)
		if err != nil || asciiDomain == "" {
			continue
		}
		if ok, cached := domainCache[asciiDomain]; cached {
			if !ok {
				continue
			}
		} else {
			hasMX := p.hasMXRecord(ctx, asciiDomain)
			domainCache[asciiDomain] = hasMX
			if !hasMX {
				continue
			}
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		valid = append(valid, email)
	}
	if len(valid) == 0 {
		return nil
	}
	return valid
}

func (p *IntakeProcessor) normalizePhones(primary string, secondary []string) []string {
	candidates := make([]string, 0, 1+len(secondary))
	if phone := strings.TrimSpace(primary); phone != "" {
		candidates = append(candidates, phone)
	}
	candidates = append(candidates, secondary...)

	seen := make(map[string]struct{}, len(candidates))
	valid := make([]string, 0, len(candidates))

	for _, raw := range candidates {
		normalized := normalizePhone(raw, p.DefaultRegion)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		valid = append(valid, normalized)
	}
	if len(valid) == 0 {
		return nil
	}
	return valid
}

func (p *IntakeProcessor) hasMXRecord(ctx context.Context, domain string) bool {
	if p.dnsResolver == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	records, err := p.dnsResolver.LookupMX(ctx, domain)
	return err == nil && len(records) > 0
}

// normalizeWebsite canonicalizes the URL and derives the bare domain with
// any leading "www." stripped.
func normalizeWebsite(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(strings.ToLower(raw))
	if err != nil || u.Host == "" {
		return "", ""
	}
	u.Scheme = "https"
	domain := strings.TrimPrefix(u.Hostname(), "www.")
	return u.String(), domain
}

func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}

type systemDNSResolver struct{}

func (systemDNSResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	return net.DefaultResolver.LookupMX(ctx, domain)
}
