package waterfall

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/octobees/contact-resolver/internal/entity"
	"github.com/octobees/contact-resolver/internal/service/emailcheck"
	"github.com/octobees/contact-resolver/internal/service/names"
)

// runSiteScrape is stage 1: free regex extraction from the website's own
// pages. Owner entries paired with an email are the strongest candidates.
// Addresses published on the site itself skip mailbox verification.
func (e *Engine) runSiteScrape(ctx context.Context, c *entity.BusinessContact, _ *batchState) error {
	res, err := e.scraper.ScrapeWebsite(ctx, *c.WebsiteURL)
	if err != nil {
		return fmt.Errorf("scrape %s: %w", *c.WebsiteURL, err)
	}
	if res == nil {
		return nil
	}

	owners := append([]ScrapedOwner(nil), res.OwnerNames...)
	sort.SliceStable(owners, func(i, j int) bool {
		return owners[i].HasEmailMatch && !owners[j].HasEmailMatch
	})

	var people []entity.OwnerCandidate
	seen := make(map[string]struct{})
	for _, owner := range owners {
		parsed := names.ParseOwnerName(owner.Name)
		if parsed.FirstName == "" {
			continue
		}
		key := strings.ToLower(parsed.FirstName + " " + parsed.LastName)
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			people = append(people, entity.OwnerCandidate{
				FirstName: parsed.FirstName,
				LastName:  parsed.LastName,
				FullName:  strings.TrimSpace(parsed.FirstName + " " + parsed.LastName),
				Title:     owner.Title,
				Email:     owner.MatchedEmail,
			})
		}

		acceptName(c, parsed)
		if owner.HasEmailMatch && owner.MatchedEmail != nil {
			if acceptEmail(c, *owner.MatchedEmail, entity.EmailSourceWebsiteScrape) {
				emailcheck.MarkPublished(c)
			}
		}
	}

	// The singular owner fields are a projection of this list, never an
	// independent source; only keep it when the site shows several people.
	if len(people) > 1 {
		c.Owners = people
	}

	for _, pass := range []func(string) bool{emailcheck.IsPersonal, emailcheck.IsGeneric} {
		for _, address := range res.Emails {
			if !pass(address) {
				continue
			}
			if acceptEmail(c, address, entity.EmailSourceWebsiteScrape) {
				emailcheck.MarkPublished(c)
			}
		}
	}

	// A personal address with no name on file may carry one in its
	// local-part ("kategymer@...").
	if hasPersonalEmail(c) && !c.HasPersonName() {
		if first, last, ok := names.SegmentLocalPart(emailcheck.LocalPart(*c.Email)); ok {
			acceptName(c, names.ParsedName{
				FirstName: first,
				LastName:  last,
				Source:    entity.NameSourceRegex,
			})
		}
	}
	return nil
}

// runLLMExtract is stage 2: model-driven extraction for sites where plain
// regex found nothing usable. Emails the model labels personal are preferred
// but stay unchecked until a verification stage touches them.
func (e *Engine) runLLMExtract(ctx context.Context, c *entity.BusinessContact, _ *batchState) error {
	res, err := e.extractor.ExtractOwners(ctx, c.BusinessName, *c.WebsiteURL)
	if err != nil {
		return fmt.Errorf("llm extract: %w", err)
	}
	if _, usageErr := e.quota.RecordUsage(ctx, ServiceLLM, 1); usageErr != nil {
		return usageErr
	}
	if res == nil {
		return nil
	}

	log.Printf("waterfall: llm extraction business=%q input_tokens=%d output_tokens=%d", c.BusinessName, res.InputTokens, res.OutputTokens)

	for _, owner := range res.Owners {
		parsed := names.ParseOwnerName(owner.Name)
		if parsed.FirstName == "" {
			continue
		}
		if parsed.Source != entity.NameSourceTeam {
			parsed.Source = entity.NameSourceLLM
		}
		acceptName(c, parsed)
		if owner.Email != "" {
			acceptEmail(c, owner.Email, entity.EmailSourceLLM)
		}
	}

	for _, typed := range res.Emails {
		if !strings.EqualFold(typed.Type, "personal") {
			continue
		}
		acceptEmail(c, typed.Email, entity.EmailSourceLLM)
	}
	for _, typed := range res.Emails {
		if strings.EqualFold(typed.Type, "personal") {
			continue
		}
		acceptEmail(c, typed.Email, entity.EmailSourceLLM)
	}
	return nil
}

// guessPatterns returns the ordered address guesses for a known name and
// domain. The order reflects observed hit rates for small businesses.
func guessPatterns(first, last, domain string) []string {
	first = strings.ToLower(first)
	last = strings.ToLower(last)
	initial := first[:1]

	patterns := []string{first + "@" + domain}
	if last != "" {
		patterns = append(patterns,
			first+"."+last+"@"+domain,
			initial+"."+last+"@"+domain,
			first+last+"@"+domain,
			initial+last+"@"+domain,
			last+"@"+domain,
			first+"_"+last+"@"+domain,
		)
	}
	return patterns
}

// runPatternVerify is stage 3: guess common address patterns and verify each
// against the mailbox, spending at most patternCap verification credits per
// business. The first pattern the verifier reports deliverable wins.
func (e *Engine) runPatternVerify(ctx context.Context, c *entity.BusinessContact, state *batchState) error {
	last := ""
	if c.OwnerLastName != nil {
		last = *c.OwnerLastName
	}
	patterns := guessPatterns(*c.OwnerFirstName, last, *c.Domain)

	checked := 0
	for _, candidate := range patterns {
		if checked >= e.patternCap {
			break
		}
		status := e.quota.CheckDailyLimit(ctx, ServiceVerifier)
		if !status.CanUse {
			state.halted["pattern_verify"] = true
			return nil
		}

		result, err := e.verifier.VerifyEmail(ctx, candidate, "quick")
		if err != nil {
			if isQuotaErr(err) {
				return err
			}
			log.Printf("waterfall: pattern check %s failed: %s", candidate, truncate(err.Error(), 120))
			continue
		}
		checked++
		if _, usageErr := e.quota.RecordUsage(ctx, ServiceVerifier, 1); usageErr != nil {
			return usageErr
		}

		if result.IsValid || strings.EqualFold(result.Status, "safe") {
			c.SetEmail(candidate, entity.EmailSourcePatternVerify)
			emailcheck.ApplyVerification(c, emailcheck.VerifyResult{IsValid: true, Status: result.Status})
			return nil
		}
	}
	return nil
}

// runFinder is stage 4: one paid finder credit for the highest-certainty
// candidate, then a verification pass when budget remains. An invalid
// verdict clears the address; risky or unchecked results are retained.
func (e *Engine) runFinder(ctx context.Context, c *entity.BusinessContact, _ *batchState) error {
	found, err := e.finder.FindEmail(ctx, *c.OwnerFirstName, *c.OwnerLastName, *c.Domain)
	if err != nil {
		if isQuotaErr(err) {
			return err
		}
		return fmt.Errorf("finder lookup: %w", err)
	}
	if _, usageErr := e.quota.RecordUsage(ctx, ServiceFinder, 1); usageErr != nil {
		return usageErr
	}
	if len(found) == 0 {
		return nil
	}

	// Highest certainty first; ties keep the provider's order.
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Certainty > found[j].Certainty
	})

	for _, hit := range found {
		if acceptEmail(c, hit.Email, entity.EmailSourceFinder) {
			break
		}
	}
	if c.Email == nil || c.EmailSource != entity.EmailSourceFinder {
		return nil
	}

	if e.verifier == nil || !e.quota.CheckDailyLimit(ctx, ServiceVerifier).CanUse {
		return nil
	}
	result, err := e.verifier.VerifyEmail(ctx, *c.Email, "power")
	if err != nil {
		// A transient failure must not destroy the only lead on file.
		log.Printf("waterfall: finder verification for business=%q failed, keeping unchecked: %s", c.BusinessName, truncate(err.Error(), 120))
		return nil
	}
	if _, usageErr := e.quota.RecordUsage(ctx, ServiceVerifier, 1); usageErr != nil {
		return usageErr
	}
	emailcheck.ApplyVerification(c, emailcheck.VerifyResult{IsValid: result.IsValid, Status: result.Status})
	return nil
}

func isQuotaErr(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}
