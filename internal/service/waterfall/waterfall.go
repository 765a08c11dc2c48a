// Package waterfall drives a business contact record through an ordered
// sequence of discovery stages of increasing cost: on-page regex extraction,
// LLM extraction, pattern guessing with mailbox verification, and a paid
// third-party finder. Cheaper stages always run first, paid stages consult
// the quota tracker, and a candidate only replaces what is on file when the
// upgrade policy says it is strictly better.
package waterfall

import (
	"context"
	"errors"
	"log"

	"github.com/octobees/contact-resolver/internal/entity"
	"github.com/octobees/contact-resolver/internal/service/quota"
)

// Quota service identifiers. These are the keys under which daily budgets
// are configured and persisted.
const (
	ServiceVerifier = "verifier"
	ServiceFinder   = "finder"
	ServiceLLM      = "llm"
)

const defaultPatternChecks = 3

// stage is one rung of the waterfall. A stage with a quota service is gated
// on remaining budget before it runs; a false trigger skips the stage
// entirely so no budget is burned on unqualified records.
type stage struct {
	name    string
	service string
	trigger func(*entity.BusinessContact) bool
	run     func(context.Context, *entity.BusinessContact, *batchState) error
}

// batchState carries stop conditions shared by all records of one batch run.
// Once a stage hits its quota it stays halted for the remaining businesses,
// because the limit is shared across the whole run.
type batchState struct {
	halted map[string]bool
}

func newBatchState() *batchState {
	return &batchState{halted: make(map[string]bool)}
}

// Engine is the contact resolution waterfall.
type Engine struct {
	scraper    SiteScraper
	extractor  OwnerExtractor
	verifier   EmailVerifier
	finder     EmailFinder
	quota      *quota.Tracker
	patternCap int
	stages     []stage
}

// Option configures optional engine parameters.
type Option func(*Engine)

// WithPatternChecks caps how many guessed patterns are verified per
// business. The cap keeps the verifier budget spread across the batch
// instead of letting one business consume seven checks.
func WithPatternChecks(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.patternCap = n
		}
	}
}

// NewEngine wires the four discovery stages in cost order.
func NewEngine(scraper SiteScraper, extractor OwnerExtractor, verifier EmailVerifier, finder EmailFinder, tracker *quota.Tracker, opts ...Option) *Engine {
	e := &Engine{
		scraper:    scraper,
		extractor:  extractor,
		verifier:   verifier,
		finder:     finder,
		quota:      tracker,
		patternCap: defaultPatternChecks,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.stages = []stage{
		{
			name: "site_scrape",
			trigger: func(c *entity.BusinessContact) bool {
				return e.scraper != nil &&
					c.WebsiteURL != nil && *c.WebsiteURL != "" &&
					!isSocialURL(*c.WebsiteURL) &&
					!hasPersonalEmail(c)
			},
			run: e.runSiteScrape,
		},
		{
			name:    "llm_extract",
			service: ServiceLLM,
			trigger: func(c *entity.BusinessContact) bool {
				return e.extractor != nil &&
					c.WebsiteURL != nil && *c.WebsiteURL != "" &&
					(!hasPersonalEmail(c) || !c.HasPersonName())
			},
			run: e.runLLMExtract,
		},
		{
			name:    "pattern_verify",
			service: ServiceVerifier,
			trigger: func(c *entity.BusinessContact) bool {
				return e.verifier != nil &&
					c.HasPersonName() &&
					c.Domain != nil && *c.Domain != "" &&
					c.Email == nil
			},
			run: e.runPatternVerify,
		},
		{
			name:    "finder",
			service: ServiceFinder,
			trigger: func(c *entity.BusinessContact) bool {
				return e.finder != nil &&
					c.HasPersonName() &&
					c.OwnerLastName != nil && *c.OwnerLastName != "" &&
					c.Domain != nil && *c.Domain != "" &&
					c.Email == nil
			},
			run: e.runFinder,
		},
	}
	return e
}

// Resolve runs the waterfall for a single record. Re-running it on a record
// that already has a personal, valid email is a no-op that performs no
// external calls.
func (e *Engine) Resolve(ctx context.Context, c *entity.BusinessContact) error {
	return e.resolve(ctx, c, newBatchState())
}

// ResolveBatch processes records sequentially in order. A quota-exhaustion
// signal from a paid stage halts that stage for the rest of the batch while
// cheaper stages keep running.
func (e *Engine) ResolveBatch(ctx context.Context, contacts []*entity.BusinessContact) error {
	state := newBatchState()
	for _, c := range contacts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.resolve(ctx, c, state); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) resolve(ctx context.Context, c *entity.BusinessContact, state *batchState) error {
	ensureDomain(c)

	if isResolved(c) {
		return nil
	}

	for _, st := range e.stages {
		if hasPersonalEmail(c) && c.HasPersonName() {
			break
		}
		if state.halted[st.name] || !st.trigger(c) {
			continue
		}
		if st.service != "" {
			status := e.quota.CheckDailyLimit(ctx, st.service)
			if !status.CanUse {
				log.Printf("waterfall: stage=%s halted, %s budget spent (%d/%d)", st.name, st.service, status.Used, status.Limit)
				state.halted[st.name] = true
				continue
			}
		}
		if err := st.run(ctx, c, state); err != nil {
			if errors.Is(err, ErrQuotaExceeded) {
				log.Printf("waterfall: stage=%s business=%q remote quota exhausted, halting stage for batch", st.name, c.BusinessName)
				state.halted[st.name] = true
				continue
			}
			// A single stage failure never aborts the record; the next
			// stage may still produce a candidate.
			log.Printf("waterfall: stage=%s business=%q failed: %s", st.name, c.BusinessName, truncate(err.Error(), 200))
			continue
		}
	}

	if !c.HasPersonName() && c.NameSource == entity.NameSourceNone {
		c.NameIsFallback = true
	}
	return nil
}

func ensureDomain(c *entity.BusinessContact) {
	if c.Domain != nil && *c.Domain != "" {
		return
	}
	if c.WebsiteURL == nil {
		return
	}
	if domain := deriveDomain(*c.WebsiteURL); domain != "" {
		c.Domain = &domain
	}
}

func truncate(msg string, limit int) string {
	if len(msg) <= limit {
		return msg
	}
	return msg[:limit] + "..."
}
