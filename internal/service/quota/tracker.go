// Package quota enforces daily call budgets for paid external services. A
// single persisted counter per service is lazily reset at the UTC day
// boundary; there is no background timer.
package quota

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/octobees/contact-resolver/internal/entity"
)

// Store persists one counter record per service. Implementations must make
// Put atomic per service; the pgx-backed store uses a conditional UPDATE so
// a parallel batch runner cannot overspend.
type Store interface {
	Get(ctx context.Context, service string) (entity.QuotaRecord, bool, error)
	Put(ctx context.Context, record entity.QuotaRecord) error
}

// Status is the answer to a budget query.
type Status struct {
	Service   string `json:"service"`
	Date      string `json:"date"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	CanUse    bool   `json:"can_use"`
}

// Tracker answers remaining-budget queries and records consumption.
type Tracker struct {
	store  Store
	limits map[string]int
	now    func() time.Time
}

// Option configures optional Tracker dependencies.
type Option func(*Tracker)

// WithClock overrides the time source, used by tests to cross day
// boundaries.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker builds a tracker over the given store. limits maps service name
// to its configured daily cap; unknown services get a zero budget.
func NewTracker(store Store, limits map[string]int, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		limits: limits,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CheckDailyLimit reports today's budget for the service. A counter carrying
// a stale date is treated as reset to zero. Read failures are logged and
// treated as "no usage yet today" so a corrupt counter cannot block work.
func (t *Tracker) CheckDailyLimit(ctx context.Context, service string) Status {
	record := t.currentRecord(ctx, service)
	return t.statusFor(record)
}

// RecordUsage adds count calls (default semantics: callers pass 1 per call)
// to today's counter and persists it. Usage is clamped at the limit so the
// stored record never violates used <= limit. A persistence failure is
// returned to the caller: under-counting risks exceeding a paid API's real
// quota, so writes fail closed.
func (t *Tracker) RecordUsage(ctx context.Context, service string, count int) (Status, error) {
	if count <= 0 {
		count = 1
	}
	record := t.currentRecord(ctx, service)
	record.Used += count
	if record.Used > record.Limit {
		record.Used = record.Limit
	}
	if err := t.store.Put(ctx, record); err != nil {
		return Status{}, fmt.Errorf("persist quota for %s: %w", service, err)
	}
	return t.statusFor(record), nil
}

// Services lists the configured service names in stable order.
func (t *Tracker) Services() []string {
	names := make([]string, 0, len(t.limits))
	for name := range t.limits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Tracker) currentRecord(ctx context.Context, service string) entity.QuotaRecord {
	today := t.today()
	limit := t.limits[service]

	record, found, err := t.store.Get(ctx, service)
	if err != nil {
		log.Printf("quota: read counter for %s failed, assuming fresh day: %v", service, err)
		found = false
	}
	if !found || record.Date != today {
		return entity.QuotaRecord{Service: service, Date: today, Used: 0, Limit: limit}
	}
	// Configured limits win over what was persisted with the counter.
	record.Limit = limit
	if record.Used > record.Limit {
		record.Used = record.Limit
	}
	return record
}

func (t *Tracker) statusFor(record entity.QuotaRecord) Status {
	remaining := record.Remaining()
	return Status{
		Service:   record.Service,
		Date:      record.Date,
		Used:      record.Used,
		Limit:     record.Limit,
		Remaining: remaining,
		CanUse:    remaining > 0,
	}
}

func (t *Tracker) today() string {
	return t.now().UTC().Format("2006-01-02")
}
