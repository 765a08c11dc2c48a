package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/contact-resolver/internal/entity"
)

// PGXQuotaStore persists daily usage counters in Postgres. It satisfies
// quota.Store.
type PGXQuotaStore struct {
	pool pgxPool
}

// NewPGXQuotaStore wires a pgx backed quota store.
func NewPGXQuotaStore(pool *pgxpool.Pool) *PGXQuotaStore {
	return &PGXQuotaStore{pool: pool}
}

// Get returns the stored counter for the service, if any.
func (s *PGXQuotaStore) Get(ctx context.Context, service string) (entity.QuotaRecord, bool, error) {
	row := s.pool.QueryRow(ctx, `
        SELECT service, to_char(quota_date, 'YYYY-MM-DD'), used, daily_limit
        FROM service_quotas
        WHERE service = $1`, service)

	var record entity.QuotaRecord
	if err := row.Scan(&record.Service, &record.Date, &record.Used, &record.Limit); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.QuotaRecord{}, false, nil
		}
		return entity.QuotaRecord{}, false, fmt.Errorf("query quota for %s: %w", service, err)
	}
	return record, true, nil
}

// Put stores the counter. The guarded UPDATE keeps used monotonically
// increasing within a day, so concurrent writers cannot roll the counter
// back and overspend the budget.
func (s *PGXQuotaStore) Put(ctx context.Context, record entity.QuotaRecord) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO service_quotas (service, quota_date, used, daily_limit)
        VALUES ($1, $2::date, $3, $4)
        ON CONFLICT (service) DO UPDATE SET
            used = CASE
                WHEN service_quotas.quota_date <> EXCLUDED.quota_date THEN EXCLUDED.used
                ELSE GREATEST(service_quotas.used, EXCLUDED.used)
            END,
            quota_date = EXCLUDED.quota_date,
            daily_limit = EXCLUDED.daily_limit`,
		record.Service, record.Date, record.Used, record.Limit)
	if err != nil {
		return fmt.Errorf("persist quota for %s: %w", record.Service, err)
	}
	return nil
}
