package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/contact-resolver/internal/dto"
	"github.com/octobees/contact-resolver/internal/entity"
)

// ErrContactNotFound indicates there is no contact row for the identifier.
var ErrContactNotFound = errors.New("contact not found")

// pgxPool is the subset of pgxpool.Pool the repositories depend on; tests
// substitute a stub.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// ContactsRepository describes persistence operations for business contacts.
type ContactsRepository interface {
	Upsert(ctx context.Context, contact *entity.BusinessContact) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BusinessContact, error)
	List(ctx context.Context, filter dto.ContactListFilter) ([]entity.BusinessContact, error)
	ListUnresolved(ctx context.Context, limit int) ([]entity.BusinessContact, error)
}

// PGXContactsRepository implements ContactsRepository using pgx.
type PGXContactsRepository struct {
	pool pgxPool
}

// NewPGXContactsRepository wires a pgx backed repository.
func NewPGXContactsRepository(pool *pgxpool.Pool) *PGXContactsRepository {
	return &PGXContactsRepository{pool: pool}
}

const contactColumns = `
	id, business_name, website_url, domain, phone, city, country,
	owner_first_name, owner_last_name, name_source, name_is_fallback,
	email, email_source, email_verified, email_verification_status,
	owners, created_at, updated_at`

// Upsert inserts or updates a contact keyed by id.
func (r *PGXContactsRepository) Upsert(ctx context.Context, contact *entity.BusinessContact) error {
	if contact == nil {
		return fmt.Errorf("contact payload is nil")
	}
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}

	owners, err := json.Marshal(contact.Owners)
	if err != nil {
		return fmt.Errorf("marshal owners: %w", err)
	}

	query := `
        INSERT INTO business_contacts (
            id, business_name, website_url, domain, phone, city, country,
            owner_first_name, owner_last_name, name_source, name_is_fallback,
            email, email_source, email_verified, email_verification_status,
            owners, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
            $16::jsonb, NOW()
        )
        ON CONFLICT (id) DO UPDATE SET
            business_name = EXCLUDED.business_name,
            website_url = EXCLUDED.website_url,
            domain = EXCLUDED.domain,
            phone = EXCLUDED.phone,
            city = EXCLUDED.city,
            country = EXCLUDED.country,
            owner_first_name = EXCLUDED.owner_first_name,
            owner_last_name = EXCLUDED.owner_last_name,
            name_source = EXCLUDED.name_source,
            name_is_fallback = EXCLUDED.name_is_fallback,
            email = EXCLUDED.email,
            email_source = EXCLUDED.email_source,
            email_verified = EXCLUDED.email_verified,
            email_verification_status = EXCLUDED.email_verification_status,
            owners = EXCLUDED.owners,
            updated_at = NOW();
    `

	_, err = r.pool.Exec(ctx, query,
		contact.ID,
		contact.BusinessName,
		contact.WebsiteURL,
		contact.Domain,
		contact.Phone,
		contact.City,
		contact.Country,
		contact.OwnerFirstName,
		contact.OwnerLastName,
		string(contact.NameSource),
		contact.NameIsFallback,
		contact.Email,
		string(contact.EmailSource),
		contact.EmailVerified,
		string(contact.EmailVerificationStatus),
		string(owners),
	)
	if err != nil {
		return fmt.Errorf("upsert contact: %w", err)
	}
	return nil
}

// GetByID retrieves a single contact.
func (r *PGXContactsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.BusinessContact, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM business_contacts WHERE id = $1`, id)

	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("query contact by id: %w", err)
	}
	return contact, nil
}

// List returns contacts matching the filter, most recently updated first.
func (r *PGXContactsRepository) List(ctx context.Context, filter dto.ContactListFilter) ([]entity.BusinessContact, error) {
	conditions := []string{"TRUE"}
	args := []any{}

	appendArg := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if q := strings.TrimSpace(filter.Q); q != "" {
		appendArg("business_name ILIKE '%%' || $%d || '%%'", q)
	}
	if filter.Domain != "" {
		appendArg("domain = $%d", strings.ToLower(filter.Domain))
	}
	if filter.City != "" {
		appendArg("city = $%d", filter.City)
	}
	if filter.Country != "" {
		appendArg("country = $%d", filter.Country)
	}
	if filter.VerificationStatus != "" {
		appendArg("email_verification_status = $%d", filter.VerificationStatus)
	}
	if filter.HasEmail != nil {
		if *filter.HasEmail {
			conditions = append(conditions, "email IS NOT NULL")
		} else {
			conditions = append(conditions, "email IS NULL")
		}
	}

	offset := (filter.Page - 1) * filter.PerPage
	args = append(args, filter.PerPage)
	limitPos := len(args)
	args = append(args, offset)
	offsetPos := len(args)

	query := fmt.Sprintf(`SELECT %s FROM business_contacts WHERE %s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`,
		contactColumns, strings.Join(conditions, " AND "), limitPos, offsetPos)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

// ListUnresolved returns contacts that still lack a personal, valid email or
// an owner name. The engine's own idempotence check refines this coarse SQL
// filter.
func (r *PGXContactsRepository) ListUnresolved(ctx context.Context, limit int) ([]entity.BusinessContact, error) {
	query := `
        SELECT ` + contactColumns + `
        FROM business_contacts
        WHERE email IS NULL
           OR email_verification_status <> 'valid'
           OR owner_first_name IS NULL
        ORDER BY created_at ASC
        LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list unresolved contacts: %w", err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

func collectContacts(rows pgx.Rows) ([]entity.BusinessContact, error) {
	var contacts []entity.BusinessContact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

func scanContact(row pgx.Row) (*entity.BusinessContact, error) {
	var (
		c          entity.BusinessContact
		nameSource string
		source     string
		status     string
		verified   sql.NullBool
		owners     []byte
	)

	err := row.Scan(
		&c.ID, &c.BusinessName, &c.WebsiteURL, &c.Domain, &c.Phone, &c.City, &c.Country,
		&c.OwnerFirstName, &c.OwnerLastName, &nameSource, &c.NameIsFallback,
		&c.Email, &source, &verified, &status,
		&owners, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.NameSource = entity.NameSource(nameSource)
	c.EmailSource = entity.EmailSource(source)
	c.EmailVerificationStatus = entity.VerificationStatus(status)
	if verified.Valid {
		value := verified.Bool
		c.EmailVerified = &value
	}
	if len(owners) > 0 {
		if err := json.Unmarshal(owners, &c.Owners); err != nil {
			return nil, fmt.Errorf("decode owners: %w", err)
		}
	}
	return &c, nil
}
