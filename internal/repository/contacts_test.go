package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/octobees/contact-resolver/internal/dto"
	"github.com/octobees/contact-resolver/internal/entity"
)

type stubPool struct {
	execFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	queryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	queryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *stubPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return s.execFunc(ctx, sql, args...)
}

func (s *stubPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return s.queryFunc(ctx, sql, args...)
}

func (s *stubPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return s.queryRowFunc(ctx, sql, args...)
}

type stubContactRows struct {
	called bool
}

func (s *stubContactRows) Close()                                       {}
func (s *stubContactRows) Err() error                                   { return nil }
func (s *stubContactRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (s *stubContactRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (s *stubContactRows) Next() bool {
	if s.called {
		return false
	}
	s.called = true
	return true
}

func (s *stubContactRows) Scan(dest ...any) error {
	if !s.called {
		return errors.New("scan called before next")
	}
	id := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	website := "https://acme.com"
	domain := "acme.com"
	phone := "+442079460958"
	city := "London"
	country := "UK"
	first := "Derek"
	last := "Smith"
	email := "derek@acme.com"
	created := time.Now()

	*dest[0].(*uuid.UUID) = id
	*dest[1].(*string) = "Acme Plumbing"
	*dest[2].(**string) = &website
	*dest[3].(**string) = &domain
	*dest[4].(**string) = &phone
	*dest[5].(**string) = &city
	*dest[6].(**string) = &country
	*dest[7].(**string) = &first
	*dest[8].(**string) = &last
	*dest[9].(*string) = "regex"
	*dest[10].(*bool) = false
	*dest[11].(**string) = &email
	*dest[12].(*string) = "pattern_verify"
	*dest[13].(*sql.NullBool) = sql.NullBool{Bool: true, Valid: true}
	*dest[14].(*string) = "valid"
	*dest[15].(*[]byte) = []byte(`[{"first_name":"Derek","last_name":"Smith","full_name":"Derek Smith"}]`)
	*dest[16].(*time.Time) = created
	*dest[17].(*time.Time) = created
	return nil
}

func (s *stubContactRows) Values() ([]any, error) { return nil, nil }
func (s *stubContactRows) RawValues() [][]byte    { return nil }
func (s *stubContactRows) Conn() *pgx.Conn        { return nil }

func TestPGXContactsRepository_UpsertValidation(t *testing.T) {
	repo := &PGXContactsRepository{}
	if err := repo.Upsert(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil contact")
	}
}

func TestPGXContactsRepository_UpsertAssignsID(t *testing.T) {
	var gotArgs []any
	repo := &PGXContactsRepository{pool: &stubPool{
		execFunc: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
			gotArgs = args
			return pgconn.CommandTag{}, nil
		},
	}}

	contact := &entity.BusinessContact{BusinessName: "Acme Plumbing"}
	if err := repo.Upsert(context.Background(), contact); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contact.ID == uuid.Nil {
		t.Fatalf("expected id assigned on first upsert")
	}
	if len(gotArgs) != 16 {
		t.Fatalf("expected 16 args, got %d", len(gotArgs))
	}
	if gotArgs[0] != contact.ID {
		t.Fatalf("expected id arg, got %v", gotArgs[0])
	}
}

func TestCollectContacts(t *testing.T) {
	contacts, err := collectContacts(&stubContactRows{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}

	c := contacts[0]
	if c.BusinessName != "Acme Plumbing" {
		t.Fatalf("unexpected contact: %+v", c)
	}
	if c.NameSource != entity.NameSourceRegex || c.EmailSource != entity.EmailSourcePatternVerify {
		t.Fatalf("unexpected sources: %s / %s", c.NameSource, c.EmailSource)
	}
	if c.EmailVerificationStatus != entity.VerificationValid {
		t.Fatalf("unexpected status: %s", c.EmailVerificationStatus)
	}
	if c.EmailVerified == nil || !*c.EmailVerified {
		t.Fatalf("expected verified flag decoded")
	}
	if len(c.Owners) != 1 || c.Owners[0].FullName != "Derek Smith" {
		t.Fatalf("expected owners decoded, got %+v", c.Owners)
	}
}

func TestPGXContactsRepository_ListBuildsConditions(t *testing.T) {
	hasEmail := true
	var gotSQL string
	var gotArgs []any
	repo := &PGXContactsRepository{pool: &stubPool{
		queryFunc: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
			gotSQL = sql
			gotArgs = args
			return &stubContactRows{called: true}, nil
		},
	}}

	_, err := repo.List(context.Background(), dto.ContactListFilter{
		Q:                  "acme",
		Domain:             "Acme.com",
		VerificationStatus: "valid",
		HasEmail:           &hasEmail,
		Page:               2,
		PerPage:            25,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, fragment := range []string{"business_name ILIKE", "domain = $2", "email_verification_status = $3", "email IS NOT NULL", "LIMIT $4 OFFSET $5"} {
		if !strings.Contains(gotSQL, fragment) {
			t.Fatalf("expected query to contain %q, got:\n%s", fragment, gotSQL)
		}
	}
	if gotArgs[1] != "acme.com" {
		t.Fatalf("expected domain lower-cased, got %v", gotArgs[1])
	}
	if gotArgs[3] != 25 || gotArgs[4] != 25 {
		t.Fatalf("expected limit 25 offset 25, got %v", gotArgs[3:])
	}
}

func TestPGXContactsRepository_GetByIDNotFound(t *testing.T) {
	repo := &PGXContactsRepository{pool: &stubPool{
		queryRowFunc: func(context.Context, string, ...any) pgx.Row {
			return errRow{err: pgx.ErrNoRows}
		},
	}}

	if _, err := repo.GetByID(context.Background(), uuid.New()); !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }
