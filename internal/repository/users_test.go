package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGXUsersRepository_FindByEmailNotFound(t *testing.T) {
	repo := &PGXUsersRepository{pool: &stubPool{
		queryRowFunc: func(context.Context, string, ...any) pgx.Row {
			return errRow{err: pgx.ErrNoRows}
		},
	}}

	if _, err := repo.FindByEmail(context.Background(), "missing@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPGXUsersRepository_CreateDuplicateEmail(t *testing.T) {
	repo := &PGXUsersRepository{pool: &stubPool{
		queryRowFunc: func(context.Context, string, ...any) pgx.Row {
			return errRow{err: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}}
		},
	}}

	if _, err := repo.Create(context.Background(), "dup@example.com", "hash", "user"); !errors.Is(err, ErrEmailDuplicate) {
		t.Fatalf("expected ErrEmailDuplicate, got %v", err)
	}
}
