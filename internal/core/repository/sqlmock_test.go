package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/duynhne/vchartered/internal/core/domain"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestSQLiteUserCreate_DBError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSQLiteUserRepository(db)

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+users`).
		WithArgs("a@x.com", "Alice", "h").
		WillReturnError(errors.New("disk I/O error"))

	err := repo.Create(context.Background(), "a@x.com", "Alice", "h")
	if err == nil || !regexp.MustCompile(`db error: .*disk I/O error`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("storage failure must not look like a duplicate: %v", err)
	}
}

func TestSQLiteUserCreate_NoRowsAffectedIsDuplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSQLiteUserRepository(db)

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+users`).
		WithArgs("a@x.com", "Alice", "h").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Create(context.Background(), "a@x.com", "Alice", "h")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}
}

func TestSQLiteUserGet_DBError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSQLiteUserRepository(db)

	mock.ExpectQuery(`(?s)^SELECT\s+email,\s*username,\s*password_hash\s+FROM\s+users\s+WHERE\s+email\s*=\s*\?$`).
		WithArgs("a@x.com").
		WillReturnError(errors.New("database is locked"))

	_, err := repo.GetByEmail(context.Background(), "a@x.com")
	if err == nil || !regexp.MustCompile(`db error: .*database is locked`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestSQLiteResultCreate_FormatsDate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSQLiteResultRepository(db)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+results`).
		WithArgs("a@x.com", "Audit", 40, "2026-10-16").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), "a@x.com", "Audit", 40, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
