package users

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoEnsureReturnsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("uid-1", "a@b.c", "Alice").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := repo.Ensure(context.Background(), "uid-1", "a@b.c", "Alice")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected id 7, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoEnsureEmptyOptionalFieldsPassedAsNull(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("uid-2", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	if _, err := repo.Ensure(context.Background(), "uid-2", "", ""); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestMemoryRepoEnsureIdempotent(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	first, err := repo.Ensure(ctx, "uid-1", "a@b.c", "Alice")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	second, err := repo.Ensure(ctx, "uid-1", "", "")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if first != second {
		t.Fatalf("expected same id for repeated identity, got %d and %d", first, second)
	}

	user, err := repo.GetByID(ctx, first)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.Email != "a@b.c" {
		t.Fatalf("expected email preserved, got %q", user.Email)
	}
}
