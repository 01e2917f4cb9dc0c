package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dberzins/accountd/internal/common"
	"github.com/dberzins/accountd/internal/server/models"
)

var accountRowColumns = []string{
	"id", "email", "password_hash", "first_name", "last_name", "company_name",
	"company_address", "tax_id", "hourly_rate", "logo_url", "refresh_token",
	"created_at", "updated_at",
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func accountRow(id, email string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(accountRowColumns).
		AddRow(id, email, "hash", "Jane", "Doe", "Acme", "1 Main St", "TX-1", nil, "", "", now, now)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+accounts\s*\(email,\s*password_hash,.*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("u-1", now, now)
	mock.ExpectQuery(q).
		WithArgs("a@b.com", "hash", "Jane", "Doe", "Acme", "1 Main St", "TX-1", nil).
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), &models.Account{
		Email: "a@b.com", PasswordHash: "hash",
		FirstName: "Jane", LastName: "Doe", CompanyName: "Acme",
		CompanyAddress: "1 Main St", TaxID: "TX-1",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-1" {
		t.Fatalf("unexpected account: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+accounts`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	_, err := repo.Create(context.Background(), &models.Account{Email: "a@b.com", PasswordHash: "hash"})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("expected ErrorConflict for unique violation, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+id,\s*email,.*FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("a@b.com").
		WillReturnRows(accountRow("u-1", "a@b.com"))

	got, err := repo.GetByEmail(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.Email != "a@b.com" {
		t.Fatalf("unexpected account: %+v", got)
	}
	if got.HourlyRate != nil {
		t.Fatalf("expected nil hourly rate, got %v", *got.HourlyRate)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+id,\s*email,.*FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestUpdateProfile_PartialMerge(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	first := "Janet"
	rate := 95.5

	// database/sql dereferences pointer args before they reach the driver.
	mock.ExpectQuery(`(?s)UPDATE\s+accounts\s+SET\s+first_name\s*=\s*COALESCE`).
		WithArgs("u-1", "Janet", nil, nil, nil, nil, 95.5).
		WillReturnRows(accountRow("u-1", "a@b.com"))

	_, err := repo.UpdateProfile(context.Background(), "u-1", &models.ProfileUpdate{
		FirstName:  &first,
		HourlyRate: &rate,
	})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateLogo_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)UPDATE\s+accounts\s+SET\s+logo_url\s*=\s*\$2`).
		WithArgs("missing", "http://x/logo.png").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateLogo(context.Background(), "missing", "http://x/logo.png")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestSetRefreshToken(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+accounts\s+SET\s+refresh_token\s*=\s*\$2`).
		WithArgs("u-1", "tok").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetRefreshToken(context.Background(), "u-1", "tok"); err != nil {
		t.Fatalf("SetRefreshToken error: %v", err)
	}
}

func TestSetRefreshToken_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+accounts\s+SET\s+refresh_token\s*=\s*\$2`).
		WithArgs("missing", "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetRefreshToken(context.Background(), "missing", "")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
