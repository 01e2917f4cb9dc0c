// Package accounts provides the PostgreSQL-backed account repository.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dberzins/accountd/internal/common"
	"github.com/dberzins/accountd/internal/dbx"
	"github.com/dberzins/accountd/internal/server/models"
)

const uniqueViolation = "23505"

const accountColumns = `id, email, password_hash, first_name, last_name, company_name,
		company_address, tax_id, hourly_rate::float8, logo_url, refresh_token, created_at, updated_at`

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (email, password_hash, first_name, last_name,
			company_name, company_address, tax_id, hourly_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		account.Email, account.PasswordHash, account.FirstName, account.LastName,
		account.CompanyName, account.CompanyAddress, account.TaxID, account.HourlyRate,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: email already registered", common.ErrorConflict)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// UpdateProfile merges only the supplied fields; nil parameters keep the
// stored value via COALESCE.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, update *models.ProfileUpdate) (*models.Account, error) {
	query := `
		UPDATE accounts SET
			first_name = COALESCE($2::text, first_name),
			last_name = COALESCE($3::text, last_name),
			company_name = COALESCE($4::text, company_name),
			company_address = COALESCE($5::text, company_address),
			tax_id = COALESCE($6::text, tax_id),
			hourly_rate = COALESCE($7::numeric, hourly_rate),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + accountColumns

	return r.scanOne(r.db.QueryRowContext(ctx, query, id,
		update.FirstName, update.LastName, update.CompanyName,
		update.CompanyAddress, update.TaxID, update.HourlyRate))
}

// UpdateLogo overwrites the logo reference unconditionally; lifecycle of the
// superseded blob is the caller's concern.
func (r *PostgresRepository) UpdateLogo(ctx context.Context, id string, logoURL string) (*models.Account, error) {
	query := `
		UPDATE accounts SET logo_url = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + accountColumns

	return r.scanOne(r.db.QueryRowContext(ctx, query, id, logoURL))
}

// SetRefreshToken overwrites the stored refresh token. The empty string
// encodes "no active session".
func (r *PostgresRepository) SetRefreshToken(ctx context.Context, id string, token string) error {
	query := `UPDATE accounts SET refresh_token = $2, updated_at = now() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID, &account.Email, &account.PasswordHash,
		&account.FirstName, &account.LastName, &account.CompanyName,
		&account.CompanyAddress, &account.TaxID, &account.HourlyRate,
		&account.LogoURL, &account.RefreshToken,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}
