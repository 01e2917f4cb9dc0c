// Package services contains server-side business logic. This file implements
// AccountService: registration with the credential policy, credential checks
// on login, profile and logo-reference updates, and sanitizing accounts
// before they cross the system boundary.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dberzins/accountd/internal/common"
	"github.com/dberzins/accountd/internal/dbx"
	"github.com/dberzins/accountd/internal/server/auth"
	"github.com/dberzins/accountd/internal/server/models"
	"github.com/dberzins/accountd/internal/server/repositories/repomanager"
)

// RegisterParams carries a registration request. Email and Password are
// required; all profile fields are optional.
type RegisterParams struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	CompanyName    string
	CompanyAddress string
	TaxID          string
	HourlyRate     *float64
}

// AccountService provides CRUD over the account entity plus the credential
// policy applied at creation.
type AccountService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

// NewAccountService constructs an AccountService over the given pool and
// repository manager.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager) *AccountService {
	return &AccountService{db: db, repos: m}
}

// Register validates the new credentials, hashes the password, and persists
// the account. The uniqueness check and the insert run in one transaction so
// the read stays adjacent to the write; a concurrent duplicate still
// surfaces as a conflict through the unique constraint.
//
// Check order is fixed for deterministic error reporting:
// uniqueness, then email format, then length, then complexity.
func (s *AccountService) Register(ctx context.Context, params RegisterParams) (*models.Account, error) {
	var account *models.Account

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Accounts(tx)

		if err := s.validateNewAccount(ctx, tx, params.Email, params.Password); err != nil {
			return err
		}

		hash, err := auth.HashPassword(params.Password)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}

		account, err = repo.Create(ctx, &models.Account{
			Email:          params.Email,
			PasswordHash:   hash,
			FirstName:      params.FirstName,
			LastName:       params.LastName,
			CompanyName:    params.CompanyName,
			CompanyAddress: params.CompanyAddress,
			TaxID:          params.TaxID,
			HourlyRate:     params.HourlyRate,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// Authenticate verifies the email/password pair. Both an unknown email and a
// wrong password report the same message so account existence does not leak.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	repo := s.repos.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", common.ErrorUnauthorized)
		}
		return nil, err
	}

	if !auth.CheckPassword(password, account.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid email or password", common.ErrorUnauthorized)
	}

	return account, nil
}

// GetByID returns the account or common.ErrorNotFound.
func (s *AccountService) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return s.repos.Accounts(s.db).GetByID(ctx, id)
}

// GetByEmail returns the account or common.ErrorNotFound.
func (s *AccountService) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.repos.Accounts(s.db).GetByEmail(ctx, email)
}

// UpdateProfile merges only the supplied fields. An update with zero fields
// is rejected before any record-store write.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, update *models.ProfileUpdate) (*models.Account, error) {
	if update.Empty() {
		return nil, fmt.Errorf("%w: at least one field must be provided for update", common.ErrorValidation)
	}
	return s.repos.Accounts(s.db).UpdateProfile(ctx, id, update)
}

// UpdateLogo overwrites the account's logo reference. Deleting the
// superseded blob is the caller's responsibility.
func (s *AccountService) UpdateLogo(ctx context.Context, id string, logoURL string) (*models.Account, error) {
	return s.repos.Accounts(s.db).UpdateLogo(ctx, id, logoURL)
}

// Sanitize produces the external-facing view of an account. Mandatory on
// every path that returns an account to a caller.
func (s *AccountService) Sanitize(account *models.Account) *models.SanitizedAccount {
	return account.Sanitized()
}

func (s *AccountService) validateNewAccount(ctx context.Context, tx dbx.DBTX, email, password string) error {
	repo := s.repos.Accounts(tx)

	// Uniqueness is checked before format, matching the historical contract
	// of the API even though it costs a lookup on malformed input.
	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return fmt.Errorf("%w: email already registered", common.ErrorConflict)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	if err := auth.ValidateEmail(email); err != nil {
		return err
	}

	return auth.ValidatePassword(password)
}
