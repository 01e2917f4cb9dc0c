package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dberzins/accountd/internal/common"
	"github.com/dberzins/accountd/internal/server/auth"
	"github.com/dberzins/accountd/internal/server/models"
	"github.com/dberzins/accountd/internal/server/repositories/repomanager"
)

// SessionService maintains the single-active-refresh-token-per-account model.
// Every issuance overwrites the stored token, which invalidates any
// previously issued refresh token for that account even before it expires.
type SessionService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	issuer *auth.Issuer
}

// NewSessionService constructs a SessionService.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.Issuer) *SessionService {
	return &SessionService{db: db, repos: m, issuer: issuer}
}

// IssueFor mints a token pair for the account and stores the refresh token,
// superseding any previous one.
func (s *SessionService) IssueFor(ctx context.Context, account *models.Account) (*models.TokenPair, error) {
	pair, err := s.issuer.Issue(models.TokenPayload{AccountID: account.ID, Email: account.Email})
	if err != nil {
		return nil, fmt.Errorf("error issuing tokens: %w", err)
	}

	if err := s.StoreRefresh(ctx, account.ID, pair.RefreshToken); err != nil {
		return nil, err
	}

	return pair, nil
}

// StoreRefresh unconditionally overwrites the account's stored refresh token.
// The empty string encodes "no active session".
func (s *SessionService) StoreRefresh(ctx context.Context, accountID string, token string) error {
	return s.repos.Accounts(s.db).SetRefreshToken(ctx, accountID, token)
}

// ValidateRefresh verifies the token signature and expiry with the refresh
// secret, then requires the account's currently stored refresh token to equal
// the presented one exactly. Any failure reports common.ErrorUnauthorized so
// callers cannot distinguish a forged token from a superseded one.
func (s *SessionService) ValidateRefresh(ctx context.Context, token string) (*models.Account, error) {
	claims, err := s.issuer.VerifyRefresh(token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", common.ErrorUnauthorized)
	}

	account, err := s.repos.Accounts(s.db).GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", common.ErrorUnauthorized)
		}
		return nil, err
	}

	if account.RefreshToken == "" || account.RefreshToken != token {
		return nil, fmt.Errorf("%w: invalid refresh token", common.ErrorUnauthorized)
	}

	return account, nil
}

// Logout clears the stored refresh token.
func (s *SessionService) Logout(ctx context.Context, accountID string) error {
	return s.StoreRefresh(ctx, accountID, "")
}
