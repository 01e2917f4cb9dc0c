package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dberzins/accountd/internal/common"
	"github.com/dberzins/accountd/internal/server/auth"
	"github.com/dberzins/accountd/internal/server/models"
)

func newSessionFixture(t *testing.T) (*SessionService, *memAccountsRepo, *models.Account) {
	t.Helper()
	issuer, err := auth.NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer error: %v", err)
	}
	repo := newMemAccountsRepo()
	account := seedAccount(t, repo, "a@b.com", "Str0ng!pass")
	return NewSessionService(nil, &fakeRepoManager{repo: repo}, issuer), repo, account
}

func TestIssueFor_StoresRefreshToken(t *testing.T) {
	svc, repo, account := newSessionFixture(t)

	pair, err := svc.IssueFor(context.Background(), account)
	if err != nil {
		t.Fatalf("IssueFor error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}
	if stored := repo.accounts[account.ID].RefreshToken; stored != pair.RefreshToken {
		t.Fatalf("stored token %q does not match issued token %q", stored, pair.RefreshToken)
	}
}

func TestValidateRefresh_RotationInvalidatesPrevious(t *testing.T) {
	svc, _, account := newSessionFixture(t)

	first, err := svc.IssueFor(context.Background(), account)
	if err != nil {
		t.Fatalf("first IssueFor error: %v", err)
	}
	second, err := svc.IssueFor(context.Background(), account)
	if err != nil {
		t.Fatalf("second IssueFor error: %v", err)
	}

	if _, err := svc.ValidateRefresh(context.Background(), first.RefreshToken); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("superseded token must be rejected, got %v", err)
	}
	got, err := svc.ValidateRefresh(context.Background(), second.RefreshToken)
	if err != nil {
		t.Fatalf("current token rejected: %v", err)
	}
	if got.ID != account.ID {
		t.Fatalf("expected account %q, got %q", account.ID, got.ID)
	}
}

func TestValidateRefresh_Garbage(t *testing.T) {
	svc, _, _ := newSessionFixture(t)

	if _, err := svc.ValidateRefresh(context.Background(), "not-a-token"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

func TestValidateRefresh_AccessTokenRejected(t *testing.T) {
	// Tokens are signed per purpose; an access token must never pass the
	// refresh check even for the right account.
	svc, _, account := newSessionFixture(t)

	pair, err := svc.IssueFor(context.Background(), account)
	if err != nil {
		t.Fatalf("IssueFor error: %v", err)
	}
	if _, err := svc.ValidateRefresh(context.Background(), pair.AccessToken); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

func TestValidateRefresh_AccountGone(t *testing.T) {
	svc, repo, account := newSessionFixture(t)

	pair, err := svc.IssueFor(context.Background(), account)
	if err != nil {
		t.Fatalf("IssueFor error: %v", err)
	}
	delete(repo.accounts, account.ID)

	if _, err := svc.ValidateRefresh(context.Background(), pair.RefreshToken); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

func TestLogout_ClearsStoredToken(t *testing.T) {
	svc, repo, account := newSessionFixture(t)

	pair, err := svc.IssueFor(context.Background(), account)
	if err != nil {
		t.Fatalf("IssueFor error: %v", err)
	}
	if err := svc.Logout(context.Background(), account.ID); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if stored := repo.accounts[account.ID].RefreshToken; stored != "" {
		t.Fatalf("expected cleared token, got %q", stored)
	}
	if _, err := svc.ValidateRefresh(context.Background(), pair.RefreshToken); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("token must be rejected after logout, got %v", err)
	}
}
