// Package auth implements the token and credential primitives: dual-secret
// JWT issuance/verification and bcrypt password hashing with the account
// password policy.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dberzins/accountd/internal/common"
	"github.com/dberzins/accountd/internal/server/models"
)

// Claims carries the registered claims plus the account identity.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
}

// Issuer mints and verifies HS256 token pairs. The access token is signed
// with the access secret, the refresh token with the refresh secret; a token
// signed with one never verifies against the other.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewIssuer fails when either secret is empty. Missing secrets are a process
// configuration error and must stop startup, not surface per-request.
func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("token secrets not configured")
	}
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// Issue produces an access/refresh token pair for the given payload.
func (i *Issuer) Issue(payload models.TokenPayload) (*models.TokenPair, error) {
	access, err := sign(payload, i.accessSecret, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := sign(payload, i.refreshSecret, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess validates an access token and returns its claims. It returns
// common.ErrTokenExpired for expired tokens and common.ErrInvalidToken for
// any other verification failure.
func (i *Issuer) VerifyAccess(token string) (*Claims, error) {
	return verify(token, i.accessSecret)
}

// VerifyRefresh validates a refresh token signature and expiry. The stored
// single-active-token check is the session service's responsibility.
func (i *Issuer) VerifyRefresh(token string) (*Claims, error) {
	return verify(token, i.refreshSecret)
}

// AccessTTL reports the configured access-token lifetime.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

func sign(payload models.TokenPayload, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// A unique ID makes every issuance a distinct token, so rotating
			// within the same second still supersedes the previous one.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID: payload.AccountID,
		Email:     payload.Email,
	})
	return token.SignedString(secret)
}

func verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
