package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/dberzins/accountd/internal/common"
	"github.com/dberzins/accountd/internal/server/models"
)

type contextKey string

const accountContextKey contextKey = "account"

// authenticate verifies the bearer access token, loads the account, and
// stores it in the request context for the wrapped handler.
func (s *Server) authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token, err := extractBearerToken(r)
		if err != nil {
			writeFailure(w, http.StatusUnauthorized, "access token required", codeAuthRequired)
			return
		}

		claims, err := s.issuer.VerifyAccess(token)
		if err != nil {
			writeError(w, err)
			return
		}

		account, err := s.accounts.GetByID(r.Context(), claims.AccountID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				writeFailure(w, http.StatusUnauthorized, "invalid token", codeAuthentication)
				return
			}
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), accountContextKey, account)
		next(w, r.WithContext(ctx), ps)
	}
}

func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", common.ErrorUnauthorized
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", common.ErrorUnauthorized
	}

	return parts[1], nil
}

func accountFrom(ctx context.Context) (*models.Account, bool) {
	account, ok := ctx.Value(accountContextKey).(*models.Account)
	return account, ok
}
