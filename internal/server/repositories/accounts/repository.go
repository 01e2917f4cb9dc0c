package accounts

import (
	"context"

	"github.com/dberzins/accountd/internal/server/models"
)

// Repository is the keyed record store for accounts. Lookups return
// common.ErrorNotFound when the account is absent; Create returns
// common.ErrorConflict on a duplicate email.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateProfile(ctx context.Context, id string, update *models.ProfileUpdate) (*models.Account, error)
	UpdateLogo(ctx context.Context, id string, logoURL string) (*models.Account, error)
	SetRefreshToken(ctx context.Context, id string, token string) error
}
