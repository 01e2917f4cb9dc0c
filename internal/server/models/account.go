package models

import "time"

// Account is the central user entity. PasswordHash and RefreshToken are
// secrets and must never leave the process unsanitized; use Sanitized()
// before returning an account to a caller.
//
// RefreshToken holds at most one live refresh token per account; the empty
// string means no active session.
type Account struct {
	ID             string
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	CompanyName    string
	CompanyAddress string
	TaxID          string
	HourlyRate     *float64
	LogoURL        string
	RefreshToken   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SanitizedAccount is the external-facing view of an Account with secret
// fields stripped.
type SanitizedAccount struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName,omitempty"`
	LastName       string    `json:"lastName,omitempty"`
	CompanyName    string    `json:"companyName,omitempty"`
	CompanyAddress string    `json:"companyAddress,omitempty"`
	TaxID          string    `json:"taxId,omitempty"`
	HourlyRate     *float64  `json:"hourlyRate,omitempty"`
	CompanyLogo    string    `json:"companyLogo,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Sanitized strips the password hash and refresh token.
func (a *Account) Sanitized() *SanitizedAccount {
	return &SanitizedAccount{
		ID:             a.ID,
		Email:          a.Email,
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		CompanyName:    a.CompanyName,
		CompanyAddress: a.CompanyAddress,
		TaxID:          a.TaxID,
		HourlyRate:     a.HourlyRate,
		CompanyLogo:    a.LogoURL,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// ProfileUpdate carries a partial profile change; nil fields are left
// untouched by the update.
type ProfileUpdate struct {
	FirstName      *string
	LastName       *string
	CompanyName    *string
	CompanyAddress *string
	TaxID          *string
	HourlyRate     *float64
}

// Empty reports whether the update would change nothing.
func (p *ProfileUpdate) Empty() bool {
	return p == nil || (p.FirstName == nil && p.LastName == nil && p.CompanyName == nil &&
		p.CompanyAddress == nil && p.TaxID == nil && p.HourlyRate == nil)
}
