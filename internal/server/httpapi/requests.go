package httpapi

import (
	"fmt"
	"math"

	"github.com/dberzins/accountd/internal/common"
	"github.com/dberzins/accountd/internal/server/models"
	"github.com/dberzins/accountd/internal/server/services"
)

type registerRequest struct {
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	CompanyName    string   `json:"companyName"`
	CompanyAddress string   `json:"companyAddress"`
	TaxID          string   `json:"taxId"`
	HourlyRate     *float64 `json:"hourlyRate"`
}

func (r *registerRequest) validate() error {
	if r.Email == "" {
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	if r.Password == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	if err := validateOptionalText("first name", r.FirstName, 2, 50); err != nil {
		return err
	}
	if err := validateOptionalText("last name", r.LastName, 2, 50); err != nil {
		return err
	}
	if err := validateOptionalText("company name", r.CompanyName, 2, 100); err != nil {
		return err
	}
	if err := validateOptionalText("company address", r.CompanyAddress, 0, 200); err != nil {
		return err
	}
	if err := validateOptionalText("tax ID", r.TaxID, 0, 50); err != nil {
		return err
	}
	return validateHourlyRate(r.HourlyRate)
}

func (r *registerRequest) params() services.RegisterParams {
	return services.RegisterParams{
		Email:          r.Email,
		Password:       r.Password,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		CompanyName:    r.CompanyName,
		CompanyAddress: r.CompanyAddress,
		TaxID:          r.TaxID,
		HourlyRate:     r.HourlyRate,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) validate() error {
	if r.Email == "" {
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	if r.Password == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	return nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r *refreshRequest) validate() error {
	if r.RefreshToken == "" {
		return fmt.Errorf("%w: refresh token is required", common.ErrorValidation)
	}
	return nil
}

type updateProfileRequest struct {
	FirstName      *string  `json:"firstName"`
	LastName       *string  `json:"lastName"`
	CompanyName    *string  `json:"companyName"`
	CompanyAddress *string  `json:"companyAddress"`
	TaxID          *string  `json:"taxId"`
	HourlyRate     *float64 `json:"hourlyRate"`
}

func (r *updateProfileRequest) validate() error {
	if r.update().Empty() {
		return fmt.Errorf("%w: at least one field must be provided for update", common.ErrorValidation)
	}
	if r.FirstName != nil {
		if err := validateOptionalText("first name", *r.FirstName, 2, 50); err != nil {
			return err
		}
	}
	if r.LastName != nil {
		if err := validateOptionalText("last name", *r.LastName, 2, 50); err != nil {
			return err
		}
	}
	if r.CompanyName != nil {
		if err := validateOptionalText("company name", *r.CompanyName, 2, 100); err != nil {
			return err
		}
	}
	if r.CompanyAddress != nil {
		if err := validateOptionalText("company address", *r.CompanyAddress, 0, 200); err != nil {
			return err
		}
	}
	if r.TaxID != nil {
		if err := validateOptionalText("tax ID", *r.TaxID, 0, 50); err != nil {
			return err
		}
	}
	return validateHourlyRate(r.HourlyRate)
}

func (r *updateProfileRequest) update() *models.ProfileUpdate {
	return &models.ProfileUpdate{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		CompanyName:    r.CompanyName,
		CompanyAddress: r.CompanyAddress,
		TaxID:          r.TaxID,
		HourlyRate:     r.HourlyRate,
	}
}

func validateOptionalText(name, value string, min, max int) error {
	if value == "" {
		return nil
	}
	if min > 0 && len(value) < min {
		return fmt.Errorf("%w: %s must be at least %d characters long", common.ErrorValidation, name, min)
	}
	if len(value) > max {
		return fmt.Errorf("%w: %s cannot exceed %d characters", common.ErrorValidation, name, max)
	}
	return nil
}

func validateHourlyRate(rate *float64) error {
	if rate == nil {
		return nil
	}
	if *rate <= 0 {
		return fmt.Errorf("%w: hourly rate must be a positive number", common.ErrorValidation)
	}
	cents := *rate * 100
	if math.Abs(cents-math.Round(cents)) > 1e-9 {
		return fmt.Errorf("%w: hourly rate can have at most 2 decimal places", common.ErrorValidation)
	}
	return nil
}
