package auth

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dberzins/accountd/internal/common"
)

// bcryptCost is the fixed adaptive-hash work factor.
const bcryptCost = 12

// passwordSymbols is the allowed special-character set for the strength check.
const passwordSymbols = "@$!%*?&"

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// HashPassword hashes with bcrypt at the fixed cost. The output embeds salt
// and cost, so verification needs no side-channel state.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash. A mismatch
// is a false return, never an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidateEmail checks the local@domain.tld shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", common.ErrorValidation)
	}
	return nil
}

// ValidatePassword enforces the strength policy: minimum length, then at
// least one lowercase, one uppercase, one digit, and one symbol from the
// fixed allowed set. Length is checked before complexity so error reporting
// stays deterministic.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", common.ErrorValidation, minPasswordLength)
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	if !lower || !upper || !digit || !symbol {
		return fmt.Errorf("%w: password must contain at least one uppercase letter, one lowercase letter, one number, and one special character", common.ErrorValidation)
	}

	return nil
}
