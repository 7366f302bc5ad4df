package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	dErrors "neighnet/pkg/domain-errors"
)

const minPasswordLength = 10

// CheckPasswordPolicy enforces the account password rules: at least ten
// characters with an upper, a lower, a digit, and a symbol.
func CheckPasswordPolicy(password string) error {
	if len(password) < minPasswordLength {
		return dErrors.New(dErrors.CodeBadRequest, "password must be at least 10 characters")
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if !upper || !lower || !digit || !symbol {
		return dErrors.New(dErrors.CodeBadRequest, "password must mix upper and lower case letters, digits, and symbols")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
