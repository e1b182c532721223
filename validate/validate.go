// Package validate contains custom validation functions
package validate

import (
	"github.com/go-playground/validator/v10"
	"github.com/lumenledger/auth/stellar"
	passwordvalidator "github.com/wagslane/go-password-validator"
)

// Password is custom validation function that is used to validate passwords
func Password(fl validator.FieldLevel) bool {
	const minEntropy = 60
	password := fl.Field().String()

	err := passwordvalidator.Validate(password, minEntropy)
	return err == nil
}

// StellarAddress is a custom validation function that is used to validate
// Stellar account addresses
func StellarAddress(fl validator.FieldLevel) bool {
	return stellar.IsValidAddress(fl.Field().String())
}
