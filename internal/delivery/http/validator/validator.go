// Package validator wires go-playground/validator into echo's request
// validation hook.
package validator

import (
	"net/http"
	"unicode"

	playground "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// requestValidator adapts a playground validator to echo.Validator.
type requestValidator struct {
	validate *playground.Validate
}

// New builds the validator with the custom rules used by the auth endpoints.
func New() echo.Validator {
	validate := playground.New(playground.WithRequiredStructEnabled())

	// Registration errors surface before any hashing happens, so the rule
	// must stay in sync with what the hasher will accept.
	_ = validate.RegisterValidation("password", validPassword)
	_ = validate.RegisterValidation("alphaspace", alphaSpace)

	return &requestValidator{validate: validate}
}

// Validate implements echo.Validator.
func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}

// validPassword requires at least 8 characters with one upper, one lower, one
// digit and one symbol.
func validPassword(fl playground.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSymbol
}

// alphaSpace allows letters, spaces, apostrophes and hyphens, covering names
// like "O'Brien" and "Anne-Marie".
func alphaSpace(fl playground.FieldLevel) bool {
	value := fl.Field().String()
	for _, r := range value {
		if !unicode.IsLetter(r) && r != ' ' && r != '\'' && r != '-' {
			return false
		}
	}

	return value != ""
}
