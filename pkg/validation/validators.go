package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Name-shaped: letters, spaces, dots, apostrophes and hyphens only.
	nameRegex = regexp.MustCompile(`^[A-Za-z .'-]+$`)

	// Digits only, at least 10 of them (normalized phone form).
	phoneDigitsRegex = regexp.MustCompile(`^[0-9]{10,}$`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("name_shaped", NameShaped)
	_ = v.RegisterValidation("phone_digits", PhoneDigits)
}

// NameShaped validates that a string looks like a person's name.
// Rejects digits and special symbols outside . ' -
func NameShaped(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return nameRegex.MatchString(val)
}

// PhoneDigits validates a normalized (digits-only) phone number.
func PhoneDigits(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneDigitsRegex.MatchString(val)
}
