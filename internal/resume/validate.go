package resume

import (
	"regexp"

	"github.com/Dharanish-AM/InterVueAI/internal/domain"
)

var addressRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate gates extracted fields before a Candidate is committed.
// Every rule is checked independently so the caller sees all violations
// at once, not just the first.
func Validate(fields domain.ResumeFields) domain.ResumeValidation {
	var errs []string

	if len(fields.Name) < 2 {
		errs = append(errs, "Name is required and must be at least 2 characters long")
	}
	if !addressRegex.MatchString(fields.Email) {
		errs = append(errs, "Valid email address is required")
	}
	if len(nonDigitRegex.ReplaceAllString(fields.Phone, "")) < 10 {
		errs = append(errs, "Valid phone number is required")
	}

	return domain.ResumeValidation{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
