package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/xavierca1/lead-pipeline/internal/entity"
)

var nonDigits = regexp.MustCompile(`\D`)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateLeadInput checks the fields the backend requires before a create
// or update is sent.
func ValidateLeadInput(input entity.LeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Contact.Name) == "" {
		errors = append(errors, ValidationError{"contact.name", "is required"})
	} else if len(input.Contact.Name) > 200 {
		errors = append(errors, ValidationError{"contact.name", "must not exceed 200 characters"})
	}

	email := strings.TrimSpace(input.Contact.Email)
	phone := strings.TrimSpace(input.Contact.Phone)
	if email == "" && phone == "" {
		errors = append(errors, ValidationError{"contact", "email or phone is required"})
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			errors = append(errors, ValidationError{"contact.email", "is invalid"})
		}
	}
	if phone != "" && !isValidPhoneNumber(phone) {
		errors = append(errors, ValidationError{"contact.phone", "must be a valid phone number"})
	}

	if ref := input.Reference; ref != nil {
		if e := strings.TrimSpace(ref.Email); e != "" {
			if _, err := mail.ParseAddress(e); err != nil {
				errors = append(errors, ValidationError{"reference.email", "is invalid"})
			}
		}
		if p := strings.TrimSpace(ref.Phone); p != "" && !isValidPhoneNumber(p) {
			errors = append(errors, ValidationError{"reference.phone", "must be a valid phone number"})
		}
	}

	if strings.TrimSpace(input.SourceID) == "" {
		errors = append(errors, ValidationError{"source", "is required"})
	}
	if strings.TrimSpace(input.ForID) == "" {
		errors = append(errors, ValidationError{"for", "is required"})
	}

	if input.Status != "" && !input.Status.IsStage() {
		errors = append(errors, ValidationError{"status", "must be one of New, Contacted, Qualified, Converted, Closed"})
	}

	return errors
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 7 && len(cleaned) <= 15
}

func validationMessage(errs []ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}
