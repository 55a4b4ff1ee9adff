// Package validation holds the input rules shared by the registration and
// contact forms. Every function is total: no panics, no I/O.
package validation

import (
	"errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"regexp"
	"strings"
)

var (
	emailRegexp     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegexp     = regexp.MustCompile(`^[+]?[1-9]\d{0,15}$`)
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
)

// User-facing messages, hence the capitalisation.
var (
	errInvalidEmail = errors.New("Please enter a valid email address")
	errInvalidPhone = errors.New("Please enter a valid phone number")
)

func IsValidEmail(s string) bool {
	return emailRegexp.MatchString(s)
}

// IsValidPhone accepts an optional leading plus and up to 16 digits, ignoring
// spaces, dashes, dots and parentheses.
func IsValidPhone(s string) bool {
	return phoneRegexp.MatchString(phoneSeparators.Replace(s))
}

func Required(s string) bool {
	return strings.TrimSpace(s) != ""
}

// RegistrationForm is what a visitor types into the registration dialog.
type RegistrationForm struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// ValidateRegistration returns field name -> message. An empty map means the
// form is valid.
func ValidateRegistration(f RegistrationForm) map[string]string {
	return toFieldErrors(validation.Errors{
		"name":  validation.Validate(f.Name, requiredRule("Name")),
		"email": validateEmail(f.Email),
		"phone": validatePhone(f.Phone),
	})
}

type ContactForm struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

func ValidateContact(f ContactForm) map[string]string {
	return toFieldErrors(validation.Errors{
		"name":    validation.Validate(f.Name, requiredRule("Name")),
		"email":   validateEmail(f.Email),
		"phone":   validatePhone(f.Phone),
		"message": validation.Validate(f.Message, requiredRule("Message")),
	})
}

func requiredRule(field string) validation.Rule {
	return validation.By(func(value interface{}) error {
		if s, _ := value.(string); !Required(s) {
			return errors.New(field + " is required")
		}
		return nil
	})
}

func validateEmail(email string) error {
	if !Required(email) {
		return errors.New("Email is required")
	}
	if !IsValidEmail(strings.TrimSpace(email)) {
		return errInvalidEmail
	}
	return nil
}

func validatePhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return nil
	}
	return validation.Validate(phone, validation.By(func(value interface{}) error {
		if !IsValidPhone(value.(string)) {
			return errInvalidPhone
		}
		return nil
	}))
}

func toFieldErrors(errs validation.Errors) map[string]string {
	out := map[string]string{}
	for field, err := range errs {
		if err != nil {
			out[field] = err.Error()
		}
	}
	return out
}
