// Package validate checks user input before it is sent to the backend.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"absolute-cinema-cli/model"
)

var (
	cardNumberRegex = regexp.MustCompile(`^\d{12,19}$`)
	cardExpiryRegex = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	phoneRegex      = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

const (
	minPasswordLength = 8
	passwordSpecials  = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if ts, ok := field.Interface().(model.Timestamp); ok {
			return ts.Time
		}
		return nil
	}, model.Timestamp{})
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("card_number", validateCardNumber)
	_ = v.RegisterValidation("card_expiry", validateCardExpiry)
	_ = v.RegisterValidation("phone_number", validatePhoneNumber)
	_ = v.RegisterValidation("strong_password", validateStrongPassword)
	return &Validator{validate: v}
}

func validateCardNumber(fl validator.FieldLevel) bool {
	digits := strings.Join(strings.Fields(fl.Field().String()), "")
	return cardNumberRegex.MatchString(digits)
}

func validateCardExpiry(fl validator.FieldLevel) bool {
	return cardExpiryRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validatePhoneNumber(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

// validateStrongPassword mirrors the backend rule: at least eight characters
// with an upper case letter, a lower case letter, a digit and a symbol.
func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < minPasswordLength {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

func (v *Validator) Movie(movie *model.Movie) error {
	return v.check(movie)
}

func (v *Validator) Showtime(showtime *model.LazyShowtime) error {
	return v.check(showtime)
}

func (v *Validator) Credentials(creds *model.Credentials) error {
	return v.check(creds)
}

func (v *Validator) Registration(reg *model.Registration) error {
	return v.check(reg)
}

func (v *Validator) OTP(check *model.OTPCheck) error {
	return v.check(check)
}

func (v *Validator) PasswordReset(reset *model.PasswordReset) error {
	return v.check(reset)
}

func (v *Validator) ProfileUpdate(update *model.ProfileUpdate) error {
	return v.check(update)
}

func (v *Validator) Card(card *model.CardDetails) error {
	return v.check(card)
}

func (v *Validator) Wallet(wallet *model.WalletDetails) error {
	return v.check(wallet)
}

func (v *Validator) check(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "lte":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", err.Field())
		case "datetime":
			message = fmt.Sprintf("%s must use the format %s", err.Field(), err.Param())
		case "numeric":
			message = fmt.Sprintf("%s must contain digits only", err.Field())
		case "card_number":
			message = fmt.Sprintf("%s must be 12 to 19 digits", err.Field())
		case "card_expiry":
			message = fmt.Sprintf("%s must be in MM/YY format", err.Field())
		case "len":
			message = fmt.Sprintf("%s must be exactly %s characters", err.Field(), err.Param())
		case "phone_number":
			message = fmt.Sprintf("%s must be 7 to 15 digits with an optional leading +", err.Field())
		case "strong_password":
			message = fmt.Sprintf("%s must be at least %d characters with upper and lower case letters, a digit and a symbol", err.Field(), minPasswordLength)
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
