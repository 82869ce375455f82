package payment

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrCardNumberRequired = errors.New("card number is required")
	ErrCardNumberInvalid  = errors.New("card number is invalid")
	ErrNameRequired       = errors.New("cardholder name is required")
	ErrNameTooShort       = errors.New("cardholder name is too short")
	ErrNameTooLong        = errors.New("cardholder name is too long")
	ErrNameInvalid        = errors.New("cardholder name must contain only letters and spaces")
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("email is invalid")
	ErrExpiryRequired     = errors.New("expiry date is required")
	ErrExpiryFormat       = errors.New("expiry date must be MM/YY")
	ErrCardExpired        = errors.New("card is expired")
	ErrCVVRequired        = errors.New("cvv is required")
	ErrCVVInvalid         = errors.New("cvv must be 3-4 digits")
)

var (
	cardNumberRegexp = regexp.MustCompile(`^\d{13,19}$`)
	nameRegexp       = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailRegexp      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	expiryRegexp     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRegexp        = regexp.MustCompile(`^\d{3,4}$`)
)

// ValidateCardNumber checks that the number, with spaces stripped, is 13-19
// digits and passes the Luhn checksum.
func ValidateCardNumber(value string) error {
	number := stripSpaces(value)
	if number == "" {
		return ErrCardNumberRequired
	}
	if !cardNumberRegexp.MatchString(number) {
		return ErrCardNumberInvalid
	}
	if !LuhnCheck(number) {
		return ErrCardNumberInvalid
	}
	return nil
}

// ValidateName checks the cardholder name: letters and spaces, 2-50 chars.
func ValidateName(value string) error {
	if value == "" {
		return ErrNameRequired
	}
	if len(value) < 2 {
		return ErrNameTooShort
	}
	if len(value) > 50 {
		return ErrNameTooLong
	}
	if !nameRegexp.MatchString(value) {
		return ErrNameInvalid
	}
	return nil
}

// ValidateEmail applies a light-weight format check, not full RFC 5322.
func ValidateEmail(value string) error {
	if value == "" {
		return ErrEmailRequired
	}
	if !emailRegexp.MatchString(value) {
		return ErrEmailInvalid
	}
	return nil
}

// ValidateExpiry checks MM/YY format and that the date is not in the past.
func ValidateExpiry(value string) error {
	return validateExpiryAt(value, time.Now())
}

// validateExpiryAt compares the two-digit year against the current year mod
// 100, so dates are always interpreted within the current century. Kept as-is
// to match the backend's expectations.
func validateExpiryAt(value string, now time.Time) error {
	if value == "" {
		return ErrExpiryRequired
	}
	if !expiryRegexp.MatchString(value) {
		return ErrExpiryFormat
	}

	parts := strings.Split(value, "/")
	expMonth, _ := strconv.Atoi(parts[0])
	expYear, _ := strconv.Atoi(parts[1])

	currentYear := now.Year() % 100
	currentMonth := int(now.Month())

	if expYear < currentYear || (expYear == currentYear && expMonth < currentMonth) {
		return ErrCardExpired
	}
	return nil
}

// ValidateCVV checks for a 3 or 4 digit security code.
func ValidateCVV(value string) error {
	if value == "" {
		return ErrCVVRequired
	}
	if !cvvRegexp.MatchString(value) {
		return ErrCVVInvalid
	}
	return nil
}

// CardForm is the raw payment form input, exactly as typed by the user.
type CardForm struct {
	Number string
	Name   string
	Email  string
	Expiry string
	CVV    string
}

// FieldErrors maps a form field to its validation error.
type FieldErrors map[string]error

// Valid reports whether every field passed validation.
func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

// Validate runs all five field validators and collects failures per field.
// The form may only be submitted when the result is valid.
func Validate(form CardForm) FieldErrors {
	errs := FieldErrors{}
	if err := ValidateCardNumber(form.Number); err != nil {
		errs["number"] = err
	}
	if err := ValidateName(form.Name); err != nil {
		errs["name"] = err
	}
	if err := ValidateEmail(form.Email); err != nil {
		errs["email"] = err
	}
	if err := ValidateExpiry(form.Expiry); err != nil {
		errs["expiry"] = err
	}
	if err := ValidateCVV(form.CVV); err != nil {
		errs["cvv"] = err
	}
	return errs
}

// Details converts a validated form into CardDetails, deriving the brand,
// BIN and last four digits from the number.
func (form CardForm) Details() CardDetails {
	number := stripSpaces(form.Number)
	parts := strings.SplitN(form.Expiry, "/", 2)
	expMonth, expYear := "", ""
	if len(parts) == 2 {
		expMonth, expYear = parts[0], parts[1]
	}

	d := CardDetails{
		Number:     number,
		CVC:        form.CVV,
		ExpMonth:   expMonth,
		ExpYear:    expYear,
		CardHolder: form.Name,
		Email:      form.Email,
		Brand:      DetectBrand(number),
	}
	if len(number) >= 6 {
		d.BIN = number[:6]
	}
	if len(number) >= 4 {
		d.Last4 = number[len(number)-4:]
	}
	return d
}
