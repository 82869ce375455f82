package payment

import "strings"

// Brand is the card network inferred from the number prefix.
type Brand string

const (
	BrandVisa       Brand = "VISA"
	BrandMastercard Brand = "MASTERCARD"
)

// CardDetails holds the card fields entered in the payment form. All fields
// are optional until submission; BIN and Last4 are derived from the number.
type CardDetails struct {
	Number     string `json:"number,omitempty"`
	CVC        string `json:"cvc,omitempty"`
	ExpMonth   string `json:"exp_month,omitempty"`
	ExpYear    string `json:"exp_year,omitempty"`
	CardHolder string `json:"card_holder,omitempty"`
	Email      string `json:"email,omitempty"`
	Brand      Brand  `json:"brand,omitempty"`
	BIN        string `json:"bin,omitempty"`
	Last4      string `json:"last4,omitempty"`
}

var mastercardPrefixes = []string{
	"51", "52", "53", "54", "55",
	"2221", "2222", "2223", "2224", "2225", "2226", "2227", "2228", "2229",
	"223", "224", "225", "226", "227", "228", "229",
	"23", "24", "25", "26", "27",
}

// DetectBrand infers the card network from the number prefix. It returns the
// empty Brand when the prefix matches neither network. Detection does not
// require the number to pass the Luhn check.
func DetectBrand(cardNumber string) Brand {
	number := stripSpaces(cardNumber)

	if strings.HasPrefix(number, "4") {
		return BrandVisa
	}

	for _, prefix := range mastercardPrefixes {
		if strings.HasPrefix(number, prefix) {
			return BrandMastercard
		}
	}

	return ""
}

// LuhnCheck reports whether the card number passes the mod-10 checksum.
// Numbers shorter than 13 or longer than 19 digits fail outright.
func LuhnCheck(cardNumber string) bool {
	number := stripSpaces(cardNumber)
	if len(number) < 13 || len(number) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		digit := int(c - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}

	return sum%10 == 0
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' {
			return -1
		}
		return r
	}, s)
}
