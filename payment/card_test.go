package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBrand(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   Brand
	}{
		{"visa", "4111111111111111", BrandVisa},
		{"visa with spaces", "4111 1111 1111 1111", BrandVisa},
		{"mastercard 51", "5105105105105100", BrandMastercard},
		{"mastercard 55", "5555555555554444", BrandMastercard},
		{"mastercard 2221", "2221000000000009", BrandMastercard},
		{"mastercard 27", "2720990000000007", BrandMastercard},
		{"unknown prefix", "1234567890123456", Brand("")},
		{"empty", "", Brand("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectBrand(tt.number))
		})
	}
}

func TestDetectBrandIgnoresLuhn(t *testing.T) {
	// Brand detection is prefix-only; this number fails the checksum.
	assert.Equal(t, BrandVisa, DetectBrand("4111111111111112"))
}

func TestLuhnCheck(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{"valid visa", "4111111111111111", true},
		{"valid mastercard", "5105105105105100", true},
		{"valid with spaces", "4111 1111 1111 1111", true},
		{"checksum failure", "4111111111111112", false},
		{"too short", "411111111111", false},
		{"too long", "41111111111111111111", false},
		{"non-digits", "4111a11111111111", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LuhnCheck(tt.number))
		})
	}
}
