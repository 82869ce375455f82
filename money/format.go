// Package money formats prices for display. Prices are carried everywhere as
// integer cents; formatting is the only place they are scaled.
package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var copPrinter = message.NewPrinter(language.MustParse("es-CO"))

// FormatCOP renders a price in cents as whole Colombian pesos with es-CO
// digit grouping, e.g. 150000 -> "$ 1.500 COP".
func FormatCOP(priceInCents int) string {
	pesos := int64(math.Round(float64(priceInCents) / 100))
	return copPrinter.Sprintf("$ %d COP", pesos)
}
