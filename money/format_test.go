package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCOP(t *testing.T) {
	tests := []struct {
		name  string
		cents int
		want  string
	}{
		{"zero", 0, "$ 0 COP"},
		{"under one thousand pesos", 50000, "$ 500 COP"},
		{"thousands get dot grouping", 150000, "$ 1.500 COP"},
		{"millions", 4599000000, "$ 45.990.000 COP"},
		{"rounds half cents up", 150, "$ 2 COP"},
		{"rounds down below half", 149, "$ 1 COP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCOP(tt.cents))
		})
	}
}
