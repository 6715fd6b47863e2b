package sanitize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/rentbook/internal/sanitize"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "Plain", in: "  Av. Siempre Viva 742 ", want: "Av. Siempre Viva 742"},
		{name: "Markup", in: "<b>Juan</b><script>alert(1)</script>", want: "Juan"},
		{name: "Ampersand", in: "Pérez & Hijos", want: "Pérez & Hijos"},
		{name: "Unprintable", in: "Pago\x00 enero", want: "Pago enero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize.Text(tt.in))
		})
	}
}

func TestCell(t *testing.T) {
	assert.Equal(t, "'=SUM(A1:A2)", sanitize.Cell("=SUM(A1:A2)"))
	assert.Equal(t, "'-1000", sanitize.Cell("-1000"))
	assert.Equal(t, "Alquiler", sanitize.Cell("Alquiler"))
	assert.Equal(t, "", sanitize.Cell(""))
}
