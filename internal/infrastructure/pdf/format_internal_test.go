package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct{ in, want string }{
		{"0", "0"},
		{"999", "999"},
		{"25000", "25.000"},
		{"1000000", "1.000.000"},
		{"-1500", "-1.500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(tt.in), tt.in)
	}
}
