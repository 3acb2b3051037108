package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConverter_ConvertToIDR(t *testing.T) {
	conv := NewConverter(16250, 4350)

	assert.Equal(t, 7800000.0, conv.ConvertToIDR(480, USD))
	assert.Equal(t, 10440000.0, conv.ConvertToIDR(2400, SAR))
	assert.Equal(t, 0.0, conv.ConvertToIDR(0, SAR))

	// Mata uang tak dikenal diteruskan apa adanya.
	assert.Equal(t, 1234.0, conv.ConvertToIDR(1234, IDR))
	assert.Equal(t, 99.0, conv.ConvertToIDR(99, Currency("EUR")))
}

func TestFormatIDR(t *testing.T) {
	assert.Equal(t, "Rp 0", FormatIDR(0))
	assert.Equal(t, "Rp 950", FormatIDR(950))
	assert.Equal(t, "Rp 1.000", FormatIDR(1000))
	assert.Equal(t, "Rp 18.240.000", FormatIDR(18240000))
	assert.Equal(t, "Rp 1.234.567.890", FormatIDR(1234567890))
	assert.Equal(t, "Rp -5.000", FormatIDR(-5000))
}
