package currency

import (
	"fmt"
	"strconv"

	"github.com/ewakoroyal/booking-api/internal/platform/logger"
)

type Currency string

const (
	USD Currency = "USD"
	SAR Currency = "SAR"
	IDR Currency = "IDR"
)

// Converter memakai kurs tetap yang diatur operator (bukan kurs pasar).
type Converter struct {
	USDToIDR float64
	SARToIDR float64
}

func NewConverter(usdToIDR, sarToIDR float64) *Converter {
	return &Converter{USDToIDR: usdToIDR, SARToIDR: sarToIDR}
}

// ConvertToIDR mengubah nominal USD/SAR ke IDR. Mata uang yang tidak
// dikenal diteruskan apa adanya, sama seperti perilaku portal lama.
func (c *Converter) ConvertToIDR(amount float64, cur Currency) float64 {
	switch cur {
	case USD:
		return amount * c.USDToIDR
	case SAR:
		return amount * c.SARToIDR
	}
	logger.Warn("Unsupported currency for conversion: %s", cur)
	return amount
}

// FormatIDR menghasilkan "Rp 18.240.000" (pemisah ribuan titik).
func FormatIDR(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	s := strconv.FormatInt(amount, 10)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "." + s[i:]
	}
	if negative {
		return fmt.Sprintf("Rp -%s", s)
	}
	return fmt.Sprintf("Rp %s", s)
}
