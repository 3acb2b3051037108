package service

import (
	"math"

	"github.com/ewakoroyal/booking-api/internal/order/domain"
	"github.com/ewakoroyal/booking-api/internal/platform/currency"
)

// pricingResult merangkum satu eksekusi engine harga.
type pricingResult struct {
	// Complete: semua komponen yang berlaku punya harga satuan efektif,
	// sehingga totalPrice baru menggantikan yang lama. Kalau false,
	// harga satuan yang dikirim tetap disimpan tapi totalPrice tidak
	// disentuh (tidak pernah total parsial).
	Complete bool
	TotalIDR int64
	// Advanced: status naik Request Confirmation -> Tentative Confirmation.
	Advanced bool
}

// applyPricing menjalankan algoritma harga multi-mata-uang: subtotal per
// komponen (kamar x malam, visa/pax USD, handling/pax SAR, bus flat SAR)
// dikonversi ke IDR lalu dijumlahkan. Harga satuan yang dikirim selalu
// ditulis balik ke struktur data pesanan supaya tampil lagi saat
// redisplay. Pesanan Jastip (dan Tiket Kereta) tidak disentuh sama sekali.
func applyPricing(order *domain.Order, details domain.AdminPriceDetails, conv *currency.Converter) pricingResult {
	var res pricingResult

	var totalSAR, totalUSD float64
	complete := true

	switch data := order.Data.(type) {
	case *domain.HotelBookingData:
		priceHotelBlock(data.MadinahHotel, details.MadinahHotelRoomPricesSAR, &totalSAR, &complete)
		priceHotelBlock(data.MakkahHotel, details.MakkahHotelRoomPricesSAR, &totalSAR, &complete)

		if data.IncludeVisa && data.VisaPax > 0 {
			if details.VisaPricePerPaxUSD != nil {
				data.VisaPricePerPaxUSD = details.VisaPricePerPaxUSD
			}
			if data.VisaPricePerPaxUSD != nil {
				totalUSD += *data.VisaPricePerPaxUSD * float64(data.VisaPax)
			} else {
				complete = false
			}
		}
		if data.IncludeHandling && data.HandlingPax > 0 {
			if details.HandlingPricePerPaxSAR != nil {
				data.HandlingPricePerPaxSAR = details.HandlingPricePerPaxSAR
			}
			if data.HandlingPricePerPaxSAR != nil {
				totalSAR += *data.HandlingPricePerPaxSAR * float64(data.HandlingPax)
			} else {
				complete = false
			}
		}
		if details.BusPriceTotalSAR != nil {
			data.BusPriceTotalSAR = details.BusPriceTotalSAR
		}
		if data.BusPriceTotalSAR != nil {
			totalSAR += *data.BusPriceTotalSAR
		}
		if details.MuasasahName != nil {
			data.MuasasahName = *details.MuasasahName
		}

	case *domain.VisaBookingData:
		if data.Pax > 0 {
			if details.VisaPricePerPaxUSD != nil {
				data.VisaPricePerPaxUSD = details.VisaPricePerPaxUSD
			}
			if data.VisaPricePerPaxUSD != nil {
				totalUSD += *data.VisaPricePerPaxUSD * float64(data.Pax)
			} else {
				complete = false
			}
		}
		if details.BusPriceTotalSAR != nil {
			data.BusPriceTotalSAR = details.BusPriceTotalSAR
		}
		if data.BusPriceTotalSAR != nil {
			totalSAR += *data.BusPriceTotalSAR
		}
		if details.MuasasahName != nil {
			data.MuasasahName = *details.MuasasahName
		}

	case *domain.HandlingBookingData:
		if data.Pax > 0 {
			if details.HandlingPricePerPaxSAR != nil {
				data.HandlingPricePerPaxSAR = details.HandlingPricePerPaxSAR
			}
			if data.HandlingPricePerPaxSAR != nil {
				totalSAR += *data.HandlingPricePerPaxSAR * float64(data.Pax)
			} else {
				complete = false
			}
		}

	default:
		// Jastip dan jenis lain dihargai di luar engine ini.
		return res
	}

	if !complete {
		return res
	}

	totalIDR := conv.ConvertToIDR(totalSAR, currency.SAR) + conv.ConvertToIDR(totalUSD, currency.USD)
	res.Complete = true
	res.TotalIDR = int64(math.Round(totalIDR))
	total := res.TotalIDR
	order.TotalPrice = &total

	if order.Status == domain.StatusRequestConfirmation && res.TotalIDR > 0 {
		order.Status = domain.StatusTentativeConfirmation
		res.Advanced = true
	}
	return res
}

// priceHotelBlock menghitung subtotal SAR satu blok hotel (Madinah atau
// Makkah). Tipe kamar dengan jumlah 0 tidak menyumbang apa pun dan tidak
// menghalangi kelengkapan; tipe kamar terisi tanpa harga efektif membuat
// perhitungan tidak lengkap.
func priceHotelBlock(h *domain.HotelInfo, input *domain.RoomPriceInput, totalSAR *float64, complete *bool) {
	if h == nil || h.Name == "" {
		return
	}
	if input != nil && h.PricesSAR == nil {
		h.PricesSAR = &domain.RoomPricesSAR{}
	}
	if input != nil {
		if input.Quad != nil {
			h.PricesSAR.Quad = input.Quad
		}
		if input.Triple != nil {
			h.PricesSAR.Triple = input.Triple
		}
		if input.Double != nil {
			h.PricesSAR.Double = input.Double
		}
	}

	nights := float64(h.Nights)
	addRoom := func(count int, price *float64) {
		if count <= 0 {
			return
		}
		if price == nil {
			*complete = false
			return
		}
		*totalSAR += *price * nights * float64(count)
	}
	var quad, triple, double *float64
	if h.PricesSAR != nil {
		quad, triple, double = h.PricesSAR.Quad, h.PricesSAR.Triple, h.PricesSAR.Double
	}
	addRoom(h.Rooms.Quad, quad)
	addRoom(h.Rooms.Triple, triple)
	addRoom(h.Rooms.Double, double)
}
