package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewakoroyal/booking-api/internal/order/domain"
	"github.com/ewakoroyal/booking-api/internal/platform/currency"
)

func fptr(v float64) *float64 { return &v }
func sptr(s string) *string   { return &s }

func testConverter() *currency.Converter {
	return currency.NewConverter(16250, 4350)
}

func newHotelOrder() *domain.Order {
	return &domain.Order{
		ID:          "order-1",
		UserID:      "user-1",
		ServiceType: domain.ServiceHotel,
		Status:      domain.StatusRequestConfirmation,
		Data: &domain.HotelBookingData{
			Name:  "H. Ahmad",
			Phone: "+628123456789",
			MadinahHotel: &domain.HotelInfo{
				Name:   "Al Haram Hotel",
				Nights: 3,
				Rooms:  domain.RoomBooking{Quad: 2},
			},
			IncludeVisa: true,
			VisaPax:     4,
		},
	}
}

func TestApplyPricing_HotelWithVisa(t *testing.T) {
	order := newHotelOrder()

	// 2 kamar quad x 3 malam x 400 SAR = 2400 SAR -> 10.440.000
	// 4 pax visa x 120 USD = 480 USD -> 7.800.000
	res := applyPricing(order, domain.AdminPriceDetails{
		MadinahHotelRoomPricesSAR: &domain.RoomPriceInput{Quad: fptr(400)},
		VisaPricePerPaxUSD:        fptr(120),
	}, testConverter())

	assert.True(t, res.Complete)
	assert.Equal(t, int64(18240000), res.TotalIDR)
	require.NotNil(t, order.TotalPrice)
	assert.Equal(t, int64(18240000), *order.TotalPrice)

	// Request Confirmation -> Tentative Confirmation otomatis.
	assert.True(t, res.Advanced)
	assert.Equal(t, domain.StatusTentativeConfirmation, order.Status)

	// Harga satuan ditulis balik ke data pesanan.
	data := order.Data.(*domain.HotelBookingData)
	require.NotNil(t, data.MadinahHotel.PricesSAR)
	assert.Equal(t, 400.0, *data.MadinahHotel.PricesSAR.Quad)
	require.NotNil(t, data.VisaPricePerPaxUSD)
	assert.Equal(t, 120.0, *data.VisaPricePerPaxUSD)
}

func TestApplyPricing_IncompleteKeepsOldTotal(t *testing.T) {
	order := newHotelOrder()
	data := order.Data.(*domain.HotelBookingData)
	data.MadinahHotel.Rooms.Triple = 1 // terisi tapi tidak diberi harga

	res := applyPricing(order, domain.AdminPriceDetails{
		MadinahHotelRoomPricesSAR: &domain.RoomPriceInput{Quad: fptr(400)},
		VisaPricePerPaxUSD:        fptr(120),
	}, testConverter())

	assert.False(t, res.Complete)
	assert.False(t, res.Advanced)
	assert.Nil(t, order.TotalPrice)
	assert.Equal(t, domain.StatusRequestConfirmation, order.Status)

	// Harga yang sudah dikirim tetap tersimpan walau total belum dihitung.
	require.NotNil(t, data.MadinahHotel.PricesSAR)
	assert.Equal(t, 400.0, *data.MadinahHotel.PricesSAR.Quad)
	assert.Nil(t, data.MadinahHotel.PricesSAR.Triple)
}

func TestApplyPricing_SparseReentryUsesStoredPrices(t *testing.T) {
	order := newHotelOrder()

	first := applyPricing(order, domain.AdminPriceDetails{
		MadinahHotelRoomPricesSAR: &domain.RoomPriceInput{Quad: fptr(400)},
		VisaPricePerPaxUSD:        fptr(120),
	}, testConverter())
	require.True(t, first.Complete)

	// Panggilan kedua tanpa detail apa pun: harga tersimpan dipakai ulang,
	// totalnya sama (idempoten).
	second := applyPricing(order, domain.AdminPriceDetails{}, testConverter())
	assert.True(t, second.Complete)
	assert.Equal(t, first.TotalIDR, second.TotalIDR)
	assert.False(t, second.Advanced) // sudah Tentative, tidak naik lagi
}

func TestApplyPricing_ZeroCountRoomsDoNotBlock(t *testing.T) {
	order := newHotelOrder()
	data := order.Data.(*domain.HotelBookingData)
	data.IncludeVisa = false
	data.VisaPax = 0
	// Triple/double 0 kamar: tidak menyumbang dan tidak menghalangi.

	res := applyPricing(order, domain.AdminPriceDetails{
		MadinahHotelRoomPricesSAR: &domain.RoomPriceInput{Quad: fptr(400)},
	}, testConverter())

	assert.True(t, res.Complete)
	assert.Equal(t, int64(10440000), res.TotalIDR)
}

func TestApplyPricing_BusPriceIsFlatAndOptional(t *testing.T) {
	order := newHotelOrder()
	data := order.Data.(*domain.HotelBookingData)
	data.IncludeVisa = false
	data.VisaPax = 0

	// Tanpa harga bus: tetap lengkap.
	res := applyPricing(order, domain.AdminPriceDetails{
		MadinahHotelRoomPricesSAR: &domain.RoomPriceInput{Quad: fptr(400)},
	}, testConverter())
	require.True(t, res.Complete)
	assert.Equal(t, int64(10440000), res.TotalIDR)

	// Harga bus flat SAR ditambahkan sekali, bukan per pax/malam.
	res = applyPricing(order, domain.AdminPriceDetails{
		BusPriceTotalSAR: fptr(1000),
	}, testConverter())
	require.True(t, res.Complete)
	assert.Equal(t, int64(10440000+4350000), res.TotalIDR)
}

func TestApplyPricing_VisaOrder(t *testing.T) {
	order := &domain.Order{
		ID:          "order-2",
		ServiceType: domain.ServiceVisa,
		Status:      domain.StatusRequestConfirmation,
		Data: &domain.VisaBookingData{
			Name:  "Ibu Siti",
			Phone: "+62811111111",
			Pax:   10,
		},
	}

	res := applyPricing(order, domain.AdminPriceDetails{
		VisaPricePerPaxUSD: fptr(100),
		MuasasahName:       sptr("Muasasah Al-Bait"),
	}, testConverter())

	assert.True(t, res.Complete)
	assert.Equal(t, int64(16250000), res.TotalIDR)
	assert.Equal(t, domain.StatusTentativeConfirmation, order.Status)
	assert.Equal(t, "Muasasah Al-Bait", order.Data.(*domain.VisaBookingData).MuasasahName)
}

func TestApplyPricing_HandlingOrder(t *testing.T) {
	order := &domain.Order{
		ID:          "order-3",
		ServiceType: domain.ServiceHandling,
		Status:      domain.StatusRequestConfirmation,
		Data: &domain.HandlingBookingData{
			Name:  "Pak Budi",
			Phone: "+62822222222",
			Pax:   20,
		},
	}

	res := applyPricing(order, domain.AdminPriceDetails{
		HandlingPricePerPaxSAR: fptr(50),
	}, testConverter())

	assert.True(t, res.Complete)
	// 20 pax x 50 SAR = 1000 SAR -> 4.350.000
	assert.Equal(t, int64(4350000), res.TotalIDR)
}

func TestApplyPricing_JastipUntouched(t *testing.T) {
	order := &domain.Order{
		ID:          "order-4",
		ServiceType: domain.ServiceJastip,
		Status:      domain.StatusRequestConfirmation,
		Data: &domain.JastipBookingData{
			Name:            "Mbak Rina",
			Phone:           "+62833333333",
			ItemType:        domain.JastipDates,
			Unit:            domain.UnitKg,
			Quantity:        5,
			DeliveryAddress: "Jakarta",
		},
	}

	res := applyPricing(order, domain.AdminPriceDetails{
		HandlingPricePerPaxSAR: fptr(50),
	}, testConverter())

	assert.False(t, res.Complete)
	assert.False(t, res.Advanced)
	assert.Nil(t, order.TotalPrice)
	assert.Equal(t, domain.StatusRequestConfirmation, order.Status)
}
