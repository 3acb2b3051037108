package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Nilai status mengikuti label yang dipakai portal (tampil apa adanya ke
// pelanggan, termasuk "Lunas").
type OrderStatus string

const (
	StatusRequestConfirmation   OrderStatus = "Request Confirmation"
	StatusTentativeConfirmation OrderStatus = "Tentative Confirmation" // menunggu persetujuan pelanggan
	StatusDefiniteConfirmation  OrderStatus = "Definite Confirmation"  // pelanggan setuju, menunggu konfirmasi admin / DP
	StatusConfirmedByAdmin      OrderStatus = "Confirmed by Admin"
	StatusDownpaymentReceived   OrderStatus = "Downpayment Received"
	StatusFullyPaid             OrderStatus = "Lunas"
	StatusRejectedByCustomer    OrderStatus = "Rejected by Customer"
	StatusCancelled             OrderStatus = "Cancelled"
)

var AllStatuses = []OrderStatus{
	StatusRequestConfirmation,
	StatusTentativeConfirmation,
	StatusDefiniteConfirmation,
	StatusConfirmedByAdmin,
	StatusDownpaymentReceived,
	StatusFullyPaid,
	StatusRejectedByCustomer,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsTerminal: status akhir, tidak boleh ditinggalkan lagi.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusFullyPaid || s == StatusRejectedByCustomer || s == StatusCancelled
}

// CustomerEditable: pelanggan masih boleh mengubah data/paket/manifest.
func (s OrderStatus) CustomerEditable() bool {
	switch s {
	case StatusConfirmedByAdmin, StatusDownpaymentReceived, StatusFullyPaid, StatusCancelled:
		return false
	}
	return true
}

// AdminPricingAllowed: admin masih boleh mengisi/merevisi harga komponen.
func (s OrderStatus) AdminPricingAllowed() bool {
	switch s {
	case StatusRequestConfirmation, StatusTentativeConfirmation, StatusDefiniteConfirmation:
		return true
	}
	return false
}

type ServiceType string

const (
	ServiceHotel       ServiceType = "Hotel"
	ServiceVisa        ServiceType = "Visa"
	ServiceHandling    ServiceType = "Handling"
	ServiceTrainTicket ServiceType = "Tiket Kereta" // belum dibuka, tapi tercatat di enum
	ServiceJastip      ServiceType = "Jasa Titipan"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceHotel, ServiceVisa, ServiceHandling, ServiceTrainTicket, ServiceJastip:
		return true
	}
	return false
}

type BusRouteItem struct {
	Date           string `json:"date"`
	From           string `json:"from"`
	To             string `json:"to"`
	RouteVehicleID string `json:"routeVehicleId,omitempty"`
	// VehicleDetails diturunkan dari record Vehicle yang hidup,
	// bukan diketik tangan.
	VehicleDetails string `json:"vehicleDetails,omitempty"`
}

type PackageInfo struct {
	PPIUName         string `json:"ppiuName"`
	PPIUPhone        string `json:"ppiuPhone"`
	PaxCount         int    `json:"paxCount"`
	MadinahHotelInfo string `json:"madinahHotelInfo,omitempty"`
	MakkahHotelInfo  string `json:"makkahHotelInfo,omitempty"`

	BusVehicleID      string `json:"busVehicleId,omitempty"`
	BusName           string `json:"busName,omitempty"`
	BusVehicleType    string `json:"busVehicleType,omitempty"`
	BusDriverName     string `json:"busDriverName,omitempty"`
	BusDriverPhone    string `json:"busDriverPhone,omitempty"`
	BusSyarikahNumber string `json:"busSyarikahNumber,omitempty"`

	BusRoutes []BusRouteItem `json:"busRoutes,omitempty"`

	MutowifName         string `json:"mutowifName,omitempty"`
	MutowifPhone        string `json:"mutowifPhone,omitempty"`
	RepresentativeName  string `json:"representativeName,omitempty"`
	RepresentativePhone string `json:"representativePhone,omitempty"`
	EwakoRoyalPhone     string `json:"ewakoRoyalPhone,omitempty"`

	AirlineName       string `json:"airlineName,omitempty"`
	AirlineCode       string `json:"airlineCode,omitempty"`
	ArrivalDateTime   string `json:"arrivalDateTime,omitempty"`
	DepartureDateTime string `json:"departureDateTime,omitempty"`
}

type Order struct {
	ID                   string         `json:"id"`
	UserID               string         `json:"user_id"`
	ServiceType          ServiceType    `json:"service_type"`
	Data                 BookingData    `json:"data"`
	Status               OrderStatus    `json:"status"`
	AdminNotes           string         `json:"admin_notes,omitempty"`
	CustomerConfirmation *bool          `json:"customer_confirmation,omitempty"`
	PackageInfo          *PackageInfo   `json:"package_info,omitempty"`
	Manifest             []ManifestItem `json:"manifest"`
	TotalPrice           *int64         `json:"total_price,omitempty"` // IDR
	Payments             []Payment      `json:"payments"`
	Version              int            `json:"version"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// PaidAmount menjumlahkan seluruh pembayaran (IDR).
func (o *Order) PaidAmount() int64 {
	var total int64
	for _, p := range o.Payments {
		total += p.Amount
	}
	return total
}

// RemainingAmount = totalPrice - terbayar, tidak pernah negatif.
func (o *Order) RemainingAmount() int64 {
	if o.TotalPrice == nil {
		return 0
	}
	remaining := *o.TotalPrice - o.PaidAmount()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// orderAlias menghindari rekursi MarshalJSON/UnmarshalJSON.
type orderAlias Order

type orderJSON struct {
	orderAlias
	RawData       json.RawMessage `json:"data"`
	PaidAmountIDR int64           `json:"paid_amount"`
	RemainingIDR  int64           `json:"remaining_amount"`
}

func (o Order) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(o.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(orderJSON{
		orderAlias:    orderAlias(o),
		RawData:       raw,
		PaidAmountIDR: o.PaidAmount(),
		RemainingIDR:  o.RemainingAmount(),
	})
}

func (o *Order) UnmarshalJSON(b []byte) error {
	var aux struct {
		orderAlias
		RawData json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*o = Order(aux.orderAlias)
	if len(aux.RawData) > 0 {
		data, err := DecodeBookingData(o.ServiceType, aux.RawData)
		if err != nil {
			return fmt.Errorf("decode booking data: %w", err)
		}
		o.Data = data
	}
	return nil
}

// ---- request payloads ----

type CreateOrderRequest struct {
	UserID      string          `json:"user_id"` // diambil dari token untuk customer; admin boleh isi
	ServiceType ServiceType     `json:"service_type" binding:"required"`
	Data        json.RawMessage `json:"data" binding:"required"`
}

// UpdateStatusRequest: isi customer_confirmation untuk jalur persetujuan
// pelanggan, atau status untuk override manual admin.
type UpdateStatusRequest struct {
	Status               OrderStatus `json:"status,omitempty"`
	CustomerConfirmation *bool       `json:"customer_confirmation,omitempty"`
}

type AddPaymentRequest struct {
	Amount        int64         `json:"amount" binding:"required,gt=0"`
	PaymentDate   string        `json:"payment_date" binding:"required"`
	PaymentType   PaymentType   `json:"payment_type" binding:"required"`
	PaymentMethod PaymentMethod `json:"payment_method" binding:"required"`
	Notes         string        `json:"notes"`
}
