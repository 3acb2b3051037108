package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// BookingData adalah union bertanda: satu varian per jenis layanan.
// Bentuk konkretnya ditentukan oleh Order.ServiceType.
type BookingData interface {
	ServiceType() ServiceType
	CustomerName() string
	CustomerPhone() string
	Validate() error
}

// DecodeBookingData memilih varian berdasarkan jenis layanan.
func DecodeBookingData(st ServiceType, raw json.RawMessage) (BookingData, error) {
	switch st {
	case ServiceHotel:
		var d HotelBookingData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return &d, nil
	case ServiceVisa:
		var d VisaBookingData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return &d, nil
	case ServiceHandling:
		var d HandlingBookingData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return &d, nil
	case ServiceJastip:
		var d JastipBookingData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return &d, nil
	}
	return nil, fmt.Errorf("unsupported service type: %s", st)
}

type RoomBooking struct {
	Quad   int `json:"quad"`
	Triple int `json:"triple"`
	Double int `json:"double"`
}

// RoomPricesSAR: harga per kamar per malam, diisi admin (SAR).
type RoomPricesSAR struct {
	Quad   *float64 `json:"quad,omitempty"`
	Triple *float64 `json:"triple,omitempty"`
	Double *float64 `json:"double,omitempty"`
}

type HotelInfo struct {
	Name      string         `json:"name"`
	Nights    int            `json:"nights"`
	Rooms     RoomBooking    `json:"rooms"`
	CheckIn   string         `json:"checkIn"`  // tanggal ISO (YYYY-MM-DD)
	CheckOut  string         `json:"checkOut"` // diturunkan dari checkIn + nights
	PricesSAR *RoomPricesSAR `json:"pricesSAR,omitempty"`
}

// DeriveCheckOut menghitung ulang checkOut dari checkIn + nights.
// checkOut tidak pernah otoritatif sendiri; kalau checkIn tidak valid,
// checkOut dikosongkan.
func (h *HotelInfo) DeriveCheckOut() {
	if h == nil {
		return
	}
	checkIn, err := time.Parse(dateLayout, h.CheckIn)
	if err != nil || h.Nights < 1 {
		h.CheckOut = ""
		return
	}
	h.CheckOut = checkIn.AddDate(0, 0, h.Nights).Format(dateLayout)
}

func (h *HotelInfo) validate(prefix string, ve *ValidationError) {
	if h == nil || h.Name == "" {
		return
	}
	if h.Nights < 1 {
		ve.Add(prefix+".nights", "jumlah malam minimal 1")
	}
	if h.Rooms.Quad < 0 || h.Rooms.Triple < 0 || h.Rooms.Double < 0 {
		ve.Add(prefix+".rooms", "jumlah kamar tidak boleh negatif")
	}
	if h.CheckIn != "" {
		if _, err := time.Parse(dateLayout, h.CheckIn); err != nil {
			ve.Add(prefix+".checkIn", "format tanggal check-in tidak valid")
		}
	}
}

type VehicleTypeName = string // "Bus" | "HiAce" | "SUV" | ""

type HotelBookingData struct {
	Name     string `json:"customerName"`
	PPIUName string `json:"ppiuName,omitempty"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`

	MadinahHotel *HotelInfo `json:"madinahHotel,omitempty"`
	MakkahHotel  *HotelInfo `json:"makkahHotel,omitempty"`

	IncludeHandling        bool     `json:"includeHandling"`
	HandlingPax            int      `json:"handlingPax,omitempty"`
	HandlingPricePerPaxSAR *float64 `json:"handlingPricePerPaxSAR,omitempty"`

	IncludeVisa        bool            `json:"includeVisa"`
	VisaPax            int             `json:"visaPax,omitempty"`
	VisaPricePerPaxUSD *float64        `json:"visaPricePerPaxUSD,omitempty"`
	VisaVehicleType    VehicleTypeName `json:"visaVehicleType,omitempty"`
	VisaAirlineName    string          `json:"visaAirlineName,omitempty"`
	VisaArrivalDate    string          `json:"visaArrivalDate,omitempty"`
	VisaDepartureDate  string          `json:"visaDepartureDate,omitempty"`
	MuasasahName       string          `json:"muasasahName,omitempty"`

	BusPriceTotalSAR *float64 `json:"busPriceTotalSAR,omitempty"`
}

func (d *HotelBookingData) ServiceType() ServiceType { return ServiceHotel }
func (d *HotelBookingData) CustomerName() string     { return d.Name }
func (d *HotelBookingData) CustomerPhone() string    { return d.Phone }

func (d *HotelBookingData) Validate() error {
	ve := NewValidationError("Data pemesanan hotel tidak lengkap.")
	if d.Name == "" {
		ve.Add("customerName", "nama wajib diisi")
	}
	if d.Phone == "" {
		ve.Add("phone", "nomor HP wajib diisi")
	}
	if (d.MadinahHotel == nil || d.MadinahHotel.Name == "") && (d.MakkahHotel == nil || d.MakkahHotel.Name == "") {
		ve.Add("madinahHotel", "minimal satu hotel (Madinah/Makkah) harus diisi")
	}
	d.MadinahHotel.validate("madinahHotel", ve)
	d.MakkahHotel.validate("makkahHotel", ve)
	if d.IncludeHandling && d.HandlingPax < 1 {
		ve.Add("handlingPax", "jumlah pax handling minimal 1")
	}
	if d.IncludeVisa && d.VisaPax < 1 {
		ve.Add("visaPax", "jumlah pax visa minimal 1")
	}
	return ve.OrNil()
}

// Normalize menurunkan ulang field turunan sebelum disimpan.
func (d *HotelBookingData) Normalize() {
	d.MadinahHotel.DeriveCheckOut()
	d.MakkahHotel.DeriveCheckOut()
}

type VisaBookingData struct {
	Name     string `json:"customerName"`
	PPIUName string `json:"ppiuName,omitempty"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`

	Pax                int             `json:"pax"`
	VehicleType        VehicleTypeName `json:"vehicleType"`
	MuasasahName       string          `json:"muasasahName,omitempty"`
	VisaPricePerPaxUSD *float64        `json:"visaPricePerPaxUSD,omitempty"`
	BusPriceTotalSAR   *float64        `json:"busPriceTotalSAR,omitempty"`
}

func (d *VisaBookingData) ServiceType() ServiceType { return ServiceVisa }
func (d *VisaBookingData) CustomerName() string     { return d.Name }
func (d *VisaBookingData) CustomerPhone() string    { return d.Phone }

func (d *VisaBookingData) Validate() error {
	ve := NewValidationError("Data pemesanan visa tidak lengkap.")
	if d.Name == "" {
		ve.Add("customerName", "nama wajib diisi")
	}
	if d.Phone == "" {
		ve.Add("phone", "nomor HP wajib diisi")
	}
	if d.Pax < 1 {
		ve.Add("pax", "jumlah jemaah minimal 1")
	}
	return ve.OrNil()
}

type HandlingBookingData struct {
	Name     string `json:"customerName"`
	PPIUName string `json:"ppiuName,omitempty"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`

	Pax                    int      `json:"pax"`
	IncludeMutowif         bool     `json:"includeMutowif"`
	MutowifName            string   `json:"mutowifName,omitempty"`
	HandlingPricePerPaxSAR *float64 `json:"handlingPricePerPaxSAR,omitempty"`
}

func (d *HandlingBookingData) ServiceType() ServiceType { return ServiceHandling }
func (d *HandlingBookingData) CustomerName() string     { return d.Name }
func (d *HandlingBookingData) CustomerPhone() string    { return d.Phone }

func (d *HandlingBookingData) Validate() error {
	ve := NewValidationError("Data pemesanan handling tidak lengkap.")
	if d.Name == "" {
		ve.Add("customerName", "nama wajib diisi")
	}
	if d.Phone == "" {
		ve.Add("phone", "nomor HP wajib diisi")
	}
	if d.Pax < 1 {
		ve.Add("pax", "jumlah jemaah minimal 1")
	}
	return ve.OrNil()
}

type JastipItemType string

const (
	JastipFood    JastipItemType = "Makanan"
	JastipClothes JastipItemType = "Pakaian"
	JastipPerfume JastipItemType = "Parfum"
	JastipDates   JastipItemType = "Kurma"
	JastipOther   JastipItemType = "Lainnya"
)

type JastipUnit string

const (
	UnitBox    JastipUnit = "Box"
	UnitKg     JastipUnit = "Kg"
	UnitPcs    JastipUnit = "Pcs"
	UnitKodi   JastipUnit = "Kodi"
	UnitBottle JastipUnit = "Botol"
	UnitLusin  JastipUnit = "Lusin"
	UnitUnit   JastipUnit = "Unit"
)

// AllowedJastipUnits membatasi satuan per jenis titipan.
var AllowedJastipUnits = map[JastipItemType][]JastipUnit{
	JastipFood:    {UnitBox, UnitKg, UnitPcs},
	JastipDates:   {UnitBox, UnitKg, UnitPcs},
	JastipClothes: {UnitPcs, UnitKodi},
	JastipPerfume: {UnitBottle, UnitLusin},
	JastipOther:   {UnitPcs, UnitUnit},
}

type JastipBookingData struct {
	Name            string         `json:"customerName"`
	Phone           string         `json:"phone"`
	ItemType        JastipItemType `json:"itemType"`
	Unit            JastipUnit     `json:"unit"`
	Quantity        int            `json:"quantity"`
	DeliveryAddress string         `json:"deliveryAddress"`
	Notes           string         `json:"notes,omitempty"`
}

func (d *JastipBookingData) ServiceType() ServiceType { return ServiceJastip }
func (d *JastipBookingData) CustomerName() string     { return d.Name }
func (d *JastipBookingData) CustomerPhone() string    { return d.Phone }

func (d *JastipBookingData) Validate() error {
	ve := NewValidationError("Data jastip tidak lengkap.")
	if d.Name == "" {
		ve.Add("customerName", "nama wajib diisi")
	}
	if d.Phone == "" {
		ve.Add("phone", "nomor HP wajib diisi")
	}
	if d.Quantity < 1 {
		ve.Add("quantity", "jumlah minimal 1")
	}
	if d.DeliveryAddress == "" {
		ve.Add("deliveryAddress", "alamat tujuan wajib diisi")
	}
	allowed, ok := AllowedJastipUnits[d.ItemType]
	if !ok {
		ve.Add("itemType", "jenis titipan tidak dikenal")
	} else {
		valid := false
		for _, u := range allowed {
			if u == d.Unit {
				valid = true
				break
			}
		}
		if !valid {
			ve.Add("unit", fmt.Sprintf("satuan %q tidak berlaku untuk %s", d.Unit, d.ItemType))
		}
	}
	return ve.OrNil()
}
