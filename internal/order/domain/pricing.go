package domain

// RoomPriceInput: harga per tipe kamar yang dikirim admin; field nil
// berarti tidak diisi pada panggilan ini.
type RoomPriceInput struct {
	Quad   *float64 `json:"quad,omitempty"`
	Triple *float64 `json:"triple,omitempty"`
	Double *float64 `json:"double,omitempty"`
}

// AdminPriceDetails adalah body endpoint admin-pricing. Semua field
// opsional; field yang tidak dikirim mempertahankan harga satuan yang
// sudah tersimpan di pesanan.
type AdminPriceDetails struct {
	MadinahHotelRoomPricesSAR *RoomPriceInput `json:"madinahHotelRoomPricesSAR,omitempty"`
	MakkahHotelRoomPricesSAR  *RoomPriceInput `json:"makkahHotelRoomPricesSAR,omitempty"`
	VisaPricePerPaxUSD        *float64        `json:"visaPricePerPaxUSD,omitempty"`
	HandlingPricePerPaxSAR    *float64        `json:"handlingPricePerPaxSAR,omitempty"`
	BusPriceTotalSAR          *float64        `json:"busPriceTotalSAR,omitempty"`
	MuasasahName              *string         `json:"muasasahName,omitempty"`
}
