package domain

import "time"

type ManifestItem struct {
	ID                     string `json:"id"`
	NamaJemaah             string `json:"namaJemaah"`
	JenisKelamin           string `json:"jenisKelamin"` // "Laki-laki" | "Perempuan"
	TanggalLahir           string `json:"tanggalLahir"` // tanggal ISO
	Usia                   *int   `json:"usia,omitempty"`
	NomorVisa              string `json:"nomorVisa,omitempty"`
	NamaDiPaspor           string `json:"namaDiPaspor"`
	NomorPaspor            string `json:"nomorPaspor"`
	TanggalTerbitPaspor    string `json:"tanggalTerbitPaspor,omitempty"`
	TanggalExpiredPaspor   string `json:"tanggalExpiredPaspor,omitempty"`
	KotaTempatIssuedPaspor string `json:"kotaTempatIssuedPaspor,omitempty"`
}

// CalculateAge menghitung usia "ulang tahun terakhir": selisih tahun,
// dikurangi satu kalau bulan/tanggal sekarang belum melewati bulan/tanggal
// lahir. Mengembalikan nil untuk tanggal kosong/tidak valid.
func CalculateAge(tanggalLahir string, now time.Time) *int {
	if tanggalLahir == "" {
		return nil
	}
	birth, err := time.Parse(dateLayout, tanggalLahir)
	if err != nil {
		return nil
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return &age
}

// RefreshUsia menghitung ulang usia tersimpan; usia hanyalah cache dari
// nilai turunan, disegarkan setiap manifest disimpan.
func (m *ManifestItem) RefreshUsia(now time.Time) {
	m.Usia = CalculateAge(m.TanggalLahir, now)
}

func (m *ManifestItem) Validate() error {
	ve := NewValidationError("Data jemaah tidak lengkap.")
	if m.NamaJemaah == "" {
		ve.Add("namaJemaah", "nama jemaah wajib diisi")
	}
	if m.NamaDiPaspor == "" {
		ve.Add("namaDiPaspor", "nama di paspor wajib diisi")
	}
	if m.NomorPaspor == "" {
		ve.Add("nomorPaspor", "nomor paspor wajib diisi")
	}
	if m.TanggalLahir != "" {
		if _, err := time.Parse(dateLayout, m.TanggalLahir); err != nil {
			ve.Add("tanggalLahir", "format tanggal lahir tidak valid")
		}
	}
	return ve.OrNil()
}
