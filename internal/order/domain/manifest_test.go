package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateAge(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	t.Run("Birthday already passed this year", func(t *testing.T) {
		age := CalculateAge("2006-08-29", now)
		require.NotNil(t, age)
		assert.Equal(t, 20, *age)
	})

	t.Run("Birthday today counts as completed", func(t *testing.T) {
		age := CalculateAge("2006-08-30", now)
		require.NotNil(t, age)
		assert.Equal(t, 20, *age)
	})

	t.Run("Birthday not yet reached this year", func(t *testing.T) {
		age := CalculateAge("2006-08-31", now)
		require.NotNil(t, age)
		assert.Equal(t, 19, *age)
	})

	t.Run("Month boundary", func(t *testing.T) {
		age := CalculateAge("2006-12-01", now)
		require.NotNil(t, age)
		assert.Equal(t, 19, *age)
	})

	t.Run("Empty or invalid dates yield nil", func(t *testing.T) {
		assert.Nil(t, CalculateAge("", now))
		assert.Nil(t, CalculateAge("31-12-2006", now))
		assert.Nil(t, CalculateAge("bukan tanggal", now))
	})
}

func TestManifestItem_RefreshUsia(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	item := ManifestItem{TanggalLahir: "1980-01-15"}
	item.RefreshUsia(now)
	require.NotNil(t, item.Usia)
	assert.Equal(t, 46, *item.Usia)

	// Tanggal lahir dikosongkan: cache usia ikut hilang.
	item.TanggalLahir = ""
	item.RefreshUsia(now)
	assert.Nil(t, item.Usia)
}

func TestManifestItem_Validate(t *testing.T) {
	valid := ManifestItem{
		NamaJemaah:   "Siti Aminah",
		JenisKelamin: "Perempuan",
		TanggalLahir: "1985-03-10",
		NamaDiPaspor: "SITI AMINAH",
		NomorPaspor:  "C1234567",
	}
	assert.NoError(t, valid.Validate())

	missing := ManifestItem{NamaJemaah: "Siti Aminah"}
	assert.Error(t, missing.Validate())

	badDate := valid
	badDate.TanggalLahir = "10/03/1985"
	assert.Error(t, badDate.Validate())
}
