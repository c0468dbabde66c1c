package model

// Kategori is a flat product category. Read-only dari sisi katalog.
type Kategori struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	NamaKategori string `gorm:"type:varchar(100);uniqueIndex;not null" json:"nama_kategori"`
}

// DefaultKategori is seeded on boot when missing.
var DefaultKategori = []Kategori{
	{NamaKategori: "Makanan"},
	{NamaKategori: "Minuman"},
	{NamaKategori: "Pakaian"},
	{NamaKategori: "Kerajinan"},
	{NamaKategori: "Elektronik"},
	{NamaKategori: "Jasa"},
	{NamaKategori: "Lainnya"},
}
