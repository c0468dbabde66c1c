package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produk is a catalog item of one Toko in one Kategori.
type Produk struct {
	BaseModel
	IDKategori    uint            `gorm:"column:id_kategori;index;not null" json:"id_kategori"`
	Kategori      *Kategori       `gorm:"foreignKey:IDKategori" json:"kategori,omitempty"`
	IDToko        uint            `gorm:"column:id_toko;index;not null" json:"id_toko"`
	Toko          *Toko           `gorm:"foreignKey:IDToko" json:"toko,omitempty"`
	NamaProduk    string          `gorm:"type:varchar(255);not null" json:"nama_produk"`
	Harga         decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"harga"`
	Stok          int             `gorm:"not null;default:0" json:"stok"`
	Deskripsi     string          `gorm:"type:text;not null" json:"deskripsi"`
	TanggalUpload time.Time       `gorm:"not null" json:"tanggal_upload"`
	UrlWa         *string         `gorm:"type:varchar(255)" json:"url_wa"`

	// Relasi
	GambarProduk []GambarProduk `gorm:"foreignKey:IDProduk" json:"gambar_produk,omitempty"`
}

// OwnerUserID needs the Toko relation to be loaded.
func (p *Produk) OwnerUserID() (uint, bool) {
	if p == nil || p.Toko == nil || p.Toko.ID != p.IDToko {
		return 0, false
	}
	return p.Toko.OwnerUserID()
}

// ProdukResponse for API responses
type ProdukResponse struct {
	ID            uint                   `json:"id"`
	EncryptedID   string                 `json:"encrypted_id"`
	IDKategori    uint                   `json:"id_kategori"`
	NamaProduk    string                 `json:"nama_produk"`
	Harga         decimal.Decimal        `json:"harga"`
	Stok          int                    `json:"stok"`
	Deskripsi     string                 `json:"deskripsi"`
	TanggalUpload time.Time              `json:"tanggal_upload"`
	UrlWa         *string                `json:"url_wa"`
	IDToko        uint                   `json:"id_toko"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	GambarProduk  []GambarProdukResponse `json:"gambar_produk"`
	Kategori      *Kategori              `json:"kategori"`
	Toko          *TokoSummary           `json:"toko"`
}

// ToResponse converts Produk to ProdukResponse
func (p *Produk) ToResponse(encryptedID string) ProdukResponse {
	response := ProdukResponse{
		ID:            p.ID,
		EncryptedID:   encryptedID,
		IDKategori:    p.IDKategori,
		NamaProduk:    p.NamaProduk,
		Harga:         p.Harga,
		Stok:          p.Stok,
		Deskripsi:     p.Deskripsi,
		TanggalUpload: p.TanggalUpload,
		UrlWa:         p.UrlWa,
		IDToko:        p.IDToko,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		GambarProduk:  make([]GambarProdukResponse, len(p.GambarProduk)),
		Kategori:      p.Kategori,
	}

	for i := range p.GambarProduk {
		response.GambarProduk[i] = p.GambarProduk[i].ToResponse()
	}

	if p.Toko != nil {
		response.Toko = &TokoSummary{ID: p.Toko.ID, NamaToko: p.Toko.NamaToko}
	}

	return response
}
