package model

import "time"

// GambarProdukURLPrefix is the public URL prefix of product images.
const GambarProdukURLPrefix = "/storage/assets/produk/"

// GambarProduk is one stored image file of a Produk. NamaGambar is the
// generated file name, never the client's original name.
type GambarProduk struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	IDProduk   uint      `gorm:"column:id_produk;index;not null" json:"id_produk"`
	NamaGambar string    `gorm:"type:varchar(255);not null" json:"nama_gambar"`
	CreatedAt  time.Time `json:"created_at"`
}

// GambarProdukResponse for API responses
type GambarProdukResponse struct {
	ID         uint   `json:"id"`
	IDProduk   uint   `json:"id_produk"`
	NamaGambar string `json:"nama_gambar"`
	URL        string `json:"url"`
}

func (g *GambarProduk) ToResponse() GambarProdukResponse {
	return GambarProdukResponse{
		ID:         g.ID,
		IDProduk:   g.IDProduk,
		NamaGambar: g.NamaGambar,
		URL:        GambarProdukURLPrefix + g.NamaGambar,
	}
}
