package model

import "time"

// TokoGambarURLPrefix is the public URL prefix of store cover images.
const TokoGambarURLPrefix = "/storage/assets/toko/"

// Toko is one vendor store. Satu user maksimal punya satu toko,
// dijaga unique index pada id_user.
type Toko struct {
	BaseModel
	IDUser     uint    `gorm:"column:id_user;uniqueIndex;not null" json:"id_user"`
	User       *User   `gorm:"foreignKey:IDUser" json:"user,omitempty"`
	NamaToko   string  `gorm:"type:varchar(255);not null" json:"nama_toko"`
	Deskripsi  string  `gorm:"type:text;not null" json:"deskripsi"`
	Gambar     *string `gorm:"type:varchar(255)" json:"gambar"`
	KontakToko string  `gorm:"type:varchar(20);not null" json:"kontak_toko"`
	Alamat     string  `gorm:"type:text;not null" json:"alamat"`

	// Relasi
	Produk []Produk `gorm:"foreignKey:IDToko" json:"produk,omitempty"`
}

func (t *Toko) OwnerUserID() (uint, bool) {
	if t == nil {
		return 0, false
	}
	return t.IDUser, t.IDUser != 0
}

// GambarURL returns the public URL of the cover image, or nil.
func (t *Toko) GambarURL() *string {
	if t.Gambar == nil || *t.Gambar == "" {
		return nil
	}
	url := TokoGambarURLPrefix + *t.Gambar
	return &url
}

// TokoOwner is the owner summary embedded in store listings.
type TokoOwner struct {
	Nama     string `json:"nama"`
	Username string `json:"username"`
}

// TokoResponse for API responses
type TokoResponse struct {
	ID          uint       `json:"id"`
	EncryptedID string     `json:"encrypted_id"`
	NamaToko    string     `json:"nama_toko"`
	Deskripsi   string     `json:"deskripsi"`
	Gambar      *string    `json:"gambar"`
	IDUser      uint       `json:"id_user"`
	KontakToko  string     `json:"kontak_toko"`
	Alamat      string     `json:"alamat"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
	User        *TokoOwner `json:"user"`
}

// ToResponse converts Toko to TokoResponse
func (t *Toko) ToResponse(encryptedID string) TokoResponse {
	response := TokoResponse{
		ID:          t.ID,
		EncryptedID: encryptedID,
		NamaToko:    t.NamaToko,
		Deskripsi:   t.Deskripsi,
		Gambar:      t.GambarURL(),
		IDUser:      t.IDUser,
		KontakToko:  t.KontakToko,
		Alamat:      t.Alamat,
		CreatedAt:   t.CreatedAt.Format(time.DateTime),
		UpdatedAt:   t.UpdatedAt.Format(time.DateTime),
	}

	if t.User != nil {
		response.User = &TokoOwner{Nama: t.User.Nama, Username: t.User.Username}
	}

	return response
}

// TokoSummary is the short store form nested in product listings.
type TokoSummary struct {
	ID       uint   `json:"id"`
	NamaToko string `json:"nama_toko"`
}
