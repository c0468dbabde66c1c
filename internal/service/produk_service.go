package service

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"go-marketplace-toko/internal/model"
	"go-marketplace-toko/internal/repository"
	"go-marketplace-toko/internal/ws"
	"go-marketplace-toko/pkg/refcodec"
	"go-marketplace-toko/pkg/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProdukService interface {
	ListProduk(caller Caller) ([]model.ProdukResponse, error)
	PrepareCreate(caller Caller) (*ProdukForm, error)
	CreateProduk(caller Caller, req *ProdukRequest, images []ImageUpload) (*model.ProdukResponse, error)
	GetProduk(caller Caller, ref string) (*model.ProdukResponse, error)
	UpdateProduk(caller Caller, ref string, req *ProdukRequest, images []ImageUpload, deletedGambarIDs []uint) (*model.ProdukResponse, error)
	DeleteProduk(caller Caller, ref string) error
}

// ProdukRequest is the product form as submitted; numbers arrive as text
// and are parsed only after validation passes.
type ProdukRequest struct {
	IDKategori string `json:"id_kategori" form:"id_kategori" validate:"required,numeric"`
	NamaProduk string `json:"nama_produk" form:"nama_produk" validate:"required,notblank,max=255"`
	Harga      string `json:"harga" form:"harga" validate:"required,decimal_gte0"`
	Stok       string `json:"stok" form:"stok" validate:"required,int_gte0"`
	Deskripsi  string `json:"deskripsi" form:"deskripsi" validate:"required,notblank"`
	UrlWa      string `json:"url_wa" form:"url_wa" validate:"omitempty,max=255"`
}

// ProdukForm is what the create screen needs.
type ProdukForm struct {
	Kategori []model.Kategori  `json:"kategori"`
	Toko     model.TokoSummary `json:"toko"`
}

type produkFields struct {
	idKategori uint
	nama       string
	harga      decimal.Decimal
	stok       int
	deskripsi  string
	urlWa      *string
}

type produkService struct {
	produkRepo   repository.ProdukRepository
	kategoriRepo repository.KategoriRepository
	owners       *OwnershipResolver
	attachments  *AttachmentManager
	tx           repository.Transactor
	codec        refcodec.Codec
	wsHub        ws.Broadcaster
	imageRule    imageRule
	now          func() time.Time
}

func NewProdukService(
	produkRepo repository.ProdukRepository,
	kategoriRepo repository.KategoriRepository,
	owners *OwnershipResolver,
	attachments *AttachmentManager,
	tx repository.Transactor,
	codec refcodec.Codec,
	hub ws.Broadcaster,
	maxUploadBytes int64,
) ProdukService {
	return &produkService{
		produkRepo:   produkRepo,
		kategoriRepo: kategoriRepo,
		owners:       owners,
		attachments:  attachments,
		tx:           tx,
		codec:        codec,
		wsHub:        hub,
		imageRule:    produkImageRule.withLimit(maxUploadBytes),
		now:          time.Now,
	}
}

func (s *produkService) ListProduk(caller Caller) ([]model.ProdukResponse, error) {
	toko, err := s.requireToko(caller)
	if err != nil {
		return nil, err
	}

	produk, err := s.produkRepo.FindByToko(toko.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]model.ProdukResponse, len(produk))
	for i := range produk {
		if responses[i], err = s.render(&produk[i]); err != nil {
			return nil, err
		}
	}
	return responses, nil
}

func (s *produkService) PrepareCreate(caller Caller) (*ProdukForm, error) {
	toko, err := s.requireToko(caller)
	if err != nil {
		return nil, err
	}

	kategori, err := s.kategoriRepo.FindAll()
	if err != nil {
		return nil, err
	}
	return &ProdukForm{
		Kategori: kategori,
		Toko:     model.TokoSummary{ID: toko.ID, NamaToko: toko.NamaToko},
	}, nil
}

func (s *produkService) CreateProduk(caller Caller, req *ProdukRequest, images []ImageUpload) (*model.ProdukResponse, error) {
	// 1. Toko dulu, sebelum validasi apapun
	toko, err := s.requireToko(caller)
	if err != nil {
		return nil, err
	}

	// 2. Validasi field dan gambar
	fields, vErr, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	vErr.merge(s.imageRule.validateImages(GambarField, images, MinGambarProduk, MaxGambarProduk))
	if err := vErr.orNil(); err != nil {
		return nil, err
	}

	produk := &model.Produk{
		IDKategori:    fields.idKategori,
		IDToko:        toko.ID,
		TanggalUpload: s.now(),
	}
	fields.apply(produk)

	// 3. Produk + gambar dalam satu transaksi
	var written []string
	err = s.tx.WithinTransaction(func(tx *gorm.DB) error {
		if err := s.produkRepo.Create(tx, produk); err != nil {
			return err
		}
		for _, upload := range images {
			gambar, err := s.attachments.Store(tx, produk.ID, upload)
			if err != nil {
				return err
			}
			written = append(written, gambar.NamaGambar)
			produk.GambarProduk = append(produk.GambarProduk, *gambar)
		}
		return nil
	})
	if err != nil {
		// 4. Rollback: file yang sudah ditulis ikut dibuang
		s.attachments.Discard(written...)
		return nil, err
	}

	produk.Toko = toko
	if kategori, err := s.kategoriRepo.FindByID(produk.IDKategori); err == nil {
		produk.Kategori = kategori
	}

	response, err := s.render(produk)
	if err != nil {
		return nil, err
	}

	// 5. Broadcast
	broadcast(s.wsHub, catalogEvent("produk_created", caller, map[string]interface{}{
		"encrypted_id": response.EncryptedID,
		"nama_produk":  produk.NamaProduk,
		"id_toko":      toko.ID,
		"gambar":       len(produk.GambarProduk),
	}, fmt.Sprintf("%s menambahkan produk '%s'", caller.Name, produk.NamaProduk)))

	return &response, nil
}

func (s *produkService) GetProduk(caller Caller, ref string) (*model.ProdukResponse, error) {
	produk, err := s.findOwned(caller, ref)
	if err != nil {
		return nil, err
	}
	response, err := s.render(produk)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (s *produkService) UpdateProduk(caller Caller, ref string, req *ProdukRequest, images []ImageUpload, deletedGambarIDs []uint) (*model.ProdukResponse, error) {
	// 1. Decode, cari, cek akses
	produk, err := s.findOwned(caller, ref)
	if err != nil {
		return nil, err
	}

	// 2. Gambar yang dihapus hanya yang memang milik produk ini
	deleted := make(map[uint]bool, len(deletedGambarIDs))
	for _, id := range deletedGambarIDs {
		deleted[id] = true
	}
	var removed []model.GambarProduk
	for _, g := range produk.GambarProduk {
		if deleted[g.ID] {
			removed = append(removed, g)
		}
	}
	remaining := len(produk.GambarProduk) - len(removed)

	// 3. Validasi
	fields, vErr, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	if remaining+len(images) > MaxGambarProduk {
		vErr.merge(map[string]string{GambarField: fmt.Sprintf("Total gambar maksimal %d.", MaxGambarProduk)})
	} else {
		vErr.merge(s.imageRule.validateImages(GambarField, images, 0, MaxGambarProduk))
	}
	if err := vErr.orNil(); err != nil {
		return nil, err
	}

	produk.IDKategori = fields.idKategori
	fields.apply(produk)

	removedIDs := make([]uint, len(removed))
	for i, g := range removed {
		removedIDs[i] = g.ID
	}

	// 4. Simpan perubahan dalam satu transaksi
	var written []string
	err = s.tx.WithinTransaction(func(tx *gorm.DB) error {
		if err := s.produkRepo.Update(tx, produk); err != nil {
			return err
		}
		if err := s.attachments.gambarRepo.DeleteByIDs(tx, produk.ID, removedIDs); err != nil {
			return err
		}
		for _, upload := range images {
			gambar, err := s.attachments.Store(tx, produk.ID, upload)
			if err != nil {
				return err
			}
			written = append(written, gambar.NamaGambar)
		}
		return nil
	})
	if err != nil {
		s.attachments.Discard(written...)
		return nil, err
	}

	// 5. Baris sudah terhapus, file lama dibuang setelah commit
	if err := s.attachments.RemoveFiles(removed); err != nil {
		log.Printf("Warning: UpdateProduk %d left orphan files: %v", produk.ID, err)
	}

	updated, err := s.produkRepo.FindByID(produk.ID)
	if err != nil {
		return nil, err
	}
	response, err := s.render(updated)
	if err != nil {
		return nil, err
	}

	broadcast(s.wsHub, catalogEvent("produk_updated", caller, map[string]interface{}{
		"encrypted_id": response.EncryptedID,
		"nama_produk":  updated.NamaProduk,
		"id_toko":      updated.IDToko,
		"gambar":       len(updated.GambarProduk),
	}, fmt.Sprintf("%s mengubah produk '%s'", caller.Name, updated.NamaProduk)))

	return &response, nil
}

func (s *produkService) DeleteProduk(caller Caller, ref string) error {
	// 1. Decode reference
	id, err := decodeRef(s.codec, ref)
	if err != nil {
		return err
	}

	// 2. Cari produk
	produk, err := s.produkRepo.FindByID(id)
	if err != nil {
		return notFound(err)
	}

	// 3. Produk harus milik toko caller
	toko, err := s.owners.ResolveToko(caller.UserID)
	if err != nil {
		return err
	}
	if toko == nil || produk.IDToko != toko.ID {
		return ErrAccessDenied
	}
	if err := AssertOwns(caller.UserID, produk); err != nil {
		return err
	}

	// 4. File dulu; gagal di sini berarti baris belum disentuh
	if err := s.attachments.RemoveFiles(produk.GambarProduk); err != nil {
		return err
	}

	// 5. Gambar lalu produk, satu transaksi
	err = s.tx.WithinTransaction(func(tx *gorm.DB) error {
		if err := s.attachments.gambarRepo.DeleteByProduk(tx, produk.ID); err != nil {
			return err
		}
		return s.produkRepo.Delete(tx, produk.ID)
	})
	if err != nil {
		return err
	}

	broadcast(s.wsHub, catalogEvent("produk_deleted", caller, map[string]interface{}{
		"encrypted_id": ref,
		"nama_produk":  produk.NamaProduk,
		"id_toko":      produk.IDToko,
	}, fmt.Sprintf("%s menghapus produk '%s'", caller.Name, produk.NamaProduk)))

	return nil
}

func (s *produkService) requireToko(caller Caller) (*model.Toko, error) {
	toko, err := s.owners.ResolveToko(caller.UserID)
	if err != nil {
		return nil, err
	}
	if toko == nil {
		return nil, ErrNoToko
	}
	return toko, nil
}

func (s *produkService) findOwned(caller Caller, ref string) (*model.Produk, error) {
	id, err := decodeRef(s.codec, ref)
	if err != nil {
		return nil, err
	}
	produk, err := s.produkRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := AssertOwns(caller.UserID, produk); err != nil {
		return nil, err
	}
	return produk, nil
}

// validate returns the parsed fields when every rule passes. The
// ValidationError is always non-nil so callers can merge image errors in.
func (s *produkService) validate(req *ProdukRequest) (produkFields, *ValidationError, error) {
	var fields produkFields
	vErr := newValidationError(map[string]string{})
	if req == nil {
		req = &ProdukRequest{}
	}
	vErr.merge(validator.FieldErrors(req))
	if len(vErr.Fields) > 0 {
		return fields, vErr, nil
	}

	idKategori, err := strconv.ParseUint(strings.TrimSpace(req.IDKategori), 10, 64)
	if err != nil || idKategori == 0 {
		vErr.Fields["id_kategori"] = "Kategori tidak valid."
		return fields, vErr, nil
	}
	if _, err := s.kategoriRepo.FindByID(uint(idKategori)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			vErr.Fields["id_kategori"] = "Kategori tidak ditemukan."
			return fields, vErr, nil
		}
		return fields, nil, err
	}

	fields.idKategori = uint(idKategori)
	fields.nama = strings.TrimSpace(req.NamaProduk)
	fields.harga = decimal.RequireFromString(strings.TrimSpace(req.Harga))
	fields.stok, _ = strconv.Atoi(strings.TrimSpace(req.Stok))
	fields.deskripsi = strings.TrimSpace(req.Deskripsi)
	if wa := strings.TrimSpace(req.UrlWa); wa != "" {
		fields.urlWa = &wa
	}
	return fields, vErr, nil
}

func (f produkFields) apply(p *model.Produk) {
	p.NamaProduk = f.nama
	p.Harga = f.harga
	p.Stok = f.stok
	p.Deskripsi = f.deskripsi
	p.UrlWa = f.urlWa
}

func (s *produkService) render(p *model.Produk) (model.ProdukResponse, error) {
	ref, err := s.codec.Encode(p.ID)
	if err != nil {
		return model.ProdukResponse{}, err
	}
	return p.ToResponse(ref), nil
}
