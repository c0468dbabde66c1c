package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"go-marketplace-toko/internal/model"
	"go-marketplace-toko/internal/repository"
	"go-marketplace-toko/internal/storage"
	"go-marketplace-toko/internal/ws"
	"go-marketplace-toko/pkg/refcodec"
	"go-marketplace-toko/pkg/validator"

	"gorm.io/gorm"
)

// TokoService is the admin store management.
type TokoService interface {
	ListToko(caller Caller) ([]model.TokoResponse, error)
	GetToko(caller Caller, ref string) (*model.TokoResponse, error)
	CreateToko(caller Caller, req *TokoRequest, cover *ImageUpload) (*model.TokoResponse, error)
	UpdateToko(caller Caller, ref string, req *TokoRequest, cover *ImageUpload) (*model.TokoResponse, error)
	DeleteToko(caller Caller, ref string) error
	ExportCSV(caller Caller) (*TokoExport, error)
}

type TokoRequest struct {
	NamaToko   string `json:"nama_toko" form:"nama_toko" validate:"required,notblank,max=255"`
	Deskripsi  string `json:"deskripsi" form:"deskripsi" validate:"required,notblank"`
	IDUser     string `json:"id_user" form:"id_user" validate:"required,numeric"`
	KontakToko string `json:"kontak_toko" form:"kontak_toko" validate:"required,notblank,max=20"`
	Alamat     string `json:"alamat" form:"alamat" validate:"required,notblank"`
}

// TokoExport is a rendered CSV download.
type TokoExport struct {
	FileName string
	Data     []byte
}

var tokoCSVHeader = []string{"No", "Nama Toko", "Deskripsi", "Pemilik", "Kontak", "Alamat", "Tanggal Dibuat"}

type tokoService struct {
	tokoRepo  repository.TokoRepository
	userRepo  repository.UserRepository
	purger    *TokoPurger
	covers    *storage.ImageStore
	codec     refcodec.Codec
	wsHub     ws.Broadcaster
	imageRule imageRule
	now       func() time.Time
}

func NewTokoService(tokoRepo repository.TokoRepository, userRepo repository.UserRepository, purger *TokoPurger, covers *storage.ImageStore, codec refcodec.Codec, hub ws.Broadcaster, maxUploadBytes int64) TokoService {
	return &tokoService{
		tokoRepo:  tokoRepo,
		userRepo:  userRepo,
		purger:    purger,
		covers:    covers,
		codec:     codec,
		wsHub:     hub,
		imageRule: tokoImageRule.withLimit(maxUploadBytes),
		now:       time.Now,
	}
}

func (s *tokoService) ListToko(caller Caller) ([]model.TokoResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrAccessDenied
	}

	tokos, err := s.tokoRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.TokoResponse, len(tokos))
	for i := range tokos {
		if responses[i], err = s.render(&tokos[i]); err != nil {
			return nil, err
		}
	}
	return responses, nil
}

func (s *tokoService) GetToko(caller Caller, ref string) (*model.TokoResponse, error) {
	toko, err := s.find(caller, ref)
	if err != nil {
		return nil, err
	}
	response, err := s.render(toko)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (s *tokoService) CreateToko(caller Caller, req *TokoRequest, cover *ImageUpload) (*model.TokoResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrAccessDenied
	}

	// 1. Validasi
	idUser, err := s.validate(req, cover, 0)
	if err != nil {
		return nil, err
	}

	toko := &model.Toko{IDUser: idUser}
	applyTokoRequest(toko, req)

	// 2. Simpan cover
	if cover != nil {
		name, err := s.covers.Save(cover.Data, cover.ext())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		toko.Gambar = &name
	}

	// 3. Simpan toko, cover dibuang kalau gagal
	if err := s.tokoRepo.Create(toko); err != nil {
		s.discardCover(toko.Gambar)
		return nil, duplicateOwner(err)
	}

	return s.reload(toko.ID)
}

func (s *tokoService) UpdateToko(caller Caller, ref string, req *TokoRequest, cover *ImageUpload) (*model.TokoResponse, error) {
	toko, err := s.find(caller, ref)
	if err != nil {
		return nil, err
	}

	idUser, err := s.validate(req, cover, toko.ID)
	if err != nil {
		return nil, err
	}

	toko.IDUser = idUser
	applyTokoRequest(toko, req)

	oldCover := toko.Gambar
	if cover != nil {
		name, err := s.covers.Save(cover.Data, cover.ext())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		toko.Gambar = &name
	}

	if err := s.tokoRepo.Update(toko); err != nil {
		if cover != nil {
			s.discardCover(toko.Gambar)
		}
		return nil, duplicateOwner(err)
	}

	// Cover lama dibuang setelah baris tersimpan
	if cover != nil {
		s.discardCover(oldCover)
	}

	return s.reload(toko.ID)
}

func (s *tokoService) DeleteToko(caller Caller, ref string) error {
	toko, err := s.find(caller, ref)
	if err != nil {
		return err
	}

	if err := s.purger.Purge(toko); err != nil {
		return err
	}

	broadcast(s.wsHub, catalogEvent("toko_deleted", caller, map[string]interface{}{
		"encrypted_id": ref,
		"nama_toko":    toko.NamaToko,
	}, fmt.Sprintf("%s menghapus toko '%s'", caller.Name, toko.NamaToko)))
	return nil
}

func (s *tokoService) ExportCSV(caller Caller) (*TokoExport, error) {
	if !caller.IsAdmin() {
		return nil, ErrAccessDenied
	}

	tokos, err := s.tokoRepo.FindAll()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(tokoCSVHeader); err != nil {
		return nil, err
	}
	for i, t := range tokos {
		pemilik := "N/A"
		if t.User != nil {
			pemilik = t.User.Nama
		}
		row := []string{
			strconv.Itoa(i + 1),
			t.NamaToko,
			t.Deskripsi,
			pemilik,
			t.KontakToko,
			t.Alamat,
			t.CreatedAt.Format("02/01/2006"),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &TokoExport{
		FileName: fmt.Sprintf("data-toko-%s.csv", s.now().Format(time.DateOnly)),
		Data:     buf.Bytes(),
	}, nil
}

func (s *tokoService) find(caller Caller, ref string) (*model.Toko, error) {
	if !caller.IsAdmin() {
		return nil, ErrAccessDenied
	}
	id, err := decodeRef(s.codec, ref)
	if err != nil {
		return nil, err
	}
	toko, err := s.tokoRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	return toko, nil
}

func (s *tokoService) reload(id uint) (*model.TokoResponse, error) {
	toko, err := s.tokoRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	response, err := s.render(toko)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// validate returns the owner id. selfID is the store being edited, 0 on create.
func (s *tokoService) validate(req *TokoRequest, cover *ImageUpload, selfID uint) (uint, error) {
	if req == nil {
		req = &TokoRequest{}
	}
	vErr := newValidationError(map[string]string{})
	vErr.merge(validator.FieldErrors(req))
	if cover != nil {
		if msg := s.imageRule.check(*cover); msg != "" {
			vErr.Fields["gambar"] = msg
		}
	}
	if _, failed := vErr.Fields["id_user"]; failed {
		return 0, vErr
	}

	id, err := strconv.ParseUint(strings.TrimSpace(req.IDUser), 10, 64)
	if err != nil || id == 0 {
		vErr.Fields["id_user"] = "Pemilik tidak valid."
		return 0, vErr
	}

	// Pemilik harus ada
	if _, err := s.userRepo.FindByID(uint(id)); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		vErr.Fields["id_user"] = "Pemilik tidak ditemukan."
		return 0, vErr
	}

	// Satu user satu toko
	existing, err := s.tokoRepo.FindByUserID(uint(id))
	switch {
	case err == nil && existing.ID != selfID:
		vErr.Fields["id_user"] = "User ini sudah memiliki toko."
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return 0, err
	}

	if err := vErr.orNil(); err != nil {
		return 0, err
	}
	return uint(id), nil
}

func applyTokoRequest(t *model.Toko, req *TokoRequest) {
	t.NamaToko = strings.TrimSpace(req.NamaToko)
	t.Deskripsi = strings.TrimSpace(req.Deskripsi)
	t.KontakToko = strings.TrimSpace(req.KontakToko)
	t.Alamat = strings.TrimSpace(req.Alamat)
	t.User = nil
}

func (s *tokoService) discardCover(name *string) {
	if name == nil || *name == "" {
		return
	}
	if err := s.covers.Remove(*name); err != nil {
		log.Printf("Warning: failed to remove cover %s: %v", *name, err)
	}
}

func (s *tokoService) render(t *model.Toko) (model.TokoResponse, error) {
	ref, err := s.codec.Encode(t.ID)
	if err != nil {
		return model.TokoResponse{}, err
	}
	return t.ToResponse(ref), nil
}

// duplicateOwner turns a unique violation on tokos.id_user into a field error.
func duplicateOwner(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return newValidationError(map[string]string{"id_user": "User ini sudah memiliki toko."})
	}
	return err
}
