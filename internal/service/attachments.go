package service

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"go-marketplace-toko/internal/model"
	"go-marketplace-toko/internal/repository"
	"go-marketplace-toko/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"gorm.io/gorm"
)

const (
	MinGambarProduk = 1
	MaxGambarProduk = 5

	DefaultMaxUploadBytes int64 = 2048 * 1024

	// GambarField is the multipart field of product images and the key of
	// their validation errors.
	GambarField = "gambar_produk"
)

// ImageUpload is one uploaded file, already read from the request.
type ImageUpload struct {
	Filename string
	Data     []byte
}

func (u ImageUpload) ext() string {
	return strings.ToLower(filepath.Ext(u.Filename))
}

type imageRule struct {
	extensions []string
	mimes      []string
	maxBytes   int64
}

var (
	produkImageRule = imageRule{
		extensions: []string{".jpeg", ".jpg", ".png"},
		mimes:      []string{"image/jpeg", "image/png"},
	}
	tokoImageRule = imageRule{
		extensions: []string{".jpeg", ".jpg", ".png", ".gif"},
		mimes:      []string{"image/jpeg", "image/png", "image/gif"},
	}
)

func (r imageRule) withLimit(maxBytes int64) imageRule {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	r.maxBytes = maxBytes
	return r
}

// check returns a user message, or "" when the file is acceptable.
func (r imageRule) check(u ImageUpload) string {
	if len(u.Data) == 0 {
		return "File gambar kosong."
	}
	if int64(len(u.Data)) > r.maxBytes {
		return fmt.Sprintf("Ukuran gambar maksimal %d KB.", r.maxBytes/1024)
	}

	extOK := false
	for _, ext := range r.extensions {
		if u.ext() == ext {
			extOK = true
			break
		}
	}
	if !extOK {
		return fmt.Sprintf("Format gambar harus %s.", strings.Join(trimDots(r.extensions), ", "))
	}

	detected := mimetype.Detect(u.Data)
	for _, m := range r.mimes {
		if detected.Is(m) {
			return ""
		}
	}
	return "File bukan gambar yang valid."
}

// validateImages checks count bounds then every file. Per-file messages use
// "<field>.<index>" keys.
func (r imageRule) validateImages(field string, uploads []ImageUpload, min, max int) map[string]string {
	fields := map[string]string{}
	if len(uploads) < min {
		fields[field] = fmt.Sprintf("Minimal %d gambar wajib diupload.", min)
		return fields
	}
	if len(uploads) > max {
		fields[field] = fmt.Sprintf("Maksimal %d gambar yang dapat diupload.", max)
		return fields
	}
	for i, u := range uploads {
		if msg := r.check(u); msg != "" {
			fields[fmt.Sprintf("%s.%d", field, i)] = msg
		}
	}
	return fields
}

func trimDots(exts []string) []string {
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = strings.TrimPrefix(e, ".")
	}
	return out
}

// AttachmentManager owns product image files and their GambarProduk rows.
type AttachmentManager struct {
	images     *storage.ImageStore
	gambarRepo repository.GambarProdukRepository
}

func NewAttachmentManager(images *storage.ImageStore, gambarRepo repository.GambarProdukRepository) *AttachmentManager {
	return &AttachmentManager{images: images, gambarRepo: gambarRepo}
}

// Store writes the file, then inserts its row with tx. When the insert
// fails the file is removed again.
func (m *AttachmentManager) Store(tx *gorm.DB, produkID uint, upload ImageUpload) (*model.GambarProduk, error) {
	name, err := m.images.Save(upload.Data, upload.ext())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	gambar := &model.GambarProduk{IDProduk: produkID, NamaGambar: name}
	if err := m.gambarRepo.Create(tx, gambar); err != nil {
		m.Discard(name)
		return nil, err
	}
	return gambar, nil
}

// Remove deletes one backing file; an absent file is fine.
func (m *AttachmentManager) Remove(name string) error {
	if err := m.images.Remove(name); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// RemoveFiles attempts every file and returns the first failure.
func (m *AttachmentManager) RemoveFiles(gambar []model.GambarProduk) error {
	var first error
	for _, g := range gambar {
		if err := m.Remove(g.NamaGambar); err != nil {
			log.Printf("Warning: failed to remove gambar %s: %v", g.NamaGambar, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// Discard removes files written by an attempt that did not commit.
func (m *AttachmentManager) Discard(names ...string) {
	for _, name := range names {
		if err := m.images.Remove(name); err != nil {
			log.Printf("Warning: failed to discard gambar %s: %v", name, err)
		}
	}
}
