package repository

import (
	"go-marketplace-toko/internal/model"

	"gorm.io/gorm"
)

type GambarProdukRepository interface {
	Create(tx *gorm.DB, gambar *model.GambarProduk) error
	FindByProduk(produkIDs ...uint) ([]model.GambarProduk, error)
	DeleteByIDs(tx *gorm.DB, produkID uint, ids []uint) error
	DeleteByProduk(tx *gorm.DB, produkIDs ...uint) error
}

type gambarProdukRepo struct {
	db *gorm.DB
}

func NewGambarProdukRepo(db *gorm.DB) GambarProdukRepository {
	return &gambarProdukRepo{db}
}

func (r *gambarProdukRepo) Create(tx *gorm.DB, gambar *model.GambarProduk) error {
	return conn(r.db, tx).Create(gambar).Error
}

func (r *gambarProdukRepo) FindByProduk(produkIDs ...uint) ([]model.GambarProduk, error) {
	var gambar []model.GambarProduk
	if len(produkIDs) == 0 {
		return gambar, nil
	}
	err := r.db.Where("id_produk IN ?", produkIDs).Order("id ASC").Find(&gambar).Error
	return gambar, err
}

// DeleteByIDs only touches rows of produkID, ids of other products are ignored.
func (r *gambarProdukRepo) DeleteByIDs(tx *gorm.DB, produkID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return conn(r.db, tx).Where("id_produk = ? AND id IN ?", produkID, ids).Delete(&model.GambarProduk{}).Error
}

func (r *gambarProdukRepo) DeleteByProduk(tx *gorm.DB, produkIDs ...uint) error {
	if len(produkIDs) == 0 {
		return nil
	}
	return conn(r.db, tx).Where("id_produk IN ?", produkIDs).Delete(&model.GambarProduk{}).Error
}
