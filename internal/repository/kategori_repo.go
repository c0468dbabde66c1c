package repository

import (
	"errors"

	"go-marketplace-toko/internal/model"

	"gorm.io/gorm"
)

type KategoriRepository interface {
	FindAll() ([]model.Kategori, error)
	FindByID(id uint) (*model.Kategori, error)
	SeedDefaults() error
}

type kategoriRepo struct {
	db *gorm.DB
}

func NewKategoriRepo(db *gorm.DB) KategoriRepository {
	return &kategoriRepo{db}
}

func (r *kategoriRepo) FindAll() ([]model.Kategori, error) {
	var kategori []model.Kategori
	err := r.db.Order("nama_kategori ASC").Find(&kategori).Error
	return kategori, err
}

func (r *kategoriRepo) FindByID(id uint) (*model.Kategori, error) {
	var kategori model.Kategori
	if err := r.db.First(&kategori, id).Error; err != nil {
		return nil, err
	}
	return &kategori, nil
}

// SeedDefaults creates default categories if they don't exist
func (r *kategoriRepo) SeedDefaults() error {
	for _, k := range model.DefaultKategori {
		var existing model.Kategori
		err := r.db.Where("nama_kategori = ?", k.NamaKategori).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := r.db.Create(&k).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
