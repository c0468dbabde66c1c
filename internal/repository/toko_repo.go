package repository

import (
	"go-marketplace-toko/internal/model"

	"gorm.io/gorm"
)

type TokoRepository interface {
	FindAll() ([]model.Toko, error)
	FindByID(id uint) (*model.Toko, error)
	FindByUserID(userID uint) (*model.Toko, error)
	Create(toko *model.Toko) error
	Update(toko *model.Toko) error
	Delete(tx *gorm.DB, id uint) error
}

type tokoRepo struct {
	db *gorm.DB
}

func NewTokoRepo(db *gorm.DB) TokoRepository {
	return &tokoRepo{db}
}

func (r *tokoRepo) FindAll() ([]model.Toko, error) {
	var tokos []model.Toko
	err := r.db.Preload("User").Order("created_at DESC").Order("id DESC").Find(&tokos).Error
	return tokos, err
}

func (r *tokoRepo) FindByID(id uint) (*model.Toko, error) {
	var toko model.Toko
	if err := r.db.Preload("User").First(&toko, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &toko, nil
}

// FindByUserID returns gorm.ErrRecordNotFound when the user has no store.
func (r *tokoRepo) FindByUserID(userID uint) (*model.Toko, error) {
	var toko model.Toko
	if err := r.db.Where("id_user = ?", userID).First(&toko).Error; err != nil {
		return nil, err
	}
	return &toko, nil
}

func (r *tokoRepo) Create(toko *model.Toko) error {
	return r.db.Create(toko).Error
}

func (r *tokoRepo) Update(toko *model.Toko) error {
	return r.db.Omit("User", "Produk").Save(toko).Error
}

func (r *tokoRepo) Delete(tx *gorm.DB, id uint) error {
	return conn(r.db, tx).Delete(&model.Toko{}, "id = ?", id).Error
}
