package repository

import (
	"go-marketplace-toko/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProdukRepository interface {
	FindByToko(tokoID uint) ([]model.Produk, error)
	FindByID(id uint) (*model.Produk, error)
	Create(tx *gorm.DB, produk *model.Produk) error
	Update(tx *gorm.DB, produk *model.Produk) error
	Delete(tx *gorm.DB, id uint) error
	DeleteByToko(tx *gorm.DB, tokoID uint) error
	GetTokoStats(tokoID uint, lowStockBelow int) (*TokoStats, error)
}

// TokoStats untuk dashboard toko
type TokoStats struct {
	TotalProduk    int64           `json:"total_produk"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

type produkRepo struct {
	db *gorm.DB
}

func NewProdukRepo(db *gorm.DB) ProdukRepository {
	return &produkRepo{db}
}

// FindByToko returns the store's products newest first with kategori, toko
// and images loaded.
func (r *produkRepo) FindByToko(tokoID uint) ([]model.Produk, error) {
	var produk []model.Produk
	err := r.db.Preload("Kategori").Preload("Toko").
		Preload("GambarProduk", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id_toko = ?", tokoID).
		Order("created_at DESC").Order("id DESC").
		Find(&produk).Error
	return produk, err
}

func (r *produkRepo) FindByID(id uint) (*model.Produk, error) {
	var produk model.Produk
	err := r.db.Preload("Kategori").Preload("Toko").
		Preload("GambarProduk", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&produk, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &produk, nil
}

func (r *produkRepo) Create(tx *gorm.DB, produk *model.Produk) error {
	return conn(r.db, tx).Omit("Kategori", "Toko", "GambarProduk").Create(produk).Error
}

func (r *produkRepo) Update(tx *gorm.DB, produk *model.Produk) error {
	return conn(r.db, tx).Omit("Kategori", "Toko", "GambarProduk").Save(produk).Error
}

func (r *produkRepo) Delete(tx *gorm.DB, id uint) error {
	return conn(r.db, tx).Delete(&model.Produk{}, "id = ?", id).Error
}

func (r *produkRepo) DeleteByToko(tx *gorm.DB, tokoID uint) error {
	return conn(r.db, tx).Where("id_toko = ?", tokoID).Delete(&model.Produk{}).Error
}

func (r *produkRepo) GetTokoStats(tokoID uint, lowStockBelow int) (*TokoStats, error) {
	var stats TokoStats
	q := r.db.Model(&model.Produk{}).Where("id_toko = ?", tokoID)

	if err := q.Session(&gorm.Session{}).Count(&stats.TotalProduk).Error; err != nil {
		return nil, err
	}
	if err := q.Session(&gorm.Session{}).Where("stok < ?", lowStockBelow).Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	// Total Valuation (SUM of stok * harga)
	var valuation struct{ Total decimal.Decimal }
	if err := q.Session(&gorm.Session{}).Select("COALESCE(SUM(stok * harga), 0) AS total").Scan(&valuation).Error; err != nil {
		return nil, err
	}
	stats.TotalValuation = valuation.Total
	return &stats, nil
}
