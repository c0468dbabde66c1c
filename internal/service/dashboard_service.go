package service

import (
	"go-marketplace-toko/internal/repository"
)

// LowStockBelow is the stok threshold counted as low stock.
const LowStockBelow = 10

type DashboardService interface {
	TokoStats(caller Caller) (*repository.TokoStats, error)
}

type dashboardService struct {
	produkRepo repository.ProdukRepository
	owners     *OwnershipResolver
}

func NewDashboardService(produkRepo repository.ProdukRepository, owners *OwnershipResolver) DashboardService {
	return &dashboardService{produkRepo: produkRepo, owners: owners}
}

func (s *dashboardService) TokoStats(caller Caller) (*repository.TokoStats, error) {
	toko, err := s.owners.ResolveToko(caller.UserID)
	if err != nil {
		return nil, err
	}
	if toko == nil {
		return nil, ErrNoToko
	}
	return s.produkRepo.GetTokoStats(toko.ID, LowStockBelow)
}
