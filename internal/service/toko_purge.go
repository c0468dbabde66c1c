package service

import (
	"fmt"
	"log"

	"go-marketplace-toko/internal/model"
	"go-marketplace-toko/internal/repository"
	"go-marketplace-toko/internal/storage"

	"gorm.io/gorm"
)

// TokoPurger removes a store together with its products, their images and
// the cover file. Files go first; a storage failure leaves every row intact.
type TokoPurger struct {
	tokoRepo    repository.TokoRepository
	produkRepo  repository.ProdukRepository
	attachments *AttachmentManager
	covers      *storage.ImageStore
	tx          repository.Transactor
}

func NewTokoPurger(tokoRepo repository.TokoRepository, produkRepo repository.ProdukRepository, attachments *AttachmentManager, covers *storage.ImageStore, tx repository.Transactor) *TokoPurger {
	return &TokoPurger{
		tokoRepo:    tokoRepo,
		produkRepo:  produkRepo,
		attachments: attachments,
		covers:      covers,
		tx:          tx,
	}
}

func (p *TokoPurger) Purge(toko *model.Toko) error {
	produk, err := p.produkRepo.FindByToko(toko.ID)
	if err != nil {
		return err
	}

	produkIDs := make([]uint, len(produk))
	for i := range produk {
		produkIDs[i] = produk[i].ID
		if err := p.attachments.RemoveFiles(produk[i].GambarProduk); err != nil {
			return err
		}
	}

	if toko.Gambar != nil && *toko.Gambar != "" {
		if err := p.covers.Remove(*toko.Gambar); err != nil {
			return fmt.Errorf("%w: %w", ErrStorage, err)
		}
	}

	err = p.tx.WithinTransaction(func(tx *gorm.DB) error {
		if err := p.attachments.gambarRepo.DeleteByProduk(tx, produkIDs...); err != nil {
			return err
		}
		if err := p.produkRepo.DeleteByToko(tx, toko.ID); err != nil {
			return err
		}
		return p.tokoRepo.Delete(tx, toko.ID)
	})
	if err != nil {
		return err
	}

	log.Printf("Toko %d purged (%d produk)", toko.ID, len(produk))
	return nil
}
