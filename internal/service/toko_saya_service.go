package service

import (
	"fmt"

	"go-marketplace-toko/internal/model"
	"go-marketplace-toko/internal/repository"
	"go-marketplace-toko/internal/ws"
	"go-marketplace-toko/pkg/refcodec"
)

// TokoSayaService is the member's view of their own store.
type TokoSayaService interface {
	MyToko(caller Caller) (*model.TokoResponse, error)
	DeleteMyToko(caller Caller, ref string) error
}

type tokoSayaService struct {
	tokoRepo repository.TokoRepository
	owners   *OwnershipResolver
	purger   *TokoPurger
	codec    refcodec.Codec
	wsHub    ws.Broadcaster
}

func NewTokoSayaService(tokoRepo repository.TokoRepository, owners *OwnershipResolver, purger *TokoPurger, codec refcodec.Codec, hub ws.Broadcaster) TokoSayaService {
	return &tokoSayaService{
		tokoRepo: tokoRepo,
		owners:   owners,
		purger:   purger,
		codec:    codec,
		wsHub:    hub,
	}
}

// MyToko returns nil without error when the caller has no store.
func (s *tokoSayaService) MyToko(caller Caller) (*model.TokoResponse, error) {
	toko, err := s.owners.ResolveToko(caller.UserID)
	if err != nil || toko == nil {
		return nil, err
	}

	ref, err := s.codec.Encode(toko.ID)
	if err != nil {
		return nil, err
	}
	response := toko.ToResponse(ref)
	return &response, nil
}

func (s *tokoSayaService) DeleteMyToko(caller Caller, ref string) error {
	id, err := decodeRef(s.codec, ref)
	if err != nil {
		return err
	}

	toko, err := s.tokoRepo.FindByID(id)
	if err != nil {
		return notFound(err)
	}

	if err := AssertOwns(caller.UserID, toko); err != nil {
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
