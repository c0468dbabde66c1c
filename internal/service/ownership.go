package service

import (
	"errors"

	"go-marketplace-toko/internal/model"
	"go-marketplace-toko/internal/repository"
	"go-marketplace-toko/pkg/refcodec"

	"gorm.io/gorm"
)

// OwnershipResolver finds the store owned by a user.
type OwnershipResolver struct {
	tokoRepo repository.TokoRepository
}

func NewOwnershipResolver(tokoRepo repository.TokoRepository) *OwnershipResolver {
	return &OwnershipResolver{tokoRepo: tokoRepo}
}

// ResolveToko returns (nil, nil) when the user has no store yet; errors
// are database failures only.
func (r *OwnershipResolver) ResolveToko(userID uint) (*model.Toko, error) {
	toko, err := r.tokoRepo.FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toko, nil
}

// AssertOwns fails with ErrAccessDenied unless entity belongs to userID.
func AssertOwns(userID uint, entity model.Owned) error {
	if entity == nil {
		return ErrAccessDenied
	}
	owner, ok := entity.OwnerUserID()
	if !ok || userID == 0 || owner != userID {
		return ErrAccessDenied
	}
	return nil
}

// decodeRef maps every decode failure to ErrNotFound so tampered and
// absent references look the same to the client.
func decodeRef(codec refcodec.Codec, ref string) (uint, error) {
	id, err := codec.Decode(ref)
	if err != nil {
		return 0, ErrNotFound
	}
	return id, nil
}

// notFound translates gorm.ErrRecordNotFound into ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
