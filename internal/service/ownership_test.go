package service

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"go-marketplace-toko/internal/model"
)

func TestResolveToko(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	owner := f.db.addUser("sari", model.RoleMember)
	other := f.db.addUser("budi", model.RoleMember)
	toko := f.db.addToko(owner.ID, "Warung Sari")

	got, err := f.owners.ResolveToko(owner.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.ID, qt.Equals, toko.ID)

	got, err = f.owners.ResolveToko(other.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.IsNil)
}

func TestAssertOwns(t *testing.T) {
	owned := &model.Toko{IDUser: 7}
	owned.ID = 3
	produk := &model.Produk{IDToko: 3, Toko: owned}
	var nilToko *model.Toko

	tests := []struct {
		name   string
		userID uint
		entity model.Owned
		denied bool
	}{
		{name: "own toko", userID: 7, entity: owned},
		{name: "other user's toko", userID: 8, entity: owned, denied: true},
		{name: "own produk", userID: 7, entity: produk},
		{name: "other user's produk", userID: 8, entity: produk, denied: true},
		{name: "produk without toko loaded", userID: 7, entity: &model.Produk{IDToko: 3}, denied: true},
		{name: "produk with mismatched toko", userID: 7, entity: &model.Produk{IDToko: 4, Toko: owned}, denied: true},
		{name: "nil entity", userID: 7, entity: nil, denied: true},
		{name: "typed nil toko", userID: 7, entity: nilToko, denied: true},
		{name: "anonymous caller", userID: 0, entity: &model.Toko{}, denied: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			err := AssertOwns(tt.userID, tt.entity)
			if tt.denied {
				c.Assert(err, qt.ErrorIs, ErrAccessDenied)
			} else {
				c.Assert(err, qt.IsNil)
			}
		})
	}
}

func TestDecodeRefMapsToNotFound(t *testing.T) {
	c := qt.New(t)
	f := newFixture()

	_, err := decodeRef(f.codec, "garbage")
	c.Assert(err, qt.ErrorIs, ErrNotFound)

	id, err := decodeRef(f.codec, f.ref(42))
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Equals, uint(42))
}
