package model

import (
	"time"
)

// BaseModel handles numeric ID and standard timestamps.
// ID tidak pernah dikirim mentah ke client, selalu lewat refcodec.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Owned is implemented by entities that belong (directly or through their
// Toko) to exactly one user.
type Owned interface {
	// OwnerUserID returns the owning user's ID. ok is false when the owner
	// cannot be determined (e.g. the relation was not loaded).
	OwnerUserID() (userID uint, ok bool)
}
