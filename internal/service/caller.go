package service

import "go-marketplace-toko/internal/model"

// Caller is the authenticated identity of the current request, passed
// explicitly into every operation.
type Caller struct {
	UserID uint
	Name   string
	Role   model.Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == model.RoleAdmin
}
