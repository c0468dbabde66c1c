package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents an authenticated user in the system
type User struct {
	BaseModel
	Nama         string `gorm:"type:varchar(255);not null" json:"nama"`
	Username     string `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Password     string `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Role         Role   `gorm:"type:varchar(16);not null;default:'member'" json:"role"`
	TokenVersion string `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID          uint      `json:"id"`
	EncryptedID string    `json:"encrypted_id"`
	Nama        string    `json:"nama"`
	Username    string    `json:"username"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse(encryptedID string) UserResponse {
	return UserResponse{
		ID:          u.ID,
		EncryptedID: encryptedID,
		Nama:        u.Nama,
		Username:    u.Username,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
	}
}

// UserOption is the short form used by the store owner picker.
type UserOption struct {
	ID       uint   `json:"id"`
	Nama     string `json:"nama"`
	Username string `json:"username"`
}
