package jwt

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
)

const issuer = "go-marketplace-toko"

// Token valid for 24 hours
const tokenTTL = 24 * time.Hour

var (
	secretMu  sync.RWMutex
	secretKey []byte
)

// Claims represents the JWT claims structure
type Claims struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	TokenVersion string `json:"token_version"`
	jwt.RegisteredClaims
}

// SetSecretKey overrides the signing secret, normally from config.
func SetSecretKey(secret string) {
	secretMu.Lock()
	defer secretMu.Unlock()
	secretKey = []byte(secret)
}

// GetSecretKey returns the configured secret, then JWT_SECRET, then a default
func GetSecretKey() []byte {
	secretMu.RLock()
	defer secretMu.RUnlock()
	if len(secretKey) > 0 {
		return secretKey
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "your-super-secret-key-change-in-production"
	}
	return []byte(secret)
}

// GenerateToken creates a new JWT token for a user
func GenerateToken(userID uint, username, name, role, tokenVersion string) (string, error) {
	claims := &Claims{
		UserID:       userID,
		Username:     username,
		Name:         name,
		Role:         role,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(GetSecretKey())
}

// ValidateToken parses and validates a JWT token
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return GetSecretKey(), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
