package jwt_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"go-marketplace-toko/pkg/jwt"
)

func TestGenerateAndValidate(t *testing.T) {
	c := qt.New(t)
	jwt.SetSecretKey("test-secret")

	token, err := jwt.GenerateToken(12, "budi", "Budi Santoso", "member", "v1")
	c.Assert(err, qt.IsNil)

	claims, err := jwt.ValidateToken(token)
	c.Assert(err, qt.IsNil)
	c.Assert(claims.UserID, qt.Equals, uint(12))
	c.Assert(claims.Username, qt.Equals, "budi")
	c.Assert(claims.Role, qt.Equals, "member")
	c.Assert(claims.TokenVersion, qt.Equals, "v1")
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	c := qt.New(t)
	jwt.SetSecretKey("secret-a")
	token, err := jwt.GenerateToken(1, "admin", "Admin", "admin", "v1")
	c.Assert(err, qt.IsNil)

	jwt.SetSecretKey("secret-b")
	_, err = jwt.ValidateToken(token)
	c.Assert(err, qt.ErrorIs, jwt.ErrInvalidToken)

	_, err = jwt.ValidateToken("not-a-token")
	c.Assert(err, qt.ErrorIs, jwt.ErrInvalidToken)
}
