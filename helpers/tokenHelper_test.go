package helpers

import (
	"testing"

	"github.com/dgrijalva/jwt-go"
	"gopkg.in/go-playground/assert.v1"
)

func TestGeneratedTokensValidate(t *testing.T) {
	token, refreshToken, err := GenerateAllTokens("ravi@example.com", "Ravi Kumar", "user-1", "CUSTOMER")
	assert.Equal(t, err, nil)

	claims, msg := ValidateToken(token)
	assert.Equal(t, msg, "")
	assert.Equal(t, claims.Email, "ravi@example.com")
	assert.Equal(t, claims.Uid, "user-1")
	assert.Equal(t, claims.User_role, "CUSTOMER")

	// The refresh token identifies the user but carries no other claims.
	refreshClaims, msg := ValidateToken(refreshToken)
	assert.Equal(t, msg, "")
	assert.Equal(t, refreshClaims.Uid, "user-1")
	assert.Equal(t, refreshClaims.Email, "")
	assert.Equal(t, refreshClaims.User_role, "")
}

func TestValidateTokenRejectsUnexpectedSigningMethod(t *testing.T) {
	// alg=none tokens must never pass, whatever the header says.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, SignedDetails{
		Uid:       "user-1",
		User_role: "ADMIN",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.Equal(t, err, nil)

	_, msg := ValidateToken(unsigned)
	assert.NotEqual(t, msg, "")
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, msg := ValidateToken("not-a-token")
	assert.NotEqual(t, msg, "")
}
