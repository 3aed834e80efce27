package utils

import (
	"testing"
	"time"

	"plantco/models"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	signer := NewTokenSigner("test-secret")
	want := models.Principal{ID: "user-1", Role: models.RoleVendor}

	token, err := signer.GenerateToken(want, time.Hour)
	require.NoError(t, err)

	got, err := signer.ExtractPrincipal(token)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTokenRejectsForeignSecretAndExpiry(t *testing.T) {
	token, err := NewTokenSigner("a").GenerateToken(models.Principal{ID: "u", Role: models.RoleCustomer}, time.Hour)
	require.NoError(t, err)
	_, err = NewTokenSigner("b").ExtractPrincipal(token)
	assert.Error(t, err)

	expired, err := NewTokenSigner("a").GenerateToken(models.Principal{ID: "u", Role: models.RoleCustomer}, -time.Minute)
	require.NoError(t, err)
	_, err = NewTokenSigner("a").ExtractPrincipal(expired)
	assert.Error(t, err)
}

func TestTokenRequiresKnownRole(t *testing.T) {
	claims := jwt.MapClaims{"sub": "u", "role": "superuser", "exp": time.Now().Add(time.Hour).Unix()}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokenSigner("k").ExtractPrincipal(raw)
	assert.Error(t, err)
}
