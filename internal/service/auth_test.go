package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Angelo10101/newhouseit/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupStoreDB(t)
	svc := NewAuthService(db, "secret")

	token, err := svc.Register("Thabo Nkosi", "thabo@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	// Registration creates a profile alongside the user.
	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", claims.UserID).First(&profile).Error)
	assert.Equal(t, "thabo@example.com", profile.Email)

	loginToken, err := svc.Login("thabo@example.com", "password123")
	require.NoError(t, err)
	loginClaims, err := svc.ValidateToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, loginClaims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(setupStoreDB(t), "secret")

	_, err := svc.Register("Thabo", "thabo@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register("Other", "thabo@example.com", "password456")
	assert.EqualError(t, err, "user already exists")
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(setupStoreDB(t), "secret")

	_, err := svc.Register("Thabo", "thabo@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Login("thabo@example.com", "wrong")
	assert.EqualError(t, err, "invalid credentials")

	_, err = svc.Login("nobody@example.com", "password123")
	assert.EqualError(t, err, "invalid credentials")
}

func TestValidateTokenRejectsForgery(t *testing.T) {
	db := setupStoreDB(t)
	issuer := NewAuthService(db, "secret")
	verifier := NewAuthService(db, "different-secret")

	token, err := issuer.Register("Thabo", "thabo@example.com", "password123")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}
