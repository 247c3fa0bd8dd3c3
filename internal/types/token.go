package types

import (
	"github.com/google/uuid"
)

// TokenClaims represents the claims extracted from a JWT token
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
}
