package types

import (
	"github.com/Angelo10101/newhouseit/internal/models"
)

// NoMatch is the sentinel id returned when no catalog business fits the
// user's problem.
const NoMatch = "NO_MATCH"

// RecommendationRequest is the body of POST /api/recommend-business.
type RecommendationRequest struct {
	UserProblem string            `json:"userProblem"`
	Businesses  []models.Business `json:"businesses"`
}

// RecommendationResult is the constrained shape the model is asked for and
// the success body of the recommend endpoint. RecommendedBusinessID is
// either an id from the request's businesses list or NoMatch.
type RecommendationResult struct {
	RecommendedBusinessID string  `json:"recommendedBusinessId"`
	Confidence            float64 `json:"confidence"`
	Reason                string  `json:"reason"`
}

// ErrorResponse is the JSON error envelope returned by all handlers.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// RegisterRequest is the body of POST /api/v1/auth/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CheckoutRequest starts a payment for the current cart.
type CheckoutRequest struct {
	AddressID   string `json:"address_id" binding:"required"`
	ScheduledAt string `json:"scheduled_at" binding:"required"`
}

// CheckoutResponse carries the gateway hand-off back to the app, which
// opens AuthorizationURL in a web view and keeps Reference for verification.
type CheckoutResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

// VerifyPaymentRequest is the body of POST /api/v1/payments/verify.
type VerifyPaymentRequest struct {
	Reference string `json:"reference" binding:"required"`
}
