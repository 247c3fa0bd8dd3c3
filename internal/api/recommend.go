package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Angelo10101/newhouseit/internal/service"
	"github.com/Angelo10101/newhouseit/internal/types"
)

// ModelClient is the slice of the LLM service the recommend endpoint needs.
type ModelClient interface {
	service.TextGenerator
	Configured() bool
}

// RecommendHandler serves the business recommendation endpoint.
type RecommendHandler struct {
	llm ModelClient
}

// NewRecommendHandler creates a new RecommendHandler instance
func NewRecommendHandler(llm ModelClient) *RecommendHandler {
	return &RecommendHandler{llm: llm}
}

// RegisterRoutes registers the recommendation routes
func (h *RecommendHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.POST("/api/recommend-business", h.Recommend)
}

// Health reports service liveness.
func (h *RecommendHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Backend is running"})
}

// Recommend handles POST /api/recommend-business. Input and configuration
// are checked before the model is ever called; every failure after that is
// mapped to a JSON error envelope, and an unverifiable model answer is
// downgraded to the sentinel rather than failing the request.
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req types.RecommendationRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil || req.UserProblem == "" || len(req.Businesses) == 0 {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "Invalid request. Provide userProblem (string) and businesses (array).",
		})
		return
	}

	if !h.llm.Configured() {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error: "Server configuration error: GEMINI_API_KEY not set",
		})
		return
	}

	svc := service.NewRecommendationService(h.llm)
	result, err := svc.Recommend(c.Request.Context(), req.UserProblem, req.Businesses)
	if err != nil {
		var malformed *service.MalformedResponseError
		var invalid *service.InvalidFormatError
		switch {
		case errors.As(err, &malformed):
			log.Printf("Failed to parse Gemini response: %s", malformed.Raw)
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Error:   "Failed to parse AI response",
				Details: malformed.Raw,
			})
		case errors.As(err, &invalid):
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Error:   "Invalid AI response format",
				Details: invalid.Parsed,
			})
		default:
			log.Printf("Error in recommend-business endpoint: %v", err)
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Error:   "Internal server error",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
