package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Angelo10101/newhouseit/internal/types"
)

type stubModel struct {
	text       string
	err        error
	calls      int
	configured bool
}

func (s *stubModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.text, s.err
}

func (s *stubModel) Configured() bool { return s.configured }

func recommendRouter(model ModelClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewRecommendHandler(model).RegisterRoutes(router)
	return router
}

func postRecommend(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/recommend-business", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const scenarioBody = `{
	"userProblem": "My lights keep flickering",
	"businesses": [
		{"id":"electrician-1","name":"Lightning Electric Co.","category":"Electrician","description":"Electrical repairs"},
		{"id":"plumbing-1","name":"AquaFix Pro","category":"Plumbing","description":"Plumbing repairs"}
	]
}`

func TestRecommendMatchedBusiness(t *testing.T) {
	model := &stubModel{
		configured: true,
		text:       `{"recommendedBusinessId":"electrician-1","confidence":0.9,"reason":"Matches electrical issue"}`,
	}
	router := recommendRouter(model)

	w := postRecommend(router, scenarioBody)
	require.Equal(t, http.StatusOK, w.Code)

	var result types.RecommendationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "electrician-1", result.RecommendedBusinessID)
	assert.Equal(t, 0.9, result.Confidence)
	assert.Equal(t, "Matches electrical issue", result.Reason)
}

func TestRecommendUnknownIDDowngraded(t *testing.T) {
	model := &stubModel{
		configured: true,
		text:       `{"recommendedBusinessId":"roofing-99","confidence":0.95,"reason":"Roof damage"}`,
	}
	router := recommendRouter(model)

	w := postRecommend(router, scenarioBody)
	require.Equal(t, http.StatusOK, w.Code)

	var result types.RecommendationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, types.NoMatch, result.RecommendedBusinessID)
	assert.Equal(t, float64(0), result.Confidence)
	assert.Equal(t, "No suitable business found in the available list", result.Reason)
}

func TestRecommendNonJSONResponse(t *testing.T) {
	model := &stubModel{configured: true, text: "Sorry, I cannot help."}
	router := recommendRouter(model)

	w := postRecommend(router, scenarioBody)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to parse AI response", resp.Error)
	assert.Equal(t, "Sorry, I cannot help.", resp.Details)
}

func TestRecommendMissingAPIKey(t *testing.T) {
	model := &stubModel{configured: false}
	router := recommendRouter(model)

	w := postRecommend(router, scenarioBody)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "configuration")
	assert.Equal(t, 0, model.calls, "model must not be called when the key is missing")
}

func TestRecommendEmptyBusinesses(t *testing.T) {
	model := &stubModel{configured: true}
	router := recommendRouter(model)

	w := postRecommend(router, `{"userProblem":"anything at all","businesses":[]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid request. Provide userProblem (string) and businesses (array).", resp.Error)
	assert.Equal(t, 0, model.calls, "model must not be called on invalid input")
}

func TestRecommendEmptyProblem(t *testing.T) {
	model := &stubModel{configured: true}
	router := recommendRouter(model)

	w := postRecommend(router, `{"userProblem":"","businesses":[{"id":"a","name":"A","category":"C","description":"D"}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, model.calls)
}

func TestRecommendMalformedBody(t *testing.T) {
	model := &stubModel{configured: true}
	router := recommendRouter(model)

	w := postRecommend(router, `{not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, model.calls)
}

func TestRecommendInvalidFormat(t *testing.T) {
	model := &stubModel{configured: true, text: `{"confidence":0.5,"reason":"ok"}`}
	router := recommendRouter(model)

	w := postRecommend(router, scenarioBody)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid AI response format", resp.Error)
	assert.NotNil(t, resp.Details)
}

func TestRecommendUpstreamFailure(t *testing.T) {
	model := &stubModel{configured: true, err: errors.New("connection refused")}
	router := recommendRouter(model)

	w := postRecommend(router, scenarioBody)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Internal server error", resp.Error)
	assert.Contains(t, resp.Message, "connection refused")
	assert.Equal(t, 1, model.calls, "a failed call must not be retried")
}

func TestRecommendRoundTripsLongID(t *testing.T) {
	// Any id accepted in the request list and echoed by the model comes
	// back verbatim.
	id := "entertainment-very-long-identifier-42"
	model := &stubModel{
		configured: true,
		text:       `{"recommendedBusinessId":"` + id + `","confidence":1,"reason":"exact"}`,
	}
	router := recommendRouter(model)

	body := `{"userProblem":"tv setup","businesses":[{"id":"` + id + `","name":"TechSetup Pro","category":"Entertainment","description":"AV installs"}]}`
	w := postRecommend(router, body)
	require.Equal(t, http.StatusOK, w.Code)

	var result types.RecommendationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, id, result.RecommendedBusinessID)
}

func TestHealth(t *testing.T) {
	router := recommendRouter(&stubModel{configured: true})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "Backend is running", resp["message"])
}
