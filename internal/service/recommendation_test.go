package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Angelo10101/newhouseit/internal/models"
	"github.com/Angelo10101/newhouseit/internal/types"
)

var testCatalog = []models.Business{
	{ID: "electrician-1", Name: "Lightning Electric Co.", Category: "Electrician", Description: "Professional electrical services"},
	{ID: "plumbing-1", Name: "AquaFix Pro", Category: "Plumbing", Description: "Expert plumbing services"},
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("My lights keep flickering", testCatalog)

	assert.Contains(t, prompt, "You are a recommendation engine for a home services platform.")
	assert.Contains(t, prompt, "User's Problem: My lights keep flickering")
	assert.Contains(t, prompt, `- ID: electrician-1, Name: Lightning Electric Co., Category: Electrician, Description: Professional electrical services`)
	assert.Contains(t, prompt, `- ID: plumbing-1, Name: AquaFix Pro, Category: Plumbing, Description: Expert plumbing services`)
	assert.Contains(t, prompt, `"recommendedBusinessId": "string_id_from_list_or_NO_MATCH"`)
	assert.Contains(t, prompt, "If nothing matches the user's problem, return \"NO_MATCH\"")

	// Catalog lines keep the caller's order.
	first := strings.Index(prompt, "electrician-1")
	second := strings.Index(prompt, "plumbing-1")
	assert.Less(t, first, second)
}

func TestParseRecommendationValidID(t *testing.T) {
	raw := `{"recommendedBusinessId":"electrician-1","confidence":0.9,"reason":"Matches electrical issue"}`

	result, err := ParseRecommendation(raw, testCatalog)
	require.NoError(t, err)
	assert.Equal(t, "electrician-1", result.RecommendedBusinessID)
	assert.Equal(t, 0.9, result.Confidence)
	assert.Equal(t, "Matches electrical issue", result.Reason)
}

func TestParseRecommendationMarkdownFences(t *testing.T) {
	raw := "```json\n{\"recommendedBusinessId\":\"plumbing-1\",\"confidence\":0.8,\"reason\":\"Leaky pipes\"}\n```"

	result, err := ParseRecommendation(raw, testCatalog)
	require.NoError(t, err)
	assert.Equal(t, "plumbing-1", result.RecommendedBusinessID)
}

func TestParseRecommendationSurroundingProse(t *testing.T) {
	raw := `Sure! Here is my recommendation: {"recommendedBusinessId":"electrician-1","confidence":0.7,"reason":"Electrical fault"} Hope that helps.`

	result, err := ParseRecommendation(raw, testCatalog)
	require.NoError(t, err)
	assert.Equal(t, "electrician-1", result.RecommendedBusinessID)
}

func TestParseRecommendationUnknownIDDowngraded(t *testing.T) {
	raw := `{"recommendedBusinessId":"roofing-99","confidence":0.95,"reason":"Roof damage"}`

	result, err := ParseRecommendation(raw, testCatalog)
	require.NoError(t, err)
	assert.Equal(t, types.NoMatch, result.RecommendedBusinessID)
	assert.Equal(t, float64(0), result.Confidence)
	assert.Equal(t, "No suitable business found in the available list", result.Reason)
}

func TestParseRecommendationExplicitNoMatch(t *testing.T) {
	raw := `{"recommendedBusinessId":"NO_MATCH","confidence":0.2,"reason":"Nothing fits"}`

	result, err := ParseRecommendation(raw, testCatalog)
	require.NoError(t, err)
	assert.Equal(t, types.NoMatch, result.RecommendedBusinessID)
	// An explicit sentinel from the model is passed through untouched.
	assert.Equal(t, 0.2, result.Confidence)
	assert.Equal(t, "Nothing fits", result.Reason)
}

func TestParseRecommendationZeroConfidenceIsPresent(t *testing.T) {
	raw := `{"recommendedBusinessId":"electrician-1","confidence":0,"reason":"Weak match"}`

	result, err := ParseRecommendation(raw, testCatalog)
	require.NoError(t, err)
	assert.Equal(t, float64(0), result.Confidence)
}

func TestParseRecommendationNonJSON(t *testing.T) {
	raw := "Sorry, I cannot help."

	_, err := ParseRecommendation(raw, testCatalog)
	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, raw, malformed.Raw)
}

func TestParseRecommendationMissingFields(t *testing.T) {
	cases := map[string]string{
		"missing id":         `{"confidence":0.5,"reason":"ok"}`,
		"missing confidence": `{"recommendedBusinessId":"electrician-1","reason":"ok"}`,
		"missing reason":     `{"recommendedBusinessId":"electrician-1","confidence":0.5}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRecommendation(raw, testCatalog)
			var invalid *InvalidFormatError
			require.ErrorAs(t, err, &invalid)
		})
	}
}

func TestParseRecommendationDiagnosticsKeepExtraFields(t *testing.T) {
	// Missing "reason", plus a key outside the expected shape. The
	// diagnostics must carry the object as the model returned it.
	raw := `{"recommendedBusinessId":"electrician-1","confidence":0.5,"notes":"call after hours"}`

	_, err := ParseRecommendation(raw, testCatalog)
	var invalid *InvalidFormatError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "electrician-1", invalid.Parsed["recommendedBusinessId"])
	assert.Equal(t, 0.5, invalid.Parsed["confidence"])
	assert.Equal(t, "call after hours", invalid.Parsed["notes"])
}

type stubGenerator struct {
	text  string
	err   error
	calls int
}

func (s *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestRecommendSingleAttempt(t *testing.T) {
	stub := &stubGenerator{err: errors.New("network down")}
	svc := NewRecommendationService(stub)

	_, err := svc.Recommend(context.Background(), "leaky tap", testCatalog)
	require.Error(t, err)
	assert.Equal(t, 1, stub.calls, "upstream failures must not be retried")
}

func TestRecommendIdempotent(t *testing.T) {
	stub := &stubGenerator{text: `{"recommendedBusinessId":"plumbing-1","confidence":0.8,"reason":"Plumbing issue"}`}
	svc := NewRecommendationService(stub)

	first, err := svc.Recommend(context.Background(), "leaky tap", testCatalog)
	require.NoError(t, err)
	second, err := svc.Recommend(context.Background(), "leaky tap", testCatalog)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
