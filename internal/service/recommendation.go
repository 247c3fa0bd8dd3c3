package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/Angelo10101/newhouseit/internal/models"
	"github.com/Angelo10101/newhouseit/internal/types"
)

// noMatchReason is the reason attached whenever a model-chosen id fails the
// catalog cross-check and the result is downgraded to the sentinel.
const noMatchReason = "No suitable business found in the available list"

// MalformedResponseError means the model reply could not be parsed as JSON
// at all. Raw carries the offending text for diagnostics.
type MalformedResponseError struct {
	Raw string
}

func (e *MalformedResponseError) Error() string {
	return "failed to parse AI response"
}

// InvalidFormatError means the reply parsed but is missing one of the three
// required fields. Parsed carries the decoded object for diagnostics.
type InvalidFormatError struct {
	Parsed map[string]interface{}
}

func (e *InvalidFormatError) Error() string {
	return "invalid AI response format"
}

// RecommendationService turns a user problem plus a caller-supplied catalog
// into a validated recommendation. The model's output is treated as
// untrusted input: it is parsed, checked for shape, and cross-checked
// against the catalog before anything reaches the caller.
type RecommendationService struct {
	llm TextGenerator
}

// NewRecommendationService creates a new RecommendationService instance
func NewRecommendationService(llm TextGenerator) *RecommendationService {
	return &RecommendationService{llm: llm}
}

// BuildPrompt assembles the model prompt: role, hard rules, the user's
// problem verbatim, the catalog in caller order, and the exact JSON shape
// expected back. User text is interpolated without escaping, matching the
// product's accepted prompt-injection exposure.
func BuildPrompt(userProblem string, businesses []models.Business) string {
	var list strings.Builder
	for i, b := range businesses {
		if i > 0 {
			list.WriteString("\n")
		}
		fmt.Fprintf(&list, "- ID: %s, Name: %s, Category: %s, Description: %s", b.ID, b.Name, b.Category, b.Description)
	}

	return fmt.Sprintf(`You are a recommendation engine for a home services platform.

IMPORTANT RULES:
1. You may ONLY select from the businesses provided below
2. Do NOT invent or suggest businesses that are not in the list
3. If nothing matches the user's problem, return "NO_MATCH"
4. Return ONLY valid JSON in the exact format specified
5. Base your recommendation on the business category and description

User's Problem: %s

Available Businesses:
%s

Required JSON Response Format:
{
  "recommendedBusinessId": "string_id_from_list_or_NO_MATCH",
  "confidence": 0.0_to_1.0,
  "reason": "short explanation"
}

Respond with ONLY the JSON object, no additional text.`, userProblem, list.String())
}

// Recommend runs the full pipeline: build the prompt, call the model once,
// parse and validate the reply.
func (s *RecommendationService) Recommend(ctx context.Context, userProblem string, businesses []models.Business) (*types.RecommendationResult, error) {
	prompt := BuildPrompt(userProblem, businesses)

	text, err := s.llm.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return ParseRecommendation(text, businesses)
}

// ParseRecommendation validates raw model output against the catalog it was
// generated from.
//
// The reply often arrives wrapped in markdown fences, so the parser first
// tries the substring from the first '{' to the last '}' and only then the
// whole text. A parse failure is a MalformedResponseError; a parsed object
// missing a required field is an InvalidFormatError. A confidence of 0 is a
// present value, only its absence is an error. An id that is neither the
// sentinel nor in the catalog is silently downgraded to the sentinel triple
// and logged: an unverifiable id must never reach the caller as validated.
func ParseRecommendation(raw string, businesses []models.Business) (*types.RecommendationResult, error) {
	var parsed struct {
		RecommendedBusinessID string   `json:"recommendedBusinessId"`
		Confidence            *float64 `json:"confidence"`
		Reason                string   `json:"reason"`
	}

	extracted := extractJSONObject(raw)
	if err := json.Unmarshal([]byte(extracted), &parsed); err != nil {
		return nil, &MalformedResponseError{Raw: raw}
	}

	if parsed.RecommendedBusinessID == "" || parsed.Confidence == nil || parsed.Reason == "" {
		// Attach everything the model returned, not just the known
		// fields, so the diagnostics show what actually came back.
		var diag map[string]interface{}
		if err := json.Unmarshal([]byte(extracted), &diag); err != nil {
			return nil, &MalformedResponseError{Raw: raw}
		}
		return nil, &InvalidFormatError{Parsed: diag}
	}

	result := &types.RecommendationResult{
		RecommendedBusinessID: parsed.RecommendedBusinessID,
		Confidence:            *parsed.Confidence,
		Reason:                parsed.Reason,
	}

	if result.RecommendedBusinessID != types.NoMatch {
		exists := false
		for _, b := range businesses {
			if b.ID == result.RecommendedBusinessID {
				exists = true
				break
			}
		}
		if !exists {
			log.Printf("AI recommended a business not in the list: %s", result.RecommendedBusinessID)
			result.RecommendedBusinessID = types.NoMatch
			result.Reason = noMatchReason
			result.Confidence = 0
		}
	}

	return result, nil
}

// extractJSONObject returns the substring from the first '{' to the last
// '}' when both are present, otherwise the input unchanged.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
