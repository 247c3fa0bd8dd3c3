package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Angelo10101/newhouseit/config"
)

// ErrPaymentNotConfigured is returned before any gateway call when the
// Paystack secret key is missing from the configuration.
var ErrPaymentNotConfigured = errors.New("Paystack secret key not configured")

// PaymentInit is the gateway hand-off for a freshly initialized
// transaction. The app opens AuthorizationURL and later verifies Reference.
type PaymentInit struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// PaymentVerification is the settled state of a transaction. Amount is in
// rand, converted back from the gateway's kobo.
type PaymentVerification struct {
	Status    string                 `json:"status"`
	Amount    float64                `json:"amount"`
	Reference string                 `json:"reference"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// PaystackService is the bridge to the Paystack transaction API. Amounts
// cross the boundary in rand and are converted to kobo on the wire, the
// smallest currency unit Paystack expects.
type PaystackService struct {
	secretKey   string
	apiURL      string
	callbackURL string
	client      *http.Client
}

// NewPaystackService creates a new PaystackService instance
func NewPaystackService(cfg *config.Config) *PaystackService {
	return &PaystackService{
		secretKey:   cfg.PaystackSecretKey,
		apiURL:      cfg.PaystackAPIURL,
		callbackURL: cfg.PaymentCallbackURL,
		client:      &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitiateTransaction starts a Paystack transaction for the given email and
// amount in rand. Metadata is attached verbatim so the verification step
// can recover the order details.
func (s *PaystackService) InitiateTransaction(ctx context.Context, email string, amount float64, metadata map[string]interface{}) (*PaymentInit, error) {
	if s.secretKey == "" {
		return nil, ErrPaymentNotConfigured
	}

	payload := map[string]interface{}{
		"email":        email,
		"amount":       int64(amount * 100),
		"currency":     "ZAR",
		"callback_url": s.callbackURL,
		"metadata":     metadata,
	}

	data, err := s.call(ctx, http.MethodPost, s.apiURL+"/transaction/initialize", payload)
	if err != nil {
		return nil, err
	}

	var init PaymentInit
	if err := json.Unmarshal(data, &init); err != nil {
		return nil, fmt.Errorf("failed to decode initialization data: %w", err)
	}

	return &init, nil
}

// VerifyTransaction fetches the settled state of a transaction by its
// reference.
func (s *PaystackService) VerifyTransaction(ctx context.Context, reference string) (*PaymentVerification, error) {
	if s.secretKey == "" {
		return nil, ErrPaymentNotConfigured
	}

	data, err := s.call(ctx, http.MethodGet, s.apiURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Status    string                 `json:"status"`
		Amount    int64                  `json:"amount"`
		Reference string                 `json:"reference"`
		Metadata  map[string]interface{} `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode verification data: %w", err)
	}

	return &PaymentVerification{
		Status:    raw.Status,
		Amount:    float64(raw.Amount) / 100,
		Reference: raw.Reference,
		Metadata:  raw.Metadata,
	}, nil
}

func (s *PaystackService) call(ctx context.Context, method, url string, payload interface{}) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var envelope paystackEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !envelope.Status {
		msg := envelope.Message
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("Paystack error: %s", msg)
	}

	return envelope.Data, nil
}
