package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/domain/model"
)

// SignatureHeader carries the webhook body signature.
const SignatureHeader = "x-paystack-signature"

// Client talks to the Paystack transaction API.
type Client struct {
	baseURL    *url.URL
	secretKey  string
	httpClient *http.Client
	logger     *slog.Logger
}

// envelope mirrors the common Paystack response wrapper.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type transactionData struct {
	Reference string     `json:"reference"`
	Status    string     `json:"status"`
	Amount    int64      `json:"amount"`
	PaidAt    *time.Time `json:"paid_at"`
}

type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// NewClient creates a Paystack client. Requests are bounded by timeout.
func NewClient(baseURL, secretKey string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse paystack url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("paystack url must be absolute")
	}
	if secretKey == "" {
		return nil, fmt.Errorf("paystack secret key must be provided")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    parsed,
		secretKey:  secretKey,
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// InitializeSession opens a hosted checkout for req.
func (c *Client) InitializeSession(ctx context.Context, req model.PaymentSessionRequest) (*model.PaymentSession, error) {
	body, err := json.Marshal(initializeRequest{
		Email:       req.Email,
		Amount:      req.AmountMinor,
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	var data initializeData
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", body, &data); err != nil {
		return nil, err
	}
	if data.AuthorizationURL == "" {
		return nil, fmt.Errorf("paystack: empty authorization url")
	}
	reference := data.Reference
	if reference == "" {
		reference = req.Reference
	}
	return &model.PaymentSession{Reference: reference, AuthorizationURL: data.AuthorizationURL}, nil
}

// Verify asks Paystack for the outcome of reference.
func (c *Client) Verify(ctx context.Context, reference string) (*model.PaymentVerification, error) {
	var data transactionData
	if err := c.do(ctx, http.MethodGet, path.Join("/transaction/verify", url.PathEscape(reference)), nil, &data); err != nil {
		return nil, err
	}
	return &model.PaymentVerification{
		Reference:   data.Reference,
		Success:     data.Status == "success",
		Status:      data.Status,
		AmountMinor: data.Amount,
		PaidAt:      data.PaidAt,
	}, nil
}

// ParseWebhook checks the hex HMAC-SHA512 signature of body and decodes the event.
func (c *Client) ParseWebhook(body []byte, signature string) (*model.PaymentEvent, error) {
	if !c.validSignature(body, signature) {
		return nil, domainErrors.ErrInvalidSignature
	}
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domainErrors.NewValidationError("body", "is not valid JSON")
	}
	return &model.PaymentEvent{Event: payload.Event, Reference: payload.Data.Reference}, nil
}

// Sign returns the signature Paystack would send for body.
func Sign(secretKey string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) validSignature(body []byte, signature string) bool {
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(got) == 0 {
		return false
	}
	want, _ := hex.DecodeString(Sign(c.secretKey, body))
	return hmac.Equal(got, want)
}

func (c *Client) do(ctx context.Context, method, endpointPath string, body []byte, out any) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, endpointPath)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("paystack request failed",
			slog.String("path", endpointPath),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		return fmt.Errorf("paystack error: %s", resp.Status)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode paystack response: %w", err)
	}
	if !env.Status {
		return fmt.Errorf("paystack: %s", env.Message)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode paystack data: %w", err)
	}
	return nil
}
