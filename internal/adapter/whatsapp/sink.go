package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/polkiloo/palmwine/internal/domain/model"
)

// Sink delivers a notification to its recipient.
type Sink interface {
	Send(ctx context.Context, n model.Notification) error
}

// CloudSink posts text messages to a WhatsApp Cloud API compatible endpoint.
type CloudSink struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

// NewCloudSink creates a sink posting to endpoint with a bearer token.
func NewCloudSink(endpoint, token string, logger *slog.Logger) (*CloudSink, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse whatsapp url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("whatsapp url must be absolute")
	}
	return &CloudSink{
		endpoint:   parsed.String(),
		token:      token,
		logger:     logger,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Send posts n as a text message.
func (s *CloudSink) Send(ctx context.Context, n model.Notification) error {
	msg := textMessage{MessagingProduct: "whatsapp", To: normalizePhone(n.Recipient), Type: "text"}
	msg.Text.Body = n.Text
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp error: %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}
	return nil
}

// LogSink only logs notifications. Used when no WhatsApp endpoint is configured.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(_ context.Context, n model.Notification) error {
	s.logger.Info("notification",
		slog.String("kind", string(n.Kind)),
		slog.String("to", n.Recipient),
		slog.String("order", n.OrderNumber),
		slog.String("text", n.Text),
	)
	return nil
}

// normalizePhone strips formatting, leaving the digits the API expects.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "0") && len(digits) == 11 {
		return "234" + digits[1:]
	}
	return digits
}
