package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/domain/model"
)

const testSecret = "sk_test_palmwine"

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, testSecret, time.Second, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewClientValidates(t *testing.T) {
	if _, err := NewClient("://bad-url", testSecret, 0, testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewClient("/relative", testSecret, 0, testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
	if _, err := NewClient("https://api.paystack.co", "", 0, testLogger()); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestInitializeSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer "+testSecret {
			t.Errorf("unexpected authorization header %q", got)
		}
		var body initializeRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Amount != 400000 || body.Reference != "PW-ABC123-0a1b2c3d" || body.Metadata["order_number"] != "PW-ABC123" {
			t.Errorf("unexpected body %+v", body)
		}
		_, _ = w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/xyz","access_code":"xyz","reference":"PW-ABC123-0a1b2c3d"}}`))
	})

	session, err := client.InitializeSession(context.Background(), model.PaymentSessionRequest{
		Email:       "ada@example.com",
		AmountMinor: 400000,
		Reference:   "PW-ABC123-0a1b2c3d",
		CallbackURL: "http://localhost/api/payments/verify",
		Metadata:    map[string]string{"order_number": "PW-ABC123"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.AuthorizationURL != "https://checkout.paystack.com/xyz" || session.Reference != "PW-ABC123-0a1b2c3d" {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestInitializeSessionFailures(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		payload string
	}{
		{"http error", http.StatusUnauthorized, `{"status":false,"message":"Invalid key"}`},
		{"status false", http.StatusOK, `{"status":false,"message":"Duplicate Transaction Reference"}`},
		{"missing url", http.StatusOK, `{"status":true,"data":{"reference":"x"}}`},
		{"garbage", http.StatusOK, `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.payload))
			})
			if _, err := client.InitializeSession(context.Background(), model.PaymentSessionRequest{Reference: "x"}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestVerify(t *testing.T) {
	cases := []struct {
		name        string
		payload     string
		wantSuccess bool
		wantAmount  int64
	}{
		{"success", `{"status":true,"data":{"reference":"R1","status":"success","amount":250000,"paid_at":"2024-06-03T10:30:00.000Z"}}`, true, 250000},
		{"abandoned", `{"status":true,"data":{"reference":"R1","status":"abandoned","amount":250000,"paid_at":null}}`, false, 250000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/transaction/verify/R1" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				_, _ = w.Write([]byte(tc.payload))
			})
			v, err := client.Verify(context.Background(), "R1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Success != tc.wantSuccess || v.AmountMinor != tc.wantAmount || v.Reference != "R1" {
				t.Fatalf("unexpected verification %+v", v)
			}
		})
	}
}

func TestVerifyRespectsContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := client.Verify(ctx, "R1"); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestParseWebhook(t *testing.T) {
	client, err := NewClient("https://api.paystack.co", testSecret, time.Second, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	body := []byte(`{"event":"charge.success","data":{"reference":"PW-ABC123-0a1b2c3d","amount":400000}}`)

	event, err := client.ParseWebhook(body, Sign(testSecret, body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Event != model.PaymentEventChargeSuccess || event.Reference != "PW-ABC123-0a1b2c3d" {
		t.Fatalf("unexpected event %+v", event)
	}

	for name, sig := range map[string]string{
		"empty":      "",
		"not hex":    "zz",
		"other key":  Sign("sk_test_other", body),
		"truncated":  Sign(testSecret, body)[:64],
		"other body": Sign(testSecret, []byte(`{}`)),
	} {
		if _, err := client.ParseWebhook(body, sig); !errors.Is(err, domainErrors.ErrInvalidSignature) {
			t.Fatalf("%s: expected invalid signature, got %v", name, err)
		}
	}

	junk := []byte(`{"event":`)
	if _, err := client.ParseWebhook(junk, Sign(testSecret, junk)); !domainErrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
