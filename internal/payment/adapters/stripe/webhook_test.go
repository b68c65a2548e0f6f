package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/alpenstay/alpenstay/internal/payment/domain"
)

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"id":"evt_123","type":"payment_intent.succeeded","data":{"object":{}}}`)
	timestamp := time.Now().Unix()

	header := buildSignatureHeader(secret, payload, timestamp)
	reqHeader := http.Header{}
	reqHeader.Set("Stripe-Signature", header)

	webhook := &Webhook{secret: secret}
	if err := webhook.Verify(context.Background(), payload, reqHeader); err != nil {
		t.Fatalf("expected valid signature, got error: %v", err)
	}

	reqHeader.Set("Stripe-Signature", buildSignatureHeader("wrong", payload, timestamp))
	if err := webhook.Verify(context.Background(), payload, reqHeader); err == nil {
		t.Fatalf("expected invalid signature error")
	}
}

func TestParsePaymentEvent(t *testing.T) {
	created := time.Now().UTC().Unix()

	tests := []struct {
		name     string
		event    any
		wantType string
		amount   float64
	}{{
		name: "payment_intent.succeeded",
		event: map[string]any{
			"id":      "evt_pi",
			"type":    "payment_intent.succeeded",
			"created": created,
			"data": map[string]any{
				"object": map[string]any{
					"id":              "pi_1",
					"amount":          22100,
					"amount_received": 22100,
					"currency":        "chf",
					"created":         created,
				},
			},
		},
		wantType: domain.EventTypePaymentSucceeded,
		amount:   221,
	}, {
		name: "payment_intent.payment_failed",
		event: map[string]any{
			"id":      "evt_fail",
			"type":    "payment_intent.payment_failed",
			"created": created,
			"data": map[string]any{
				"object": map[string]any{
					"id":       "pi_2",
					"amount":   5000,
					"currency": "chf",
					"created":  created,
				},
			},
		},
		wantType: domain.EventTypePaymentFailed,
		amount:   50,
	}}

	webhook := &Webhook{secret: "whsec_test"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := json.Marshal(tt.event)
			if err != nil {
				t.Fatalf("marshal payload: %v", err)
			}
			event, err := webhook.Parse(context.Background(), payload)
			if err != nil {
				t.Fatalf("parse event: %v", err)
			}
			if event.Type != tt.wantType {
				t.Fatalf("expected type %s, got %s", tt.wantType, event.Type)
			}
			if event.Amount != tt.amount {
				t.Fatalf("expected amount %v, got %v", tt.amount, event.Amount)
			}
			if event.Currency != "CHF" {
				t.Fatalf("expected currency CHF, got %s", event.Currency)
			}
		})
	}
}

func TestParseIgnoresUnknownEvents(t *testing.T) {
	webhook := &Webhook{secret: "whsec_test"}
	payload := []byte(`{"id":"evt_other","type":"customer.created","data":{"object":{}}}`)
	if _, err := webhook.Parse(context.Background(), payload); !errors.Is(err, domain.ErrEventIgnored) {
		t.Fatalf("expected event_ignored, got %v", err)
	}
}

func buildSignatureHeader(secret string, payload []byte, timestamp int64) string {
	signedPayload := fmt.Sprintf("%d.%s", timestamp, string(payload))
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(signedPayload))
	signature := hex.EncodeToString(mac.Sum(nil))
	return fmt.Sprintf("t=%d,v1=%s", timestamp, signature)
}
