// Package stripe is the hand-rolled Stripe adapter. It speaks the
// form-encoded REST API directly so the repo carries no processor SDK.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alpenstay/alpenstay/internal/payment/domain"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.stripe.com"

type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(secretKey string, log *zap.Logger) *Client {
	return &Client{
		secretKey:  strings.TrimSpace(secretKey),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.Named("stripe.client"),
	}
}

func (c *Client) CreatePaymentIntent(ctx context.Context, params domain.CreateIntentParams) (*domain.PaymentIntent, error) {
	if c.secretKey == "" {
		return nil, domain.ErrNotConfigured
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(toMinorUnit(params.Amount), 10))
	form.Set("currency", strings.ToLower(currencyOrDefault(params.Currency)))
	form.Set("automatic_payment_methods[enabled]", "true")
	if params.Description != "" {
		form.Set("description", params.Description)
	}
	if params.TransferAccountID != "" {
		form.Set("transfer_data[destination]", params.TransferAccountID)
		form.Set("application_fee_amount", strconv.FormatInt(toMinorUnit(params.ApplicationFee), 10))
	}
	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	headers := http.Header{}
	if params.IdempotencyKey != "" {
		headers.Set("Idempotency-Key", params.IdempotencyKey)
	}

	var intent paymentIntentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/payment_intents", form, headers, &intent); err != nil {
		return nil, err
	}

	return &domain.PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       intent.Status,
	}, nil
}

func (c *Client) ListBalanceTransactionFees(ctx context.Context, accountID string, from, to time.Time) (float64, error) {
	if c.secretKey == "" {
		return 0, domain.ErrNotConfigured
	}

	headers := http.Header{}
	if accountID != "" {
		headers.Set("Stripe-Account", accountID)
	}

	var totalFees int64
	startingAfter := ""
	for {
		query := url.Values{}
		query.Set("limit", "100")
		query.Set("created[gte]", strconv.FormatInt(from.Unix(), 10))
		query.Set("created[lte]", strconv.FormatInt(to.Unix(), 10))
		if startingAfter != "" {
			query.Set("starting_after", startingAfter)
		}

		var page balanceTransactionList
		path := "/v1/balance_transactions?" + query.Encode()
		if err := c.do(ctx, http.MethodGet, path, nil, headers, &page); err != nil {
			return 0, err
		}

		for _, txn := range page.Data {
			totalFees += txn.Fee
		}
		if !page.HasMore || len(page.Data) == 0 {
			break
		}
		startingAfter = page.Data[len(page.Data)-1].ID
	}

	return float64(totalFees) / 100, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, headers http.Header, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("stripe request failed", zap.String("path", path), zap.Error(err))
		return domain.ErrProcessorUnavailable
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.ErrProcessorUnavailable
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if err := json.Unmarshal(payload, &apiErr); err == nil && apiErr.Error.Message != "" {
			c.log.Warn("stripe api error",
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.String("type", apiErr.Error.Type),
				zap.String("message", apiErr.Error.Message),
			)
			return fmt.Errorf("stripe: %s: %s", apiErr.Error.Type, apiErr.Error.Message)
		}
		return fmt.Errorf("stripe: unexpected status %d", resp.StatusCode)
	}

	return json.Unmarshal(payload, out)
}

// toMinorUnit converts a CHF amount to rappen.
func toMinorUnit(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func currencyOrDefault(currency string) string {
	if strings.TrimSpace(currency) == "" {
		return "chf"
	}
	return currency
}

type paymentIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

type balanceTransactionList struct {
	Data    []balanceTransaction `json:"data"`
	HasMore bool                 `json:"has_more"`
}

type balanceTransaction struct {
	ID  string `json:"id"`
	Fee int64  `json:"fee"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
