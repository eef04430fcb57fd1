// Package mobilemoney requests payments through a mobile-money gateway.
package mobilemoney

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/sangkips/stewardpro-api/pkg/sms"
)

// DefaultTimeout bounds every gateway call.
const DefaultTimeout = 30 * time.Second

// Credentials identify the church's mobile-money account.
type Credentials struct {
	APIKey    string
	PublicKey string
	BaseURL   string
}

// Complete reports whether every credential needed for a request is present.
func (c Credentials) Complete() bool {
	return c.APIKey != "" && c.PublicKey != "" && c.BaseURL != ""
}

// Result is the outcome of a payment request.
type Result struct {
	Success       bool            `json:"success"`
	Error         string          `json:"error,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
}

// PaymentRequest asks a phone holder to pay an amount.
type PaymentRequest struct {
	PhoneNumber string
	Amount      decimal.Decimal
	Description string
}

type payload struct {
	APIKey      string `json:"api_key"`
	PublicKey   string `json:"public_key"`
	PhoneNumber string `json:"phone_number"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// Client posts payment requests to the gateway.
type Client struct {
	http *http.Client
}

// NewClient returns a client with the given timeout, DefaultTimeout when zero.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// RequestPayment sends a push-payment prompt to the payer's phone.
func (c *Client) RequestPayment(ctx context.Context, creds Credentials, pr PaymentRequest) Result {
	if !creds.Complete() {
		return Result{Error: "mobile money configuration is incomplete"}
	}
	if !pr.Amount.IsPositive() {
		return Result{Error: "amount must be greater than zero"}
	}

	body, err := json.Marshal(payload{
		APIKey:      creds.APIKey,
		PublicKey:   creds.PublicKey,
		PhoneNumber: sms.NormalizePhone(pr.PhoneNumber),
		Amount:      pr.Amount.StringFixed(2),
		Description: pr.Description,
	})
	if err != nil {
		return Result{Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.BaseURL, bytes.NewReader(body))
	if err != nil {
		return Result{Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{Error: err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return Result{Error: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(raw))}
	}

	res := Result{Success: true}
	if gjson.ValidBytes(raw) {
		res.Data = json.RawMessage(raw)
		doc := gjson.ParseBytes(raw)
		if v := doc.Get("success"); v.Exists() && v.Type == gjson.False {
			res.Success = false
			res.Error = doc.Get("error").String()
			if res.Error == "" {
				res.Error = "payment request rejected"
			}
		}
		for _, p := range []string{"transaction_id", "data.transaction_id", "reference"} {
			if v := doc.Get(p); v.Exists() {
				res.TransactionID = v.String()
				break
			}
		}
	}
	return res
}
