package mobilemoney

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestPayment(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success": true, "data": {"transaction_id": "TX-9"}}`))
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	res := c.RequestPayment(context.Background(),
		Credentials{APIKey: "k", PublicKey: "p", BaseURL: srv.URL},
		PaymentRequest{PhoneNumber: "0786540517", Amount: decimal.RequireFromString("1000"), Description: "Tithe"},
	)

	assert.True(t, res.Success)
	assert.Equal(t, "TX-9", res.TransactionID)
	assert.Equal(t, "255786540517", got.PhoneNumber)
	assert.Equal(t, "1000.00", got.Amount)
	assert.Equal(t, "Tithe", got.Description)
}

func TestRequestPaymentFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	creds := Credentials{APIKey: "k", PublicKey: "p", BaseURL: srv.URL}

	tests := []struct {
		name  string
		creds Credentials
		amt   string
		want  string
	}{
		{"incomplete config", Credentials{APIKey: "k"}, "10", "incomplete"},
		{"zero amount", creds, "0", "greater than zero"},
		{"gateway error", creds, "10", "HTTP 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.RequestPayment(context.Background(), tt.creds, PaymentRequest{
				PhoneNumber: "0786540517",
				Amount:      decimal.RequireFromString(tt.amt),
			})
			assert.False(t, res.Success)
			assert.Contains(t, res.Error, tt.want)
		})
	}
}
