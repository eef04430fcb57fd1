package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0712345678", "255712345678"},
		{"+255712345678", "255712345678"},
		{"255712345678", "255712345678"},
		{"712345678", "255712345678"},
		{" 0712 345-678 ", "255712345678"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.in))
		})
	}
}

func testCreds(url string) Credentials {
	return Credentials{APIKey: "key", APISecret: "secret", SenderID: "CHURCH", BaseURL: url}
}

func TestClientSendPostsPayload(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success": true, "request_id": "req-42"}`))
	}))
	defer srv.Close()

	res := NewClient(time.Second).Send(context.Background(), testCreds(srv.URL), "hello", "0712345678")

	assert.True(t, res.Success)
	assert.Equal(t, "req-42", res.Reference)
	assert.Equal(t, []string{"255712345678"}, got.Recipients)
	assert.Equal(t, "key", got.APIKey)
	assert.Equal(t, "secret", got.APISecret)
	assert.Equal(t, "CHURCH", got.SenderID)
	assert.Equal(t, "hello", got.Message)
}

func TestClientSendHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad key"))
	}))
	defer srv.Close()

	res := NewClient(time.Second).Send(context.Background(), testCreds(srv.URL), "hello", "0712345678")

	assert.False(t, res.Success)
	assert.Equal(t, "HTTP 401: bad key", res.Error)
}

func TestClientSendGatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message": {"success": false, "error": "insufficient balance"}}`))
	}))
	defer srv.Close()

	res := NewClient(time.Second).Send(context.Background(), testCreds(srv.URL), "hello", "0712345678")

	assert.False(t, res.Success)
	assert.Equal(t, "insufficient balance", res.Error)
}

func TestClientSendTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	res := NewClient(20*time.Millisecond).Send(context.Background(), testCreds(srv.URL), "hello", "0712345678")

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestClientSendRequiresCredentials(t *testing.T) {
	res := NewClient(time.Second).Send(context.Background(), Credentials{APIKey: "only"}, "hello", "0712345678")

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "not configured")
}

func TestReceiptMessage(t *testing.T) {
	date := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	msg := ReceiptMessage("Jane Doe", "RCP-2024-03-09-0001", date, "15,000.00")
	assert.Equal(t, "Thank you Jane Doe! Receipt #RCP-2024-03-09-0001 09/03/2024 Total: 15,000.00. God bless! - Church", msg)

	long := strings.Repeat("Mwakalinga ", 12)
	msg = ReceiptMessage(long, "RCP-2024-03-09-0001", date, "15,000.00")
	assert.LessOrEqual(t, utf8.RuneCountInString(msg), MaxLength)
	assert.Contains(t, msg, "...")
	assert.Contains(t, msg, "RCP-2024-03-09-0001")
}

func TestWelcomeMessageFitsOneSegment(t *testing.T) {
	assert.Contains(t, WelcomeMessage("Amani"), "Welcome Amani!")

	msg := WelcomeMessage(strings.Repeat("N", 200))
	assert.LessOrEqual(t, utf8.RuneCountInString(msg), MaxLength)
	assert.True(t, strings.HasSuffix(msg, "God bless! - Church"))
}

func TestMessagesKeepPercentSigns(t *testing.T) {
	long := strings.Repeat("N", 200)
	date := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		msg    string
		suffix string
	}{
		{
			name:   "weekly church name",
			msg:    WeeklyMessage(long, "100% Faith SDA Church", "1,000.00"),
			suffix: "Happy Sabbath! - 100% Faith SDA Church",
		},
		{
			name:   "receipt total",
			msg:    ReceiptMessage(long, "RCP-2024-03-09-0001", date, "50%off"),
			suffix: "Receipt #RCP-2024-03-09-0001 Total: 50%off. God bless!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotContains(t, tt.msg, "%!")
			assert.True(t, strings.HasSuffix(tt.msg, tt.suffix), tt.msg)
			assert.Equal(t, MaxLength, utf8.RuneCountInString(tt.msg))
			assert.Contains(t, tt.msg, "N...")
		})
	}

	assert.Equal(t,
		"Dear Ruth, thank you for your faithfulness. 100% Faith received 1,000.00 in tithes and offerings this week. Happy Sabbath!",
		WeeklyMessage("Ruth", "100% Faith", "1,000.00"))
}
