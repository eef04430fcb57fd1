// Package sms sends text messages through a JSON HTTP gateway
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultTimeout bounds every gateway call
const DefaultTimeout = 30 * time.Second

// Credentials identify the church's gateway account
type Credentials struct {
	APIKey    string
	APISecret string
	SenderID  string
	BaseURL   string
}

// Complete reports whether every credential needed for a send is present
func (c Credentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.SenderID != "" && c.BaseURL != ""
}

// Result is the outcome of one gateway call; failures are reported here,
// never as a Go error, so callers can log and carry on
type Result struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Reference string `json:"reference,omitempty"`
	Response  string `json:"response,omitempty"`
}

type payload struct {
	APIKey     string   `json:"api_key"`
	APISecret  string   `json:"api_secret"`
	SenderID   string   `json:"sender_id"`
	Message    string   `json:"message"`
	Recipients []string `json:"recipients"`
}

// Client posts messages to the gateway
type Client struct {
	http *http.Client
}

// NewClient returns a client with the given timeout, DefaultTimeout when zero
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Send delivers message to the recipients after normalising their numbers
func (c *Client) Send(ctx context.Context, creds Credentials, message string, recipients ...string) Result {
	if !creds.Complete() {
		return Result{Error: "SMS gateway is not configured"}
	}
	if len(recipients) == 0 {
		return Result{Error: "no recipients"}
	}

	clean := make([]string, 0, len(recipients))
	for _, r := range recipients {
		clean = append(clean, NormalizePhone(r))
	}

	body, err := json.Marshal(payload{
		APIKey:     creds.APIKey,
		APISecret:  creds.APISecret,
		SenderID:   creds.SenderID,
		Message:    message,
		Recipients: clean,
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
		return Result{Error: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(raw)), Response: string(raw)}
	}

	return parseResponse(raw)
}

// parseResponse accepts any JSON body; an explicit "success": false from
// the gateway is a failure even on HTTP 200
func parseResponse(raw []byte) Result {
	res := Result{Success: true, Response: string(raw)}
	if !gjson.ValidBytes(raw) {
		return res
	}

	doc := gjson.ParseBytes(raw)
	for _, path := range []string{"success", "message.success"} {
		if v := doc.Get(path); v.Exists() && v.Type == gjson.False {
			res.Success = false
			res.Error = firstString(doc, "error", "message.error", "message")
			if res.Error == "" {
				res.Error = "gateway rejected the message"
			}
			return res
		}
	}

	res.Reference = firstString(doc, "request_id", "message.request_id", "data.request_id", "message_id")
	return res
}

func firstString(doc gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := doc.Get(p); v.Exists() && v.Type == gjson.String {
			return v.String()
		}
	}
	return ""
}
