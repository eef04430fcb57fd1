package entity

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIdempotencyKey(t *testing.T) {
	church, user := uuid.New(), uuid.New()
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	body := []byte(`{"phone_number":"255712345678","amount":"5000"}`)

	first := PendingIdempotencyKey(church, user, "k1", "POST /api/v1/mobile-money/payments", body, time.Hour, at)
	assert.Len(t, first.RequestHash, 64)
	assert.Equal(t, at.Add(time.Hour), first.ExpiresAt)
	assert.False(t, first.Replayable(at), "nothing recorded yet")

	first.Record(http.StatusCreated, "application/json", []byte(`{"success":true}`))
	assert.True(t, first.Replayable(at.Add(59*time.Minute)))
	assert.False(t, first.Replayable(at.Add(time.Hour)))

	retry := PendingIdempotencyKey(church, user, "k1", "POST /api/v1/mobile-money/payments", body, time.Hour, at)
	assert.True(t, first.SameRequest(retry))

	otherBody := PendingIdempotencyKey(church, user, "k1", "POST /api/v1/mobile-money/payments", []byte(`{"amount":"1"}`), time.Hour, at)
	assert.False(t, first.SameRequest(otherBody))

	otherRoute := PendingIdempotencyKey(church, user, "k1", "POST /api/v1/contributions", body, time.Hour, at)
	assert.False(t, first.SameRequest(otherRoute))
}
