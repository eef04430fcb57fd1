package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey remembers the first successful response to a create or
// submit call so a retry with the same Idempotency-Key header in the same
// church replays it instead of recording money twice.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_idem_tenant_key"`
	Key          string    `gorm:"size:255;not null;uniqueIndex:idx_idem_tenant_key"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Endpoint     string    `gorm:"size:255;not null"`
	RequestHash  string    `gorm:"size:64"`
	ResponseCode int       `gorm:"not null"`
	ContentType  string    `gorm:"size:100"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// PendingIdempotencyKey describes an incoming request before its response
// is known
func PendingIdempotencyKey(churchID, userID uuid.UUID, key, endpoint string, body []byte, ttl time.Duration, now time.Time) *IdempotencyKey {
	sum := sha256.Sum256(body)
	return &IdempotencyKey{
		TenantID:    churchID,
		Key:         key,
		UserID:      userID,
		Endpoint:    endpoint,
		RequestHash: hex.EncodeToString(sum[:]),
		ExpiresAt:   now.Add(ttl),
	}
}

// SameRequest reports whether other was made against the same endpoint
// with the same body. A key reused for anything else is a client bug.
func (k *IdempotencyKey) SameRequest(other *IdempotencyKey) bool {
	return k.Endpoint == other.Endpoint && k.RequestHash == other.RequestHash
}

// Record attaches the response to replay
func (k *IdempotencyKey) Record(status int, contentType string, body []byte) {
	k.ResponseCode = status
	k.ContentType = contentType
	k.ResponseBody = string(body)
}

// Replayable reports whether the stored response should still be served
func (k *IdempotencyKey) Replayable(now time.Time) bool {
	return now.Before(k.ExpiresAt) && k.ResponseCode >= 200 && k.ResponseCode < 300
}
