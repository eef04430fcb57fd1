package jobs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/sangkips/stewardpro-api/internal/application/service"
)

const (
	TaskWelcomeSMS      = "sms:welcome"
	TaskReceiptSMS      = "sms:receipt"
	TaskBulkSMS         = "sms:bulk"
	TaskRemittanceEmail = "email:remittance"

	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"

	maxRetry = 3
)

// DocumentPayload names one church-scoped record
type DocumentPayload struct {
	ChurchID uuid.UUID `json:"church_id"`
	ID       uuid.UUID `json:"id"`
}

// BulkSMSPayload is a queued bulk send
type BulkSMSPayload struct {
	ChurchID uuid.UUID             `json:"church_id"`
	Input    *service.BulkSMSInput `json:"input"`
}

func newTask(typ string, payload any, queue string, timeout time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(
		typ,
		data,
		asynq.MaxRetry(maxRetry),
		asynq.Queue(queue),
		asynq.Timeout(timeout),
	), nil
}

// NewWelcomeSMSTask queues the welcome message for a new member
func NewWelcomeSMSTask(churchID, memberID uuid.UUID) (*asynq.Task, error) {
	return newTask(TaskWelcomeSMS, DocumentPayload{ChurchID: churchID, ID: memberID}, QueueDefault, 30*time.Second)
}

// NewReceiptSMSTask queues the receipt message for a submitted contribution
func NewReceiptSMSTask(churchID, contributionID uuid.UUID) (*asynq.Task, error) {
	return newTask(TaskReceiptSMS, DocumentPayload{ChurchID: churchID, ID: contributionID}, QueueCritical, 30*time.Second)
}

// NewBulkSMSTask queues a bulk send; it runs on the low queue with a long timeout
func NewBulkSMSTask(churchID uuid.UUID, input *service.BulkSMSInput) (*asynq.Task, error) {
	return newTask(TaskBulkSMS, BulkSMSPayload{ChurchID: churchID, Input: input}, QueueLow, 10*time.Minute)
}

// NewRemittanceEmailTask queues the notification for a submitted remittance
func NewRemittanceEmailTask(churchID, remittanceID uuid.UUID) (*asynq.Task, error) {
	return newTask(TaskRemittanceEmail, DocumentPayload{ChurchID: churchID, ID: remittanceID}, QueueDefault, time.Minute)
}
