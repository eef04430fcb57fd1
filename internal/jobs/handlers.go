package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	infraRepo "github.com/sangkips/stewardpro-api/internal/infrastructure/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/email"
	"github.com/sangkips/stewardpro-api/pkg/metrics"
)

// SMSDelivery is the part of the SMS service the worker drives
type SMSDelivery interface {
	SendWelcome(ctx context.Context, memberID uuid.UUID) (*entity.SMSLog, error)
	SendReceipt(ctx context.Context, contributionID uuid.UUID) (*entity.SMSLog, error)
	SendBulk(ctx context.Context, input *service.BulkSMSInput) (*service.BulkSMSResult, error)
}

// RemittanceNotifier builds remittance emails
type RemittanceNotifier interface {
	Notification(ctx context.Context, id uuid.UUID) (string, *email.RemittanceNotice, error)
}

// Handlers processes each task type
type Handlers struct {
	sms         SMSDelivery
	remittances RemittanceNotifier
	mailer      email.Sender
}

// NewHandlers creates the task handlers
func NewHandlers(sms SMSDelivery, remittances RemittanceNotifier, mailer email.Sender) *Handlers {
	return &Handlers{sms: sms, remittances: remittances, mailer: mailer}
}

// outcome records the run and decides whether asynq should retry. Business
// refusals such as an exhausted quota are final; gateway and database
// errors are retried.
func outcome(ctx context.Context, job string, err error) error {
	metrics.RecordJobRun(job, err == nil)
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		zerolog.Ctx(ctx).Warn().Err(err).Str("task", job).Msg("task refused")
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	return err
}

func decode(t *asynq.Task, v any) error {
	if err := json.Unmarshal(t.Payload(), v); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}

func churchContext(ctx context.Context, churchID uuid.UUID) context.Context {
	logger := zerolog.Ctx(ctx).With().Str("church_id", churchID.String()).Logger()
	return infraRepo.WithTenant(logger.WithContext(ctx), churchID)
}

// HandleWelcomeSMS sends the welcome message to a new member
func (h *Handlers) HandleWelcomeSMS(ctx context.Context, t *asynq.Task) error {
	var p DocumentPayload
	if err := decode(t, &p); err != nil {
		return err
	}
	ctx = churchContext(ctx, p.ChurchID)

	_, err := h.sms.SendWelcome(ctx, p.ID)
	return outcome(ctx, TaskWelcomeSMS, err)
}

// HandleReceiptSMS sends the receipt message for a contribution
func (h *Handlers) HandleReceiptSMS(ctx context.Context, t *asynq.Task) error {
	var p DocumentPayload
	if err := decode(t, &p); err != nil {
		return err
	}
	ctx = churchContext(ctx, p.ChurchID)

	_, err := h.sms.SendReceipt(ctx, p.ID)
	return outcome(ctx, TaskReceiptSMS, err)
}

// HandleBulkSMS runs a queued bulk send. Per-recipient failures are
// recorded in the SMS log and do not fail the task.
func (h *Handlers) HandleBulkSMS(ctx context.Context, t *asynq.Task) error {
	var p BulkSMSPayload
	if err := decode(t, &p); err != nil {
		return err
	}
	if p.Input == nil {
		return fmt.Errorf("bulk sms task without input: %w", asynq.SkipRetry)
	}
	ctx = churchContext(ctx, p.ChurchID)

	res, err := h.sms.SendBulk(ctx, p.Input)
	if err == nil {
		zerolog.Ctx(ctx).Info().
			Str("type", p.Input.Type).
			Int("total", res.Total).
			Int("successful", res.Successful).
			Int("failed", res.Failed).
			Msg("bulk sms finished")
	}
	return outcome(ctx, TaskBulkSMS, err)
}

// HandleRemittanceEmail emails the receiving organization
func (h *Handlers) HandleRemittanceEmail(ctx context.Context, t *asynq.Task) error {
	var p DocumentPayload
	if err := decode(t, &p); err != nil {
		return err
	}
	ctx = churchContext(ctx, p.ChurchID)

	to, notice, err := h.remittances.Notification(ctx, p.ID)
	if err != nil {
		return outcome(ctx, TaskRemittanceEmail, err)
	}
	if to == "" {
		zerolog.Ctx(ctx).Info().Str("remittance_id", p.ID.String()).Msg("no notification email configured, skipping")
		return nil
	}

	err = h.mailer.SendRemittanceNotification(to, *notice)
	if err == nil {
		zerolog.Ctx(ctx).Info().Str("to", to).Str("remittance", notice.RemittanceNo).Msg("remittance email sent")
	}
	return outcome(ctx, TaskRemittanceEmail, err)
}
