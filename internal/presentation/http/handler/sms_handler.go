package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
)

// SMSHandler handles bulk messaging and the SMS log
type SMSHandler struct {
	smsService *service.SMSService
}

// NewSMSHandler creates a new SMS handler
func NewSMSHandler(smsService *service.SMSService) *SMSHandler {
	return &SMSHandler{smsService: smsService}
}

func uuidList(field string, raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := parseUUID(field, s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (h *SMSHandler) bound(c *gin.Context) (*service.BulkSMSInput, bool) {
	var req request.BulkSMSRequest
	if !bindJSON(c, &req) {
		return nil, false
	}

	memberIDs, err := uuidList("member_ids", req.MemberIDs)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	contributionIDs, err := uuidList("contribution_ids", req.ContributionIDs)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}

	return &service.BulkSMSInput{
		Type:            req.Type,
		Message:         req.Message,
		MemberIDs:       memberIDs,
		ContributionIDs: contributionIDs,
	}, true
}

// QueueBulk hands a bulk send to the worker after checking the quota
// @Summary Queue bulk SMS
// @Tags sms
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.BulkSMSRequest true "Message and recipients"
// @Success 202 {object} response.APIResponse
// @Failure 402 {object} response.APIResponse
// @Router /sms/bulk [post]
func (h *SMSHandler) QueueBulk(c *gin.Context) {
	input, ok := h.bound(c)
	if !ok {
		return
	}

	if err := h.smsService.QueueBulk(c.Request.Context(), input); err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, "Bulk SMS queued", nil)
}

// SendBulk sends in the request and reports per-recipient results
// @Summary Send bulk SMS now
// @Tags sms
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.BulkSMSRequest true "Message and recipients"
// @Success 200 {object} response.APIResponse
// @Router /sms/bulk/send [post]
func (h *SMSHandler) SendBulk(c *gin.Context) {
	input, ok := h.bound(c)
	if !ok {
		return
	}

	result, err := h.smsService.SendBulk(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bulk SMS processed", result)
}

// Logs pages through the SMS log newest first
// @Summary List SMS log
// @Tags sms
// @Security BearerAuth
// @Param cursor query string false "Cursor from the previous page"
// @Param limit query int false "Page size"
// @Param sms_type query string false "Message kind"
// @Param phone query string false "Recipient phone"
// @Success 200 {object} response.APIResponse
// @Router /sms/logs [get]
func (h *SMSHandler) Logs(c *gin.Context) {
	var cursor pagination.CursorParams
	if !bindQuery(c, &cursor) {
		return
	}

	params := &repository.SMSLogFilterParams{Cursor: &cursor, Phone: c.Query("phone")}
	if t := c.Query("sms_type"); t != "" {
		smsType := enum.SMSType(t)
		params.SMSType = &smsType
	}

	result, err := h.smsService.ListLogs(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Cursor(c, "SMS logs retrieved successfully", result)
}
