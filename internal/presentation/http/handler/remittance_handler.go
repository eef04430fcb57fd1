package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
)

// RemittanceHandler handles remittances to the conference
type RemittanceHandler struct {
	remittanceService *service.RemittanceService
}

// NewRemittanceHandler creates a new remittance handler
func NewRemittanceHandler(remittanceService *service.RemittanceService) *RemittanceHandler {
	return &RemittanceHandler{remittanceService: remittanceService}
}

func remittanceInput(req *request.RemittanceRequest) (*service.RemittanceInput, error) {
	d, err := date("remittance_date", req.RemittanceDate)
	if err != nil {
		return nil, err
	}
	return &service.RemittanceInput{
		OrganizationName:       req.OrganizationName,
		OrganizationType:       enum.OrganizationType(req.OrganizationType),
		RemittanceDate:         d,
		RemittancePeriod:       enum.RemittancePeriod(req.RemittancePeriod),
		TitheAmount:            req.TitheAmount,
		OfferingToFieldAmount:  req.OfferingToFieldAmount,
		SpecialOfferingsAmount: req.SpecialOfferingsAmount,
		OtherRemittancesAmount: req.OtherRemittancesAmount,
		PaymentMode:            enum.PaymentMode(req.PaymentMode),
		ReferenceNumber:        req.ReferenceNumber,
		ContactPerson:          req.ContactPerson,
		ContactDetails:         req.ContactDetails,
		NotificationEmail:      req.NotificationEmail,
		Notes:                  req.Notes,
	}, nil
}

func (h *RemittanceHandler) bound(c *gin.Context) (*service.RemittanceInput, bool) {
	var req request.RemittanceRequest
	if !bindJSON(c, &req) {
		return nil, false
	}
	input, err := remittanceInput(&req)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return input, true
}

// Preview totals submitted contributions for a remittance period
// @Summary Preview remittance amounts
// @Tags remittances
// @Security BearerAuth
// @Param date query string true "Any date in the period (YYYY-MM-DD)"
// @Param period query string true "Weekly, Monthly, Quarterly or Annual"
// @Success 200 {object} response.APIResponse
// @Router /remittances/preview [get]
func (h *RemittanceHandler) Preview(c *gin.Context) {
	var q request.RemittancePreviewQuery
	if !bindQuery(c, &q) {
		return
	}
	d, err := date("date", q.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	preview, err := h.remittanceService.Preview(c.Request.Context(), d, enum.RemittancePeriod(q.Period))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Remittance preview calculated", preview)
}

// List handles listing remittances
// @Summary List remittances
// @Tags remittances
// @Security BearerAuth
// @Param status query string false "Remittance status"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /remittances [get]
func (h *RemittanceHandler) List(c *gin.Context) {
	params := &repository.RemittanceFilterParams{Pagination: pageParams(c)}

	var err error
	if params.StartDate, err = queryDate(c, "from"); err != nil {
		response.Error(c, err)
		return
	}
	if params.EndDate, err = queryDate(c, "to"); err != nil {
		response.Error(c, err)
		return
	}
	if s := c.Query("status"); s != "" {
		status := enum.RemittanceStatus(s)
		params.Status = &status
	}

	result, err := h.remittanceService.ListRemittances(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Remittances retrieved successfully", result)
}

// Create handles recording a draft remittance with entered amounts
func (h *RemittanceHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	input, ok := h.bound(c)
	if !ok {
		return
	}

	remittance, err := h.remittanceService.CreateRemittance(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Remittance created successfully", remittance)
}

// CreateFromPreview records a draft remittance whose amounts come from the
// period's submitted contributions
// @Summary Create remittance from contributions
// @Tags remittances
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.RemittanceRequest true "Remittance header; amounts are ignored"
// @Success 201 {object} response.APIResponse
// @Router /remittances/from-preview [post]
func (h *RemittanceHandler) CreateFromPreview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	input, ok := h.bound(c)
	if !ok {
		return
	}

	remittance, err := h.remittanceService.CreateFromPreview(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Remittance created successfully", remittance)
}

// Get handles getting a remittance
func (h *RemittanceHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	remittance, err := h.remittanceService.GetRemittance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Remittance retrieved successfully", remittance)
}

// Update handles replacing a draft remittance
func (h *RemittanceHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	input, ok := h.bound(c)
	if !ok {
		return
	}

	remittance, err := h.remittanceService.UpdateRemittance(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Remittance updated successfully", remittance)
}

// Delete handles deleting a draft remittance
func (h *RemittanceHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.remittanceService.DeleteRemittance(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Remittance deleted successfully", nil)
}

// Submit approves a remittance and queues the notification email
func (h *RemittanceHandler) Submit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	remittance, err := h.remittanceService.SubmitRemittance(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Remittance submitted successfully", remittance)
}

// MarkSent records that the transfer went out
func (h *RemittanceHandler) MarkSent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.MarkSentRequest
	if !bindJSON(c, &req) {
		return
	}

	remittance, err := h.remittanceService.MarkSent(c.Request.Context(), id, req.ReferenceNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Remittance marked as sent", remittance)
}

// MarkReceived records the conference's confirmation
func (h *RemittanceHandler) MarkReceived(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	remittance, err := h.remittanceService.MarkReceived(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Remittance marked as received", remittance)
}

// Cancel returns a submitted remittance to draft
func (h *RemittanceHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	remittance, err := h.remittanceService.CancelRemittance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Remittance cancelled successfully", remittance)
}

// Summary compares a remittance with the contributions of its period
func (h *RemittanceHandler) Summary(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	summary, err := h.remittanceService.Summary(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Remittance summary retrieved successfully", summary)
}
