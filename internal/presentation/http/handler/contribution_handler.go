package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
)

// ContributionHandler handles tithes and offerings records
type ContributionHandler struct {
	contributionService *service.ContributionService
	printerService      *service.PrinterService
}

// NewContributionHandler creates a new contribution handler
func NewContributionHandler(contributionService *service.ContributionService, printerService *service.PrinterService) *ContributionHandler {
	return &ContributionHandler{
		contributionService: contributionService,
		printerService:      printerService,
	}
}

func contributionInput(req *request.ContributionRequest) (*service.ContributionInput, error) {
	d, err := date("date", req.Date)
	if err != nil {
		return nil, err
	}

	memberID, err := optionalUUID("member_id", req.MemberID)
	if err != nil {
		return nil, err
	}

	return &service.ContributionInput{
		Date:                   d,
		MemberID:               memberID,
		TitheAmount:            req.TitheAmount,
		OfferingAmount:         req.OfferingAmount,
		CampmeetingOffering:    req.CampmeetingOffering,
		ChurchBuildingOffering: req.ChurchBuildingOffering,
		PaymentMode:            enum.PaymentMode(req.PaymentMode),
		ReceiptNumber:          req.ReceiptNumber,
		Notes:                  req.Notes,
	}, nil
}

// List handles listing tithes and offerings
// @Summary List tithes and offerings
// @Tags contributions
// @Security BearerAuth
// @Produce json
// @Param member_id query string false "Member"
// @Param payment_mode query string false "Payment mode"
// @Param doc_status query string false "Draft, Submitted or Cancelled"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /contributions [get]
func (h *ContributionHandler) List(c *gin.Context) {
	params := &repository.ContributionFilterParams{Pagination: pageParams(c)}

	var err error
	if params.MemberID, err = queryUUID(c, "member_id"); err != nil {
		response.Error(c, err)
		return
	}
	if params.StartDate, err = queryDate(c, "from"); err != nil {
		response.Error(c, err)
		return
	}
	if params.EndDate, err = queryDate(c, "to"); err != nil {
		response.Error(c, err)
		return
	}
	if m := c.Query("payment_mode"); m != "" {
		mode := enum.PaymentMode(m)
		params.PaymentMode = &mode
	}
	if s := c.Query("doc_status"); s != "" {
		var status enum.DocStatus
		if err := status.UnmarshalJSON([]byte(`"` + s + `"`)); err != nil {
			response.BadRequest(c, "Invalid doc_status")
			return
		}
		params.DocStatus = &status
	}

	result, err := h.contributionService.ListContributions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Tithes and offerings retrieved successfully", result)
}

// Create handles recording a draft contribution
// @Summary Record tithes and offerings
// @Tags contributions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.ContributionRequest true "Contribution"
// @Success 201 {object} response.APIResponse
// @Router /contributions [post]
func (h *ContributionHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.ContributionRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := contributionInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	contribution, err := h.contributionService.CreateContribution(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Tithes and offerings recorded successfully", contribution)
}

// Get handles getting a single contribution
func (h *ContributionHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	contribution, err := h.contributionService.GetContribution(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tithes and offerings retrieved successfully", contribution)
}

// Update handles editing a draft contribution
func (h *ContributionHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.ContributionRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := contributionInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	contribution, err := h.contributionService.UpdateContribution(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tithes and offerings updated successfully", contribution)
}

// Delete handles deleting a draft contribution
func (h *ContributionHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.contributionService.DeleteContribution(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tithes and offerings deleted successfully", nil)
}

// Submit assigns the receipt number and queues the receipt SMS
// @Summary Submit tithes and offerings
// @Tags contributions
// @Security BearerAuth
// @Param id path string true "Contribution ID"
// @Success 200 {object} response.APIResponse
// @Router /contributions/{id}/submit [post]
func (h *ContributionHandler) Submit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	contribution, err := h.contributionService.SubmitContribution(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tithes and offerings submitted successfully", contribution)
}

// Cancel handles cancelling a submitted contribution
func (h *ContributionHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	contribution, err := h.contributionService.CancelContribution(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tithes and offerings cancelled successfully", contribution)
}

// PrintReceipt prints the receipt on the church's thermal printer. The
// receipt is returned even when the printer is unavailable.
func (h *ContributionHandler) PrintReceipt(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.printerService.PrintContributionReceipt(c.Request.Context(), id)
	if err != nil {
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{"receipt": receipt})
}
