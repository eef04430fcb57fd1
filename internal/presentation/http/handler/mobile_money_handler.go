package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
)

// MobileMoneyHandler handles push-payment requests
type MobileMoneyHandler struct {
	mobileMoneyService *service.MobileMoneyService
}

// NewMobileMoneyHandler creates a new mobile money handler
func NewMobileMoneyHandler(mobileMoneyService *service.MobileMoneyService) *MobileMoneyHandler {
	return &MobileMoneyHandler{mobileMoneyService: mobileMoneyService}
}

// RequestPayment prompts a phone to pay. A gateway refusal still returns
// the recorded payment, with its failed status.
// @Summary Request mobile money payment
// @Tags mobile-money
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string true "Client request key"
// @Param request body request.PaymentRequest true "Payment"
// @Success 201 {object} response.APIResponse
// @Router /mobile-money/payments [post]
func (h *MobileMoneyHandler) RequestPayment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	memberID, err := optionalUUID("member_id", req.MemberID)
	if err != nil {
		response.Error(c, err)
		return
	}

	payment, err := h.mobileMoneyService.RequestPayment(c.Request.Context(), userID, &service.PaymentInput{
		MemberID:    memberID,
		PhoneNumber: req.PhoneNumber,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment requested", payment)
}

// List handles listing payment requests
func (h *MobileMoneyHandler) List(c *gin.Context) {
	result, err := h.mobileMoneyService.ListPayments(c.Request.Context(), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Payments retrieved successfully", result)
}
