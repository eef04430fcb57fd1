package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles church settings and the subscription
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings retrieves the church settings, creating a trial record on
// first access. Gateway credentials are never returned.
// @Summary Get settings
// @Tags settings
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettings updates church settings
// @Summary Update settings
// @Tags settings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.UpdateSettingsRequest true "Fields to change"
// @Success 200 {object} response.APIResponse
// @Router /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		ChurchName:           req.ChurchName,
		AdminContactName:     req.AdminContactName,
		AdminContactEmail:    req.AdminContactEmail,
		AdminContactPhone:    req.AdminContactPhone,
		BillingContactEmail:  req.BillingContactEmail,
		NotificationEmail:    req.NotificationEmail,
		Features:             req.Features,
		SMSAPIKey:            req.SMSAPIKey,
		SMSAPISecret:         req.SMSAPISecret,
		SMSSenderID:          req.SMSSenderID,
		SMSBaseURL:           req.SMSBaseURL,
		MobileMoneyAPIKey:    req.MobileMoneyAPIKey,
		MobileMoneyPublicKey: req.MobileMoneyPublicKey,
		MobileMoneyBaseURL:   req.MobileMoneyBaseURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}

// ChangePackage moves the church to another subscription package
// @Summary Change subscription package
// @Tags settings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.ChangePackageRequest true "Package and paid months"
// @Success 200 {object} response.APIResponse
// @Router /settings/package [put]
func (h *SettingsHandler) ChangePackage(c *gin.Context) {
	var req request.ChangePackageRequest
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.settingsService.ChangePackage(c.Request.Context(), &service.ChangePackageInput{
		Package: enum.SubscriptionPackage(req.Package),
		Months:  req.Months,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Subscription package changed", settings)
}

// Subscription reports the subscription state, expiring it if it lapsed
func (h *SettingsHandler) Subscription(c *gin.Context) {
	status, err := h.settingsService.CheckSubscription(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Subscription status retrieved successfully", status)
}

// SMSBalance reports this month's SMS quota usage
func (h *SettingsHandler) SMSBalance(c *gin.Context) {
	balance, err := h.settingsService.GetSMSBalance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "SMS balance retrieved successfully", balance)
}
