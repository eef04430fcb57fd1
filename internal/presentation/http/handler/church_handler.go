package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/middleware"
)

// ChurchHandler handles church registration and church user access
type ChurchHandler struct {
	churchService *service.ChurchService
}

// NewChurchHandler creates a new church handler
func NewChurchHandler(churchService *service.ChurchService) *ChurchHandler {
	return &ChurchHandler{churchService: churchService}
}

// List returns the churches the caller belongs to
// @Summary List my churches
// @Tags churches
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /churches [get]
func (h *ChurchHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.churchService.GetUserChurches(c.Request.Context(), userID, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Churches retrieved successfully", result)
}

// Create registers a church with the caller as owner
// @Summary Register a church
// @Tags churches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateChurchRequest true "Church"
// @Success 201 {object} response.APIResponse
// @Router /churches [post]
func (h *ChurchHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.CreateChurchRequest
	if !bindJSON(c, &req) {
		return
	}

	church, err := h.churchService.CreateChurch(c.Request.Context(), &service.CreateChurchInput{
		Name:     req.Name,
		Slug:     req.Slug,
		OwnerID:  userID,
		Address:  req.Address,
		Phone:    req.Phone,
		Email:    req.Email,
		Currency: req.Currency,
		Timezone: req.Timezone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Church created successfully", church)
}

// Current returns the church selected for this request
func (h *ChurchHandler) Current(c *gin.Context) {
	church, err := h.churchService.GetChurch(c.Request.Context(), middleware.GetChurchID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Church retrieved successfully", gin.H{
		"church": church,
		"role":   c.GetString("church_role"),
	})
}

// Update edits the current church's profile
func (h *ChurchHandler) Update(c *gin.Context) {
	var req request.UpdateChurchRequest
	if !bindJSON(c, &req) {
		return
	}

	church, err := h.churchService.UpdateChurch(c.Request.Context(), &service.UpdateChurchInput{
		ID:       middleware.GetChurchID(c),
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		Email:    req.Email,
		Currency: req.Currency,
		Timezone: req.Timezone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Church updated successfully", church)
}

// ListUsers lists staff with access to the church
func (h *ChurchHandler) ListUsers(c *gin.Context) {
	members, err := h.churchService.ListUsers(c.Request.Context(), middleware.GetChurchID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	for i := range members {
		members[i].PopulateUserDetails()
	}
	response.OK(c, "Church users retrieved successfully", members)
}

// AddUser grants an existing account access to the church
func (h *ChurchHandler) AddUser(c *gin.Context) {
	var req request.AddChurchUserRequest
	if !bindJSON(c, &req) {
		return
	}

	membership, err := h.churchService.AddUser(c.Request.Context(), &service.AddUserInput{
		ChurchID: middleware.GetChurchID(c),
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "User added to church", membership)
}

// RemoveUser revokes a user's access to the church
func (h *ChurchHandler) RemoveUser(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	if err := h.churchService.RemoveUser(c.Request.Context(), middleware.GetChurchID(c), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User removed from church", nil)
}
