package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
)

// MemberHandler handles member-related HTTP requests
type MemberHandler struct {
	memberService *service.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

func memberInput(req *request.MemberRequest) (*service.MemberInput, error) {
	dob, err := optionalDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	baptism, err := optionalDate("baptism_date", req.BaptismDate)
	if err != nil {
		return nil, err
	}
	joined, err := optionalDate("join_date", req.JoinDate)
	if err != nil {
		return nil, err
	}

	return &service.MemberInput{
		MemberID:    req.MemberID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Gender:      enum.Gender(req.Gender),
		Email:       req.Email,
		Contact:     req.Contact,
		DateOfBirth: dob,
		BaptismDate: baptism,
		JoinDate:    joined,
		Status:      enum.MemberStatus(req.Status),
		ChurchRole:  enum.ChurchRole(req.ChurchRole),
		Address:     req.Address,
		Notes:       req.Notes,
	}, nil
}

// List handles listing members
// @Summary List members
// @Tags members
// @Security BearerAuth
// @Produce json
// @Param search query string false "Name, member ID, email or contact"
// @Param status query string false "Member status"
// @Param church_role query string false "Church role"
// @Success 200 {object} response.APIResponse
// @Router /members [get]
func (h *MemberHandler) List(c *gin.Context) {
	params := &repository.MemberFilterParams{
		Pagination: pageParams(c),
		Search:     c.Query("search"),
	}
	if s := c.Query("status"); s != "" {
		status := enum.MemberStatus(s)
		params.Status = &status
	}
	if r := c.Query("church_role"); r != "" {
		role := enum.ChurchRole(r)
		params.ChurchRole = &role
	}

	result, err := h.memberService.ListMembers(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Members retrieved successfully", result)
}

// Create handles registering a member
// @Summary Create member
// @Tags members
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.MemberRequest true "Member"
// @Success 201 {object} response.APIResponse
// @Router /members [post]
func (h *MemberHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.MemberRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := memberInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	member, err := h.memberService.CreateMember(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Member created successfully", member)
}

// Get handles getting a single member
func (h *MemberHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	member, err := h.memberService.GetMember(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member retrieved successfully", member)
}

// Update handles replacing a member's details
func (h *MemberHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.MemberRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := memberInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	member, err := h.memberService.UpdateMember(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member updated successfully", member)
}

// Delete handles removing a member
func (h *MemberHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.memberService.DeleteMember(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member deleted successfully", nil)
}
