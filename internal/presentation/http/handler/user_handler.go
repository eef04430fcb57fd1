package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
)

// UserHandler handles platform user and role administration
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func adminUserPayload(u entity.User) gin.H {
	payload := userPayload(&u)
	payload["is_active"] = u.IsActive
	payload["last_login_at"] = u.LastLoginAt
	payload["created_at"] = u.CreatedAt
	payload["updated_at"] = u.UpdatedAt
	return payload
}

// List handles listing users with pagination
// @Summary List Users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(15)
// @Param search query string false "Search query"
// @Param active query bool false "Only active or only disabled accounts"
// @Success 200 {object} response.APIResponse
// @Router /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	input := &service.UserListInput{Pagination: pageParams(c), Search: c.Query("search")}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, apperror.NewFieldError("active", "must be true or false"))
			return
		}
		input.Active = &active
	}

	result, err := h.userService.ListUsers(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]gin.H, len(result.Items))
	for i, user := range result.Items {
		items[i] = adminUserPayload(user)
	}
	response.Paginated(c, "Users retrieved successfully",
		pagination.NewPaginatedResult(items, result.Pagination))
}

// Get handles getting a single user by ID
// @Summary Get User
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse
// @Router /admin/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User retrieved successfully", adminUserPayload(*user))
}

// UpdateRoles replaces a user's platform roles
// @Summary Update User Roles
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body request.UpdateUserRolesRequest true "Role IDs"
// @Success 200 {object} response.APIResponse
// @Router /admin/users/{id}/roles [put]
func (h *UserHandler) UpdateRoles(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateUserRolesRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateUserRoles(c.Request.Context(), id, req.RoleIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User roles updated successfully", adminUserPayload(*user))
}

// SetActive enables or disables a user's sign-in
// @Summary Enable or disable a user
// @Tags users
// @Security BearerAuth
// @Accept json
// @Param id path string true "User ID"
// @Param request body request.SetUserActiveRequest true "Access flag"
// @Success 200 {object} response.APIResponse
// @Router /admin/users/{id}/active [put]
func (h *UserHandler) SetActive(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.SetUserActiveRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.SetUserActive(c.Request.Context(), actorID, id, *req.Active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "User access updated", adminUserPayload(*user))
}

// Delete handles soft-deleting a user
// @Summary Delete User
// @Tags users
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse
// @Router /admin/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if self := GetUserID(c); self != nil && *self == id {
		response.BadRequest(c, "You cannot delete your own account")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User deleted successfully", nil)
}

// ListRoles returns every role with its permissions
// @Summary List Roles
// @Tags roles
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /admin/roles [get]
func (h *UserHandler) ListRoles(c *gin.Context) {
	roles, err := h.userService.ListRoles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Roles retrieved successfully", roles)
}

// UpdateRolePermissions replaces a role's permission set
// @Summary Update Role Permissions
// @Tags roles
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param request body request.UpdateRolePermissionsRequest true "Permission IDs"
// @Success 200 {object} response.APIResponse
// @Router /admin/roles/{id}/permissions [put]
func (h *UserHandler) UpdateRolePermissions(c *gin.Context) {
	roleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Invalid role ID")
		return
	}

	var req request.UpdateRolePermissionsRequest
	if !bindJSON(c, &req) {
		return
	}

	role, err := h.userService.UpdateRolePermissions(c.Request.Context(), uint(roleID), req.PermissionIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Role permissions updated successfully", role)
}

// ListPermissions returns the permission catalogue
// @Summary List Permissions
// @Tags permissions
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /admin/permissions [get]
func (h *UserHandler) ListPermissions(c *gin.Context) {
	permissions, err := h.userService.ListPermissions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Permissions retrieved successfully", permissions)
}
