package request

// CreateChurchRequest registers a new church owned by the caller
type CreateChurchRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Slug     string `json:"slug" binding:"omitempty,max=255"`
	Address  string `json:"address"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
	Email    string `json:"email" binding:"omitempty,email"`
	Currency string `json:"currency" binding:"omitempty,len=3"`
	Timezone string `json:"timezone" binding:"omitempty,timezone"`
}

// UpdateChurchRequest edits the current church
type UpdateChurchRequest struct {
	Name     string  `json:"name" binding:"omitempty,max=255"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone" binding:"omitempty,phone"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Currency string  `json:"currency" binding:"omitempty,len=3"`
	Timezone string  `json:"timezone" binding:"omitempty,timezone"`
}

// AddChurchUserRequest grants an existing user access to the church
type AddChurchUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=admin member"`
}

// UpdateUserRolesRequest replaces a user's platform roles
type UpdateUserRolesRequest struct {
	RoleIDs []uint `json:"role_ids" binding:"required"`
}

type SetUserActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// UpdateRolePermissionsRequest replaces a role's permissions
type UpdateRolePermissionsRequest struct {
	PermissionIDs []uint `json:"permission_ids" binding:"required"`
}
