package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	infraRepo "github.com/sangkips/stewardpro-api/internal/infrastructure/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"github.com/sangkips/stewardpro-api/pkg/utils"
)

// ChurchService handles church (tenant) operations
type ChurchService struct {
	churchRepo   repository.ChurchRepository
	userRepo     repository.UserRepository
	settingsRepo repository.SettingsRepository
}

// NewChurchService creates a new church service
func NewChurchService(
	churchRepo repository.ChurchRepository,
	userRepo repository.UserRepository,
	settingsRepo repository.SettingsRepository,
) *ChurchService {
	return &ChurchService{
		churchRepo:   churchRepo,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
	}
}

// CreateChurchInput represents input for creating a church
type CreateChurchInput struct {
	Name     string
	Slug     string
	OwnerID  uuid.UUID
	Address  string
	Phone    string
	Email    string
	Currency string
	Timezone string
}

// CreateChurch creates a church, makes the creator its owner and starts
// a Starter trial.
func (s *ChurchService) CreateChurch(ctx context.Context, input *CreateChurchInput) (*entity.Church, error) {
	slug := input.Slug
	if slug == "" {
		slug = utils.Slugify(input.Name)
	}
	if slug == "" {
		return nil, apperror.NewFieldError("slug", "Slug is required")
	}

	exists, err := s.churchRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflictError("Church slug already exists")
	}

	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, apperror.NewFieldError("email", "Invalid email address")
	}

	church := &entity.Church{
		Name:     strings.TrimSpace(input.Name),
		Slug:     slug,
		OwnerID:  input.OwnerID,
		Address:  input.Address,
		Phone:    input.Phone,
		Email:    input.Email,
		Currency: input.Currency,
		Timezone: input.Timezone,
	}
	if church.Currency == "" {
		church.Currency = "TZS"
	}

	if err := s.churchRepo.Create(ctx, church); err != nil {
		return nil, err
	}

	membership := &entity.ChurchMembership{
		ChurchID: church.ID,
		UserID:   input.OwnerID,
		Role:     entity.ChurchUserOwner,
	}
	if err := s.churchRepo.AddMember(ctx, membership); err != nil {
		return nil, fmt.Errorf("add church owner: %w", err)
	}

	churchCtx := infraRepo.WithTenant(ctx, church.ID)
	settings := entity.DefaultSettings(church.Name, today())
	settings.TenantID = church.ID
	settings.AdminContactEmail = input.Email
	if err := s.settingsRepo.Create(churchCtx, settings); err != nil {
		return nil, fmt.Errorf("create church settings: %w", err)
	}

	return church, nil
}

// GetChurch retrieves a church by ID
func (s *ChurchService) GetChurch(ctx context.Context, id uuid.UUID) (*entity.Church, error) {
	church, err := s.churchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if church == nil {
		return nil, apperror.NewNotFoundError("Church")
	}
	return church, nil
}

// GetUserChurches lists the churches a user can access
func (s *ChurchService) GetUserChurches(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Church], error) {
	params.Validate()
	churches, total, err := s.churchRepo.GetUserChurches(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(churches, pag), nil
}

// UpdateChurchInput represents input for updating a church
type UpdateChurchInput struct {
	ID       uuid.UUID
	Name     string
	Address  *string
	Phone    *string
	Email    *string
	Currency string
	Timezone string
}

// UpdateChurch updates a church's profile
func (s *ChurchService) UpdateChurch(ctx context.Context, input *UpdateChurchInput) (*entity.Church, error) {
	church, err := s.GetChurch(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		church.Name = strings.TrimSpace(input.Name)
	}
	if input.Address != nil {
		church.Address = *input.Address
	}
	if input.Phone != nil {
		church.Phone = *input.Phone
	}
	if input.Email != nil {
		if *input.Email != "" && !utils.IsValidEmail(*input.Email) {
			return nil, apperror.NewFieldError("email", "Invalid email address")
		}
		church.Email = *input.Email
	}
	if input.Currency != "" {
		church.Currency = input.Currency
	}
	if input.Timezone != "" {
		church.Timezone = input.Timezone
	}

	if err := s.churchRepo.Update(ctx, church); err != nil {
		return nil, err
	}
	return church, nil
}

// AddUserInput grants an existing account access to a church
type AddUserInput struct {
	ChurchID uuid.UUID
	Email    string
	Role     string
}

// AddUser adds a user to a church by email
func (s *ChurchService) AddUser(ctx context.Context, input *AddUserInput) (*entity.ChurchMembership, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	isMember, err := s.churchRepo.IsMember(ctx, input.ChurchID, user.ID)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, apperror.NewConflictError("User already belongs to this church")
	}

	role := input.Role
	switch role {
	case "":
		role = entity.ChurchUserMember
	case entity.ChurchUserAdmin, entity.ChurchUserMember:
	default:
		return nil, apperror.NewFieldError("role", "Role must be admin or member")
	}

	membership := &entity.ChurchMembership{
		ChurchID: input.ChurchID,
		UserID:   user.ID,
		Role:     role,
	}
	if err := s.churchRepo.AddMember(ctx, membership); err != nil {
		return nil, err
	}
	membership.User = *user
	membership.PopulateUserDetails()
	return membership, nil
}

// RemoveUser revokes a user's access. The owner cannot be removed.
func (s *ChurchService) RemoveUser(ctx context.Context, churchID, userID uuid.UUID) error {
	membership, err := s.churchRepo.GetMembership(ctx, churchID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return apperror.NewNotFoundError("Church user")
	}
	if membership.Role == entity.ChurchUserOwner {
		return apperror.NewBadRequestError("The church owner cannot be removed")
	}
	return s.churchRepo.RemoveMember(ctx, churchID, userID)
}

// ListUsers lists everyone with access to the church
func (s *ChurchService) ListUsers(ctx context.Context, churchID uuid.UUID) ([]entity.ChurchMembership, error) {
	return s.churchRepo.GetMembers(ctx, churchID)
}

// Membership returns the caller's membership, nil when they have none
func (s *ChurchService) Membership(ctx context.Context, churchID, userID uuid.UUID) (*entity.ChurchMembership, error) {
	return s.churchRepo.GetMembership(ctx, churchID, userID)
}

// ResolveSlug returns the church for a subdomain
func (s *ChurchService) ResolveSlug(ctx context.Context, slug string) (*entity.Church, error) {
	return s.churchRepo.GetBySlug(ctx, slug)
}
