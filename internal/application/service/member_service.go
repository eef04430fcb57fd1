package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"gorm.io/datatypes"
)

// MemberService handles the church roll
type MemberService struct {
	memberRepo repository.MemberRepository
	settings   *SettingsService
	tasks      TaskEnqueuer
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo repository.MemberRepository, settings *SettingsService, tasks TaskEnqueuer) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		settings:   settings,
		tasks:      tasks,
	}
}

// MemberInput carries the editable member fields
type MemberInput struct {
	MemberID    string
	FirstName   string
	LastName    string
	Gender      enum.Gender
	Email       string
	Contact     string
	DateOfBirth *datatypes.Date
	BaptismDate *datatypes.Date
	JoinDate    *datatypes.Date
	Status      enum.MemberStatus
	ChurchRole  enum.ChurchRole
	Address     string
	Notes       string
}

func (in *MemberInput) apply(m *entity.Member) {
	m.MemberID = strings.TrimSpace(in.MemberID)
	m.FirstName = strings.TrimSpace(in.FirstName)
	m.LastName = strings.TrimSpace(in.LastName)
	m.Gender = in.Gender
	m.Email = strings.TrimSpace(in.Email)
	m.Contact = strings.TrimSpace(in.Contact)
	m.DateOfBirth = in.DateOfBirth
	m.BaptismDate = in.BaptismDate
	m.JoinDate = in.JoinDate
	m.Status = in.Status
	m.ChurchRole = in.ChurchRole
	m.Address = in.Address
	m.Notes = in.Notes
}

// CreateMember adds a member, enforcing the package member limit, and
// queues a welcome SMS when SMS is enabled
func (s *MemberService) CreateMember(ctx context.Context, userID uuid.UUID, input *MemberInput) (*entity.Member, error) {
	churchID, err := churchFromContext(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.memberRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if !entity.Allows(settings.Limits.MaxMembers, count) {
		return nil, apperror.NewFeatureError(fmt.Sprintf(
			"Member limit of %d reached for the %s package", settings.Limits.MaxMembers, settings.Package))
	}

	member := &entity.Member{CreatedBy: &userID}
	member.TenantID = churchID
	input.apply(member)

	if err := s.validate(ctx, member); err != nil {
		return nil, err
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	if member.Contact != "" && settings.FeatureEnabled(enum.FeatureSMS) {
		if err := s.tasks.EnqueueWelcomeSMS(ctx, churchID, member.ID); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("member_id", member.ID.String()).Msg("failed to enqueue welcome SMS")
		}
	}

	return member, nil
}

// validate runs entity rules and the per-church member_id uniqueness check
func (s *MemberService) validate(ctx context.Context, member *entity.Member) error {
	if err := member.Validate(today()); err != nil {
		return err
	}

	existing, err := s.memberRepo.GetByMemberID(ctx, member.MemberID)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != member.ID {
		return apperror.NewFieldError("member_id", fmt.Sprintf("Member ID %s already exists", member.MemberID))
	}
	return nil
}

// GetMember retrieves a member by ID
func (s *MemberService) GetMember(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperror.NewNotFoundError("Member")
	}
	return member, nil
}

// UpdateMember replaces a member's editable fields
func (s *MemberService) UpdateMember(ctx context.Context, id uuid.UUID, input *MemberInput) (*entity.Member, error) {
	member, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}

	input.apply(member)
	if err := s.validate(ctx, member); err != nil {
		return nil, err
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// DeleteMember removes a member
func (s *MemberService) DeleteMember(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetMember(ctx, id); err != nil {
		return err
	}
	return s.memberRepo.Delete(ctx, id)
}

// ListMembers lists members with search, filters and pagination
func (s *MemberService) ListMembers(ctx context.Context, params *repository.MemberFilterParams) (*pagination.PaginatedResult[entity.Member], error) {
	members, total, err := s.memberRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(members, pag), nil
}
