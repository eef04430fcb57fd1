package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ItemService handles the catalogue of budget items
type ItemService struct {
	itemRepo repository.ItemRepository
	deptRepo repository.DepartmentRepository
}

// NewItemService creates a new item service
func NewItemService(itemRepo repository.ItemRepository, deptRepo repository.DepartmentRepository) *ItemService {
	return &ItemService{
		itemRepo: itemRepo,
		deptRepo: deptRepo,
	}
}

// ItemInput carries the editable item fields
type ItemInput struct {
	ItemName        string
	DepartmentID    uuid.UUID
	DefaultCategory enum.ExpenseCategory
	UnitPrice       decimal.Decimal
	IsActive        bool
	Description     string
}

func (s *ItemService) apply(ctx context.Context, item *entity.Item, in *ItemInput) error {
	item.ItemName = in.ItemName
	item.DepartmentID = in.DepartmentID
	item.DefaultCategory = in.DefaultCategory
	item.UnitPrice = in.UnitPrice
	item.IsActive = in.IsActive
	item.Description = in.Description
	item.Department = nil
	if err := item.Validate(); err != nil {
		return err
	}

	dept, err := s.deptRepo.GetByID(ctx, item.DepartmentID)
	if err != nil {
		return err
	}
	if dept == nil {
		return apperror.NewFieldError("department_id", "Department not found")
	}
	if !dept.IsActive {
		return apperror.NewFieldError("department_id", "Department "+dept.Name+" is not active")
	}
	return nil
}

// CreateItem adds an item to an active department
func (s *ItemService) CreateItem(ctx context.Context, input *ItemInput) (*entity.Item, error) {
	churchID, err := churchFromContext(ctx)
	if err != nil {
		return nil, err
	}

	item := &entity.Item{}
	item.TenantID = churchID
	if err := s.apply(ctx, item, input); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem retrieves an item by ID
func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	return item, nil
}

// UpdateItem replaces an item's editable fields
func (s *ItemService) UpdateItem(ctx context.Context, id uuid.UUID, input *ItemInput) (*entity.Item, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, item, input); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item
func (s *ItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}
	return s.itemRepo.Delete(ctx, id)
}

// ListItems lists items, optionally one department's or only active ones
func (s *ItemService) ListItems(ctx context.Context, params *pagination.PaginationParams, departmentID *uuid.UUID, activeOnly bool) (*pagination.PaginatedResult[entity.Item], error) {
	items, total, err := s.itemRepo.List(ctx, params, departmentID, activeOnly)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(items, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}
