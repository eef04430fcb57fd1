package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
)

// DepartmentHandler handles departments and their items
type DepartmentHandler struct {
	departmentService *service.DepartmentService
	itemService       *service.ItemService
	incomeService     *service.IncomeService
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(
	departmentService *service.DepartmentService,
	itemService *service.ItemService,
	incomeService *service.IncomeService,
) *DepartmentHandler {
	return &DepartmentHandler{
		departmentService: departmentService,
		itemService:       itemService,
		incomeService:     incomeService,
	}
}

func departmentInput(req *request.DepartmentRequest) (*service.DepartmentInput, error) {
	parentID, err := optionalUUID("parent_id", req.ParentID)
	if err != nil {
		return nil, err
	}
	head, err := optionalUUID("head_of_department", req.HeadOfDepartment)
	if err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &service.DepartmentInput{
		Name:             req.Name,
		Code:             req.Code,
		ParentID:         parentID,
		HeadOfDepartment: head,
		BudgetYear:       req.BudgetYear,
		IsActive:         active,
		Description:      req.Description,
	}, nil
}

// List handles listing departments
// @Summary List departments
// @Tags departments
// @Security BearerAuth
// @Param search query string false "Name or code"
// @Param active query bool false "Only active departments"
// @Success 200 {object} response.APIResponse
// @Router /departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	result, err := h.departmentService.ListDepartments(c.Request.Context(), pageParams(c), c.Query("search"), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Departments retrieved successfully", result)
}

// Tree returns the department hierarchy
func (h *DepartmentHandler) Tree(c *gin.Context) {
	tree, err := h.departmentService.Tree(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Department tree retrieved successfully", tree)
}

// Create handles creating a department
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req request.DepartmentRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := departmentInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	dept, err := h.departmentService.CreateDepartment(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Department created successfully", dept)
}

// Get handles getting a department with its hierarchy path
func (h *DepartmentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	dept, err := h.departmentService.GetDepartment(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	path, err := h.departmentService.HierarchyPath(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Department retrieved successfully", gin.H{
		"department":     dept,
		"hierarchy_path": path,
	})
}

// Update handles replacing a department
func (h *DepartmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.DepartmentRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := departmentInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	dept, err := h.departmentService.UpdateDepartment(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Department updated successfully", dept)
}

// Delete handles deleting a department
func (h *DepartmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.departmentService.DeleteDepartment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Department deleted successfully", nil)
}

// Utilization returns budget use for a department, optionally for one
// fiscal year
// @Summary Department budget utilization
// @Tags departments
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Param fiscal_year_id query string false "Fiscal year"
// @Success 200 {object} response.APIResponse
// @Router /departments/{id}/utilization [get]
func (h *DepartmentHandler) Utilization(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	fyID, err := queryUUID(c, "fiscal_year_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	util, err := h.departmentService.Utilization(c.Request.Context(), id, fyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Budget utilization retrieved successfully", util)
}

// Balance returns income less expenses for a calendar year
func (h *DepartmentHandler) Balance(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 2000 || y > 2100 {
			response.BadRequest(c, "Invalid year")
			return
		}
		year = y
	}

	balance, err := h.departmentService.Balance(c.Request.Context(), id, year)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Department balance retrieved successfully", balance)
}

// IncomeByType totals submitted income per type in a date range
func (h *DepartmentHandler) IncomeByType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	from, to, err := queryRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	totals, err := h.incomeService.IncomeByType(c.Request.Context(), id, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Income by type retrieved successfully", totals)
}

func itemInput(req *request.ItemRequest) (*service.ItemInput, error) {
	deptID, err := parseUUID("department_id", req.DepartmentID)
	if err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &service.ItemInput{
		ItemName:        req.ItemName,
		DepartmentID:    deptID,
		DefaultCategory: enum.ExpenseCategory(req.DefaultCategory),
		UnitPrice:       req.UnitPrice,
		IsActive:        active,
		Description:     req.Description,
	}, nil
}

// ListItems handles listing items, optionally for one department
func (h *DepartmentHandler) ListItems(c *gin.Context) {
	deptID, err := queryUUID(c, "department_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.itemService.ListItems(c.Request.Context(), pageParams(c), deptID, c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Items retrieved successfully", result)
}

// CreateItem handles creating an item
func (h *DepartmentHandler) CreateItem(c *gin.Context) {
	var req request.ItemRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := itemInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item created successfully", item)
}

// GetItem handles getting an item
func (h *DepartmentHandler) GetItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item retrieved successfully", item)
}

// UpdateItem handles replacing an item
func (h *DepartmentHandler) UpdateItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.ItemRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := itemInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item updated successfully", item)
}

// DeleteItem handles deleting an item
func (h *DepartmentHandler) DeleteItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item deleted successfully", nil)
}
