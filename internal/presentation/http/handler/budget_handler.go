package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
)

// BudgetHandler handles department budgets
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

func budgetInput(req *request.BudgetRequest) (*service.BudgetInput, error) {
	deptID, err := parseUUID("department_id", req.DepartmentID)
	if err != nil {
		return nil, err
	}
	fyID, err := parseUUID("fiscal_year_id", req.FiscalYearID)
	if err != nil {
		return nil, err
	}

	items := make([]service.BudgetItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		itemID, err := optionalUUID("items.item_id", it.ItemID)
		if err != nil {
			return nil, err
		}
		items = append(items, service.BudgetItemInput{
			ItemID:          itemID,
			ExpenseCategory: enum.ExpenseCategory(it.ExpenseCategory),
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
		})
	}

	return &service.BudgetInput{
		DepartmentID:      deptID,
		FiscalYearID:      fyID,
		BudgetPeriod:      enum.BudgetPeriod(req.BudgetPeriod),
		TotalBudgetAmount: req.TotalBudgetAmount,
		Description:       req.Description,
		Notes:             req.Notes,
		Items:             items,
	}, nil
}

// List handles listing budgets
// @Summary List department budgets
// @Tags budgets
// @Security BearerAuth
// @Param department_id query string false "Department"
// @Param fiscal_year_id query string false "Fiscal year"
// @Param status query string false "Draft, Approved, Active or Closed"
// @Success 200 {object} response.APIResponse
// @Router /budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	params := &repository.BudgetFilterParams{Pagination: pageParams(c)}

	var err error
	if params.DepartmentID, err = queryUUID(c, "department_id"); err != nil {
		response.Error(c, err)
		return
	}
	if params.FiscalYearID, err = queryUUID(c, "fiscal_year_id"); err != nil {
		response.Error(c, err)
		return
	}
	if s := c.Query("status"); s != "" {
		status := enum.BudgetStatus(s)
		params.Status = &status
	}

	result, err := h.budgetService.ListBudgets(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Budgets retrieved successfully", result)
}

// Create handles creating a draft budget
// @Summary Create department budget
// @Tags budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.BudgetRequest true "Budget with items"
// @Success 201 {object} response.APIResponse
// @Router /budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.BudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := budgetInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Budget created successfully", budget)
}

// Get handles getting a budget with its items
func (h *BudgetHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	budget, err := h.budgetService.GetBudget(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Budget retrieved successfully", budget)
}

// Update handles replacing a draft budget
func (h *BudgetHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.BudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := budgetInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Budget updated successfully", budget)
}

// Delete handles deleting a draft budget
func (h *BudgetHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Budget deleted successfully", nil)
}

// Submit activates a budget and refreshes the treasury totals
func (h *BudgetHandler) Submit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	budget, err := h.budgetService.SubmitBudget(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Budget submitted successfully", budget)
}

// Cancel returns a budget to draft
func (h *BudgetHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	budget, err := h.budgetService.CancelBudget(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Budget cancelled successfully", budget)
}

// Close closes an active budget
func (h *BudgetHandler) Close(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	budget, err := h.budgetService.CloseBudget(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Budget closed successfully", budget)
}

// Items lists the lines of an active budget for expense entry
func (h *BudgetHandler) Items(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	items, err := h.budgetService.ActiveBudgetItems(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Budget items retrieved successfully", items)
}
