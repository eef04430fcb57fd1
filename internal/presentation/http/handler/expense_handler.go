package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
)

// ExpenseHandler handles department expenses
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func expenseInput(req *request.ExpenseRequest) (*service.ExpenseInput, error) {
	deptID, err := parseUUID("department_id", req.DepartmentID)
	if err != nil {
		return nil, err
	}
	budgetID, err := optionalUUID("budget_id", req.BudgetID)
	if err != nil {
		return nil, err
	}
	d, err := date("expense_date", req.ExpenseDate)
	if err != nil {
		return nil, err
	}

	details := make([]service.ExpenseDetailInput, 0, len(req.Details))
	for _, dt := range req.Details {
		itemID, err := optionalUUID("details.item_id", dt.ItemID)
		if err != nil {
			return nil, err
		}
		details = append(details, service.ExpenseDetailInput{
			ItemID:          itemID,
			ExpenseCategory: enum.ExpenseCategory(dt.ExpenseCategory),
			Description:     dt.Description,
			Quantity:        dt.Quantity,
			UnitPrice:       dt.UnitPrice,
		})
	}

	return &service.ExpenseInput{
		DepartmentID:    deptID,
		BudgetID:        budgetID,
		ExpenseDate:     d,
		PaymentMode:     enum.PaymentMode(req.PaymentMode),
		Vendor:          req.Vendor,
		InvoiceNumber:   req.InvoiceNumber,
		ReceiptNumber:   req.ReceiptNumber,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		Details:         details,
	}, nil
}

// bound decodes an expense body or writes the error
func (h *ExpenseHandler) bound(c *gin.Context) (*service.ExpenseInput, bool) {
	var req request.ExpenseRequest
	if !bindJSON(c, &req) {
		return nil, false
	}
	input, err := expenseInput(&req)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return input, true
}

// List handles listing expenses
// @Summary List department expenses
// @Tags expenses
// @Security BearerAuth
// @Param department_id query string false "Department"
// @Param budget_id query string false "Budget"
// @Param status query string false "Expense status"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	params := &repository.ExpenseFilterParams{Pagination: pageParams(c)}

	var err error
	if params.DepartmentID, err = queryUUID(c, "department_id"); err != nil {
		response.Error(c, err)
		return
	}
	if params.BudgetID, err = queryUUID(c, "budget_id"); err != nil {
		response.Error(c, err)
		return
	}
	if params.StartDate, err = queryDate(c, "from"); err != nil {
		response.Error(c, err)
		return
	}
	if params.EndDate, err = queryDate(c, "to"); err != nil {
		response.Error(c, err)
		return
	}
	if s := c.Query("status"); s != "" {
		status := enum.ExpenseStatus(s)
		params.Status = &status
	}

	result, err := h.expenseService.ListExpenses(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Expenses retrieved successfully", result)
}

// Create handles recording a draft expense. Budget overruns come back as
// warnings next to the expense.
// @Summary Create department expense
// @Tags expenses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.ExpenseRequest true "Expense with details"
// @Success 201 {object} response.APIResponse
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	input, ok := h.bound(c)
	if !ok {
		return
	}

	result, err := h.expenseService.CreateExpense(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Expense created successfully", result)
}

// Get handles getting an expense with its details
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense retrieved successfully", expense)
}

// Update handles replacing a draft expense
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	input, ok := h.bound(c)
	if !ok {
		return
	}

	result, err := h.expenseService.UpdateExpense(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense updated successfully", result)
}

// Delete handles deleting a draft expense
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense deleted successfully", nil)
}

// Submit sends an expense for approval and charges its budget lines
func (h *ExpenseHandler) Submit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := h.expenseService.SubmitExpense(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense submitted successfully", result)
}

// Cancel reverses a submitted expense's budget charge
func (h *ExpenseHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	expense, err := h.expenseService.CancelExpense(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense cancelled successfully", expense)
}

// Approve handles approving a pending expense
func (h *ExpenseHandler) Approve(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	expense, err := h.expenseService.ApproveExpense(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense approved successfully", expense)
}

// Reject handles rejecting a pending expense
func (h *ExpenseHandler) Reject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	expense, err := h.expenseService.RejectExpense(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense rejected", expense)
}

// MarkPaid handles marking an approved expense paid
func (h *ExpenseHandler) MarkPaid(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	expense, err := h.expenseService.MarkExpensePaid(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense marked as paid", expense)
}

// BudgetImpact previews budget remaining per category before and after
// the expense, without saving anything
// @Summary Preview an expense's budget impact
// @Tags expenses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.ExpenseRequest true "Expense with details"
// @Success 200 {object} response.APIResponse
// @Router /expenses/budget-impact [post]
func (h *ExpenseHandler) BudgetImpact(c *gin.Context) {
	input, ok := h.bound(c)
	if !ok {
		return
	}

	lines, err := h.expenseService.BudgetImpact(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Budget impact calculated", lines)
}
