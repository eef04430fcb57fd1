package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
)

// IncomeHandler handles department income
type IncomeHandler struct {
	incomeService *service.IncomeService
}

// NewIncomeHandler creates a new income handler
func NewIncomeHandler(incomeService *service.IncomeService) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

// List handles listing department income
// @Summary List department income
// @Tags income
// @Security BearerAuth
// @Param department_id query string false "Department"
// @Param income_type query string false "Income type"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /department-income [get]
func (h *IncomeHandler) List(c *gin.Context) {
	params := &repository.IncomeFilterParams{Pagination: pageParams(c)}

	var err error
	if params.DepartmentID, err = queryUUID(c, "department_id"); err != nil {
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
	if t := c.Query("income_type"); t != "" {
		incomeType := enum.IncomeType(t)
		params.IncomeType = &incomeType
	}

	result, err := h.incomeService.ListIncome(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Department income retrieved successfully", result)
}

// Create handles recording draft income
func (h *IncomeHandler) Create(c *gin.Context) {
	var req request.IncomeRequest
	if !bindJSON(c, &req) {
		return
	}
	deptID, err := parseUUID("department_id", req.DepartmentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	d, err := date("date", req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	income, err := h.incomeService.CreateIncome(c.Request.Context(), &service.IncomeInput{
		DepartmentID: deptID,
		IncomeType:   enum.IncomeType(req.IncomeType),
		Amount:       req.Amount,
		Date:         d,
		Source:       req.Source,
		Description:  req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Department income recorded successfully", income)
}

// Get handles getting one income record
func (h *IncomeHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	income, err := h.incomeService.GetIncome(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Department income retrieved successfully", income)
}

// Submit handles submitting draft income
func (h *IncomeHandler) Submit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	income, err := h.incomeService.SubmitIncome(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Department income submitted successfully", income)
}

// Cancel handles cancelling submitted income
func (h *IncomeHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	income, err := h.incomeService.CancelIncome(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Department income cancelled successfully", income)
}

// Delete handles deleting draft income
func (h *IncomeHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.incomeService.DeleteIncome(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Department income deleted successfully", nil)
}
