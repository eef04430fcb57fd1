package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
)

// ReportHandler serves the financial reports as JSON or XLSX
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// render writes the report as JSON, or as a spreadsheet for ?format=xlsx
func (h *ReportHandler) render(c *gin.Context, name string, report service.Exportable) {
	if !wantsXLSX(c) {
		response.OK(c, "Report generated successfully", report)
		return
	}

	data, err := h.reportService.ExportXLSX(report)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := name + "-" + time.Now().UTC().Format("20060102") + ".xlsx"
	response.File(c, filename, response.XLSXContentType, data)
}

// reportRange reads the date range, taking a fiscal_year_id over from and to
func (h *ReportHandler) reportRange(c *gin.Context) (time.Time, time.Time, bool) {
	fyID, err := queryUUID(c, "fiscal_year_id")
	if err != nil {
		response.Error(c, err)
		return time.Time{}, time.Time{}, false
	}

	var from, to time.Time
	if fyID != nil {
		from, to, err = h.reportService.FiscalYearRange(c.Request.Context(), *fyID)
	} else {
		from, to, err = queryRange(c)
	}
	if err != nil {
		response.Error(c, err)
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		response.BadRequest(c, "from must not be after to")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// FinancialSummary compares income and expenses across periods
// @Summary Financial summary
// @Tags reports
// @Security BearerAuth
// @Param format query string false "json or xlsx"
// @Success 200 {object} response.APIResponse
// @Router /reports/financial-summary [get]
func (h *ReportHandler) FinancialSummary(c *gin.Context) {
	report, err := h.reportService.FinancialSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, "financial-summary", report)
}

// DepartmentalBudget reports budget against spending per department
// @Summary Departmental budget report
// @Tags reports
// @Security BearerAuth
// @Param fiscal_year_id query string false "Fiscal year"
// @Param department_id query string false "Department"
// @Param format query string false "json or xlsx"
// @Success 200 {object} response.APIResponse
// @Router /reports/departmental-budget [get]
func (h *ReportHandler) DepartmentalBudget(c *gin.Context) {
	fyID, err := queryUUID(c, "fiscal_year_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	deptID, err := queryUUID(c, "department_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.reportService.DepartmentalBudget(c.Request.Context(), fyID, deptID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, "departmental-budget", report)
}

// DepartmentBalances reports income less expenses per department
// @Summary Department balances
// @Tags reports
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param fiscal_year_id query string false "Use the fiscal year's dates"
// @Param format query string false "json or xlsx"
// @Success 200 {object} response.APIResponse
// @Router /reports/department-balances [get]
func (h *ReportHandler) DepartmentBalances(c *gin.Context) {
	from, to, ok := h.reportRange(c)
	if !ok {
		return
	}

	report, err := h.reportService.DepartmentBalances(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, "department-balances", report)
}

// PendingRemittance reports collections not yet remitted
// @Summary Pending remittance
// @Tags reports
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param fiscal_year_id query string false "Use the fiscal year's dates"
// @Param format query string false "json or xlsx"
// @Success 200 {object} response.APIResponse
// @Router /reports/pending-remittance [get]
func (h *ReportHandler) PendingRemittance(c *gin.Context) {
	from, to, ok := h.reportRange(c)
	if !ok {
		return
	}

	report, err := h.reportService.PendingRemittance(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, "pending-remittance", report)
}

// TithesAndOfferings lists submitted contributions, optionally for one member
// @Summary Tithes and offerings report
// @Tags reports
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param member_id query string false "Member"
// @Param format query string false "json or xlsx"
// @Success 200 {object} response.APIResponse
// @Router /reports/tithes-offerings [get]
func (h *ReportHandler) TithesAndOfferings(c *gin.Context) {
	from, to, ok := h.reportRange(c)
	if !ok {
		return
	}
	memberID, err := queryUUID(c, "member_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.reportService.TithesAndOfferings(c.Request.Context(), from, to, memberID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, "tithes-offerings", report)
}
