package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
)

// FiscalYearHandler handles fiscal years and their treasury budgets
type FiscalYearHandler struct {
	fiscalYearService *service.FiscalYearService
	treasuryService   *service.TreasuryService
}

// NewFiscalYearHandler creates a new fiscal year handler
func NewFiscalYearHandler(fiscalYearService *service.FiscalYearService, treasuryService *service.TreasuryService) *FiscalYearHandler {
	return &FiscalYearHandler{
		fiscalYearService: fiscalYearService,
		treasuryService:   treasuryService,
	}
}

// List handles listing fiscal years
func (h *FiscalYearHandler) List(c *gin.Context) {
	years, err := h.fiscalYearService.ListFiscalYears(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fiscal years retrieved successfully", years)
}

// Create handles creating a fiscal year
// @Summary Create fiscal year
// @Tags fiscal-years
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.FiscalYearRequest true "Fiscal year"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /fiscal-years [post]
func (h *FiscalYearHandler) Create(c *gin.Context) {
	var req request.FiscalYearRequest
	if !bindJSON(c, &req) {
		return
	}
	start, err := date("year_start_date", req.YearStartDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	end, err := optionalDate("year_end_date", req.YearEndDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	fy, err := h.fiscalYearService.CreateFiscalYear(c.Request.Context(), &service.FiscalYearInput{
		Year:          req.Year,
		YearStartDate: start,
		YearEndDate:   end,
		IsShortYear:   req.IsShortYear,
		Disabled:      req.Disabled,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Fiscal year created successfully", fy)
}

// Get handles getting a fiscal year
func (h *FiscalYearHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	fy, err := h.fiscalYearService.GetFiscalYear(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fiscal year retrieved successfully", fy)
}

// Update handles editing a fiscal year's name and flags
func (h *FiscalYearHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateFiscalYearRequest
	if !bindJSON(c, &req) {
		return
	}

	fy, err := h.fiscalYearService.UpdateFiscalYear(c.Request.Context(), id, &service.FiscalYearUpdateInput{
		Year:        req.Year,
		IsShortYear: req.IsShortYear,
		Disabled:    req.Disabled,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fiscal year updated successfully", fy)
}

// Covering finds the enabled fiscal year containing ?date=, today by default
func (h *FiscalYearHandler) Covering(c *gin.Context) {
	d, err := queryDate(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	at := entity.Time(entity.DateOf(time.Now()))
	if d != nil {
		at = *d
	}

	fy, err := h.fiscalYearService.GetCovering(c.Request.Context(), at)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fiscal year retrieved successfully", fy)
}

// Treasury returns the stored treasury budget of a fiscal year
func (h *FiscalYearHandler) Treasury(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	tb, err := h.treasuryService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Treasury budget retrieved successfully", tb)
}

// SyncTreasury recomputes the treasury budget from active budgets
func (h *FiscalYearHandler) SyncTreasury(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	tb, err := h.treasuryService.Sync(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Treasury budget synchronised", tb)
}
