package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/pkg/printer"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func asUser(c *gin.Context) {
	c.Set("user_id", uuid.New())
	c.Next()
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func fields(env envelope) []string {
	out := make([]string, 0, len(env.Errors))
	for _, e := range env.Errors {
		out = append(out, e.Field)
	}
	return out
}

// Requests rejected during binding never reach the service, so the
// handlers below run without one.

func TestBudgetCreateValidation(t *testing.T) {
	h := NewBudgetHandler(nil)
	r := gin.New()
	r.POST("/budgets", asUser, h.Create)
	r.POST("/anonymous", h.Create)

	t.Run("missing fields are reported by json name", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/budgets", `{"budget_period":"Weekly"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.False(t, env.Success)
		assert.ElementsMatch(t, []string{"department_id", "fiscal_year_id", "budget_period", "items"}, fields(env))
	})

	t.Run("budget lines are validated", func(t *testing.T) {
		body := `{
			"department_id": "` + uuid.NewString() + `",
			"fiscal_year_id": "` + uuid.NewString() + `",
			"budget_period": "Annual",
			"items": [{"item_id": "nope", "quantity": 1, "unit_price": "100"}]
		}`
		w, env := do(t, r, http.MethodPost, "/budgets", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.ElementsMatch(t, []string{"item_id", "expense_category"}, fields(env))
	})

	t.Run("malformed json", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/budgets", `{"items": [`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", env.Message)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w, _ := do(t, r, http.MethodPost, "/anonymous", `{}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestExpenseValidation(t *testing.T) {
	h := NewExpenseHandler(nil)
	r := gin.New()
	r.POST("/expenses", asUser, h.Create)
	r.POST("/expenses/:id/submit", asUser, h.Submit)

	body := `{
		"department_id": "` + uuid.NewString() + `",
		"expense_date": "19/10/2026",
		"payment_mode": "Bank Transfer",
		"details": [{"expense_category": "Supplies", "quantity": 2, "unit_price": "50"}]
	}`
	w, env := do(t, r, http.MethodPost, "/expenses", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "expense_date", env.Errors[0].Field)
	assert.Equal(t, "must be a date in YYYY-MM-DD format", env.Errors[0].Message)

	w, env = do(t, r, http.MethodPost, "/expenses/not-a-uuid/submit", ``)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid id", env.Message)
}

func TestPaymentPhoneValidation(t *testing.T) {
	h := NewMobileMoneyHandler(nil)
	r := gin.New()
	r.POST("/payments", asUser, h.RequestPayment)

	w, env := do(t, r, http.MethodPost, "/payments", `{"phone_number": "12ab", "amount": "1000"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "phone_number", env.Errors[0].Field)
	assert.Equal(t, "must be a valid phone number", env.Errors[0].Message)
}

func TestBulkSMSMessageRequiredForCustom(t *testing.T) {
	h := NewSMSHandler(nil)
	r := gin.New()
	r.POST("/sms/bulk", h.QueueBulk)

	w, env := do(t, r, http.MethodPost, "/sms/bulk", `{"type": "custom"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"message"}, fields(env))

	w, env = do(t, r, http.MethodPost, "/sms/bulk", `{"type": "broadcast", "message": "hi"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"type"}, fields(env))
}

func TestRemittancePreviewQuery(t *testing.T) {
	h := NewRemittanceHandler(nil)
	r := gin.New()
	r.GET("/remittances/preview", h.Preview)

	w, env := do(t, r, http.MethodGet, "/remittances/preview?date=2026-10-19&period=Fortnightly", ``)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"period"}, fields(env))
}

func TestReportRangeRejectsInvertedDates(t *testing.T) {
	h := NewReportHandler(nil)
	r := gin.New()
	r.GET("/reports/department-balances", h.DepartmentBalances)

	w, _ := do(t, r, http.MethodGet, "/reports/department-balances?from=2026-12-01&to=2026-01-01", ``)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := do(t, r, http.MethodGet, "/reports/department-balances?from=yesterday", ``)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"from"}, fields(env))
}

func TestListFilterValidation(t *testing.T) {
	h := NewIncomeHandler(nil)
	r := gin.New()
	r.GET("/department-income", h.List)

	w, env := do(t, r, http.MethodGet, "/department-income?department_id=abc", ``)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"department_id"}, fields(env))
}

func TestPrinterStatus(t *testing.T) {
	svc := service.NewPrinterService(printer.NewNullPrinter(), nil, nil, "none", 32)
	h := NewPrinterHandler(svc)
	r := gin.New()
	r.GET("/printer/status", h.GetStatus)
	r.POST("/printer/test", h.TestPrint)

	w, env := do(t, r, http.MethodGet, "/printer/status", ``)
	require.Equal(t, http.StatusOK, w.Code)
	status := env.Data.(map[string]any)
	assert.Equal(t, false, status["configured"])
	assert.Equal(t, false, status["connected"])

	w, env = do(t, r, http.MethodPost, "/printer/test", ``)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, env.Data.(map[string]any), "receipt")
}

func TestDeleteSelfIsRefused(t *testing.T) {
	h := NewUserHandler(nil)
	self := uuid.New()
	r := gin.New()
	r.DELETE("/admin/users/:id", func(c *gin.Context) {
		c.Set("user_id", self)
		c.Next()
	}, h.Delete)

	w, _ := do(t, r, http.MethodDelete, "/admin/users/"+self.String(), ``)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
