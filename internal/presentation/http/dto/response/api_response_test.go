package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/stewardpro-api/pkg/apperror"
)

func run(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-1")
	h(c)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestEnvelope(t *testing.T) {
	w, body := run(t, func(c *gin.Context) { Created(c, "Member created", gin.H{"id": 7}) })
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "req-1", body["meta"].(map[string]any)["request_id"])
	assert.NotContains(t, body, "errors")
}

func TestErrorHidesInternalDetails(t *testing.T) {
	var ctx *gin.Context
	w, body := run(t, func(c *gin.Context) {
		ctx = c
		Error(c, errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, body, "errors")
	require.Len(t, ctx.Errors, 1)
}

func TestErrorCarriesFieldErrors(t *testing.T) {
	w, body := run(t, func(c *gin.Context) { Error(c, apperror.NewFieldError("phone_number", "must be a valid phone number")) })
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := body["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "phone_number", errs[0].(map[string]any)["field"])
}

func TestClientErrorsAreNotLogged(t *testing.T) {
	var ctx *gin.Context
	w, _ := run(t, func(c *gin.Context) {
		ctx = c
		Error(c, apperror.ErrNotDraft)
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, ctx.Errors)
}
