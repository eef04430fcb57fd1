package handler

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"gorm.io/datatypes"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	roles, exists := c.Get("user_roles")
	if !exists {
		return nil
	}
	list, _ := roles.([]string)
	return list
}

// IsSuperAdmin checks if the user has the super-admin role
func IsSuperAdmin(c *gin.Context) bool {
	for _, role := range GetUserRoles(c) {
		if role == entity.RoleSuperAdmin {
			return true
		}
	}
	return false
}

// currentUser returns the authenticated user or writes a 401
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return *userID, true
}

// paramID parses a UUID path parameter or writes a 400
func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the body and reports tag failures as field errors
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.ValidationError(c, fieldErrors(verrs))
			return false
		}
		response.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// bindQuery is bindJSON for query strings
func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.ValidationError(c, fieldErrors(verrs))
			return false
		}
		response.BadRequest(c, "Invalid query parameters")
		return false
	}
	return true
}

func fieldErrors(verrs validator.ValidationErrors) []apperror.FieldError {
	out := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperror.FieldError{Field: fe.Field(), Message: validationMessage(fe)})
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must not exceed " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gtfield":
		return "must be after " + fe.Param()
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// pageParams reads page and per_page; the service clamps them
func pageParams(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	return &pagination.PaginationParams{Page: page, PerPage: perPage}
}

// queryUUID reads an optional UUID filter
func queryUUID(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.NewFieldError(name, "must be a valid UUID")
	}
	return &id, nil
}

// queryDate reads an optional YYYY-MM-DD filter
func queryDate(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := entity.ParseDate(raw)
	if err != nil {
		return nil, apperror.NewFieldError(name, "must be a date in YYYY-MM-DD format")
	}
	t := entity.Time(d)
	return &t, nil
}

// queryRange reads from and to, defaulting to the current calendar year
func queryRange(c *gin.Context) (time.Time, time.Time, error) {
	from, err := queryDate(c, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	y := time.Now().Year()
	start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}
	return start, end, nil
}

// date parses a bound YYYY-MM-DD field
func date(field, raw string) (datatypes.Date, error) {
	d, err := entity.ParseDate(raw)
	if err != nil {
		return d, apperror.NewFieldError(field, "must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

// optionalDate parses a date that may be left out
func optionalDate(field string, raw *string) (*datatypes.Date, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := date(field, *raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// wantsXLSX reports whether the caller asked for a spreadsheet
func wantsXLSX(c *gin.Context) bool {
	return c.Query("format") == "xlsx"
}

// optionalUUID parses an ID that may be left out
func optionalUUID(field string, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, apperror.NewFieldError(field, "must be a valid UUID")
	}
	return &id, nil
}

// parseUUID parses a required ID field
func parseUUID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.NewFieldError(field, "must be a valid UUID")
	}
	return id, nil
}
