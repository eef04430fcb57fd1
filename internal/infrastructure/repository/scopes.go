package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"gorm.io/gorm"
)

type ctxKey string

const (
	// TenantIDKey is the context key for the active church ID
	TenantIDKey ctxKey = "tenant_id"
	// SkipTenantScopeKey lets platform jobs read across churches
	SkipTenantScopeKey ctxKey = "skip_tenant_scope"
)

// TenantScope limits a query to the church in ctx. Without a church the
// query matches nothing.
func TenantScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if skip, ok := ctx.Value(SkipTenantScopeKey).(bool); ok && skip {
			return db
		}

		tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
		if !ok {
			return db.Where("1 = 0")
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}

// WithSkipTenantScope marks ctx as crossing church boundaries
func WithSkipTenantScope(ctx context.Context, skip bool) context.Context {
	return context.WithValue(ctx, SkipTenantScopeKey, skip)
}

// WithTenant binds a church to ctx
func WithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, TenantIDKey, tenantID)
}

// GetTenantID extracts the church ID from ctx
func GetTenantID(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchScope matches term case-insensitively as a substring of any of
// cols. An empty term leaves the query alone.
func SearchScope(term string, cols ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(cols) == 0 {
			return db
		}

		like := "%" + likeEscaper.Replace(term) + "%"
		clauses := make([]string, len(cols))
		args := make([]any, len(cols))
		for i, col := range cols {
			clauses[i] = col + " ILIKE ?"
			args[i] = like
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// PageScope clamps params and applies offset and limit
func PageScope(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}
