package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	infraRepo "github.com/sangkips/stewardpro-api/internal/infrastructure/repository"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
)

// ChurchHeader selects the church when the API is not called on a subdomain
const ChurchHeader = "X-Church-ID"

// ChurchResolver finds churches and the caller's access to them
type ChurchResolver interface {
	GetChurch(ctx context.Context, id uuid.UUID) (*entity.Church, error)
	ResolveSlug(ctx context.Context, slug string) (*entity.Church, error)
	Membership(ctx context.Context, churchID, userID uuid.UUID) (*entity.ChurchMembership, error)
}

// ExtractChurchSlug returns the subdomain of host,
// e.g. "mwenge.stewardpro.app" -> "mwenge"
func ExtractChurchSlug(host string) string {
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	parts := strings.Split(host, ".")
	if len(parts) < 3 || parts[0] == "www" || parts[0] == "api" {
		return ""
	}
	return parts[0]
}

// ChurchContext resolves the church from the X-Church-ID header or the
// subdomain, checks the caller belongs to it and scopes every repository
// call to it. Super admins may open any church.
func ChurchContext(resolver ChurchResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		churchID, ok := resolveChurch(c, resolver)
		if !ok {
			return
		}

		userIDVal, _ := c.Get("user_id")
		userID, _ := userIDVal.(uuid.UUID)
		roles, _ := c.Get("user_roles")
		superAdmin := false
		if list, ok := roles.([]string); ok {
			superAdmin = slices.Contains(list, entity.RoleSuperAdmin)
		}

		role := entity.ChurchUserOwner
		if !superAdmin {
			membership, err := resolver.Membership(ctx, churchID, userID)
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
			if membership == nil {
				response.Forbidden(c, "Access denied to this church")
				c.Abort()
				return
			}
			role = membership.Role
		}

		permissions, _ := c.Get("user_permissions")
		granted, _ := permissions.([]string)
		granted = mergePermissions(granted, entity.ChurchRolePermissions(role))

		c.Set("church_id", churchID)
		c.Set("church_role", role)
		c.Set("user_permissions", granted)

		logger := zerolog.Ctx(ctx).With().Str("church_id", churchID.String()).Logger()
		ctx = infraRepo.WithTenant(logger.WithContext(ctx), churchID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func resolveChurch(c *gin.Context, resolver ChurchResolver) (uuid.UUID, bool) {
	ctx := c.Request.Context()

	if raw := c.GetHeader(ChurchHeader); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid "+ChurchHeader+" header")
			c.Abort()
			return uuid.Nil, false
		}
		if _, err := resolver.GetChurch(ctx, id); err != nil {
			response.Error(c, err)
			c.Abort()
			return uuid.Nil, false
		}
		return id, true
	}

	slug := ExtractChurchSlug(c.Request.Host)
	if slug == "" {
		response.BadRequest(c, "Church context required")
		c.Abort()
		return uuid.Nil, false
	}

	church, err := resolver.ResolveSlug(ctx, slug)
	if err != nil {
		response.Error(c, err)
		c.Abort()
		return uuid.Nil, false
	}
	if church == nil {
		response.NotFound(c, "Church not found")
		c.Abort()
		return uuid.Nil, false
	}
	return church.ID, true
}

func mergePermissions(a, b []string) []string {
	out := slices.Clone(a)
	for _, p := range b {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// GetChurchID retrieves the church ID from gin context
func GetChurchID(c *gin.Context) uuid.UUID {
	churchID, exists := c.Get("church_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := churchID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
