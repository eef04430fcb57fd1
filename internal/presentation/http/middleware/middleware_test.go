package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/stewardpro-api/internal/config"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	infraRepo "github.com/sangkips/stewardpro-api/internal/infrastructure/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withUser stands in for AuthMiddleware
func withUser(userID uuid.UUID, roles, permissions []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_roles", roles)
		c.Set("user_permissions", permissions)
		c.Next()
	}
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret-0123456789", time.Hour, time.Hour)
	userID := uuid.New()
	token, err := jwtManager.GenerateAccessToken(userID, "clerk@example.com", []string{entity.RoleClerk}, []string{entity.PermMemberView})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", AuthMiddleware(jwtManager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":     c.MustGet("user_id"),
			"permissions": c.MustGet("user_permissions"),
		})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				body := decodeBody(t, w)
				assert.Equal(t, userID.String(), body["user_id"])
				assert.Equal(t, []any{entity.PermMemberView}, body["permissions"])
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	r := gin.New()
	r.GET("/members", withUser(uuid.New(), nil, []string{entity.PermMemberView}), RequirePermission(entity.PermMemberView), ok)
	r.DELETE("/members", withUser(uuid.New(), nil, []string{entity.PermMemberView}), RequirePermission(entity.PermMemberManage), ok)
	r.GET("/anonymous", RequirePermission(entity.PermMemberView), ok)

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/members", nil)).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, httptest.NewRequest(http.MethodDelete, "/members", nil)).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, httptest.NewRequest(http.MethodGet, "/anonymous", nil)).Code)
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/admin", withUser(uuid.New(), []string{entity.RoleSuperAdmin}, nil), RequireRole(entity.RoleSuperAdmin), ok)
	r.GET("/clerk", withUser(uuid.New(), []string{entity.RoleClerk}, nil), RequireRole(entity.RoleSuperAdmin), ok)

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/admin", nil)).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, httptest.NewRequest(http.MethodGet, "/clerk", nil)).Code)
}

func TestExtractChurchSlug(t *testing.T) {
	tests := map[string]string{
		"mwenge.stewardpro.app":      "mwenge",
		"mwenge.stewardpro.app:8080": "mwenge",
		"stewardpro.app":             "",
		"www.stewardpro.app":         "",
		"api.stewardpro.app":         "",
		"localhost:8080":             "",
	}
	for host, want := range tests {
		assert.Equal(t, want, ExtractChurchSlug(host), host)
	}
}

type fakeResolver struct {
	churches    map[uuid.UUID]*entity.Church
	memberships map[uuid.UUID]*entity.ChurchMembership
}

func (f *fakeResolver) GetChurch(ctx context.Context, id uuid.UUID) (*entity.Church, error) {
	if ch, ok := f.churches[id]; ok {
		return ch, nil
	}
	return nil, apperror.NewNotFoundError("Church")
}

func (f *fakeResolver) ResolveSlug(ctx context.Context, slug string) (*entity.Church, error) {
	for _, ch := range f.churches {
		if ch.Slug == slug {
			return ch, nil
		}
	}
	return nil, nil
}

func (f *fakeResolver) Membership(ctx context.Context, churchID, userID uuid.UUID) (*entity.ChurchMembership, error) {
	m, ok := f.memberships[userID]
	if !ok || m.ChurchID != churchID {
		return nil, nil
	}
	return m, nil
}

func TestChurchContext(t *testing.T) {
	church := &entity.Church{Name: "Mwenge SDA", Slug: "mwenge"}
	church.ID = uuid.New()
	owner := uuid.New()
	member := uuid.New()
	stranger := uuid.New()
	resolver := &fakeResolver{
		churches: map[uuid.UUID]*entity.Church{church.ID: church},
		memberships: map[uuid.UUID]*entity.ChurchMembership{
			owner:  {ChurchID: church.ID, UserID: owner, Role: entity.ChurchUserOwner},
			member: {ChurchID: church.ID, UserID: member, Role: entity.ChurchUserMember},
		},
	}

	route := func(userID uuid.UUID, roles []string) *gin.Engine {
		r := gin.New()
		r.GET("/church", withUser(userID, roles, nil), ChurchContext(resolver), func(c *gin.Context) {
			tenant, _ := infraRepo.GetTenantID(c.Request.Context())
			c.JSON(http.StatusOK, gin.H{
				"church_id":   GetChurchID(c),
				"tenant_id":   tenant,
				"role":        c.GetString("church_role"),
				"permissions": c.MustGet("user_permissions"),
			})
		})
		return r
	}

	byHeader := func(id string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/church", nil)
		req.Header.Set(ChurchHeader, id)
		return req
	}

	t.Run("owner by header", func(t *testing.T) {
		w := serve(route(owner, nil), byHeader(church.ID.String()))
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, church.ID.String(), body["church_id"])
		assert.Equal(t, church.ID.String(), body["tenant_id"])
		assert.Equal(t, entity.ChurchUserOwner, body["role"])
		assert.Len(t, body["permissions"], len(entity.AllPermissions))
	})

	t.Run("member gets viewer permissions", func(t *testing.T) {
		w := serve(route(member, nil), byHeader(church.ID.String()))
		require.Equal(t, http.StatusOK, w.Code)
		perms := decodeBody(t, w)["permissions"].([]any)
		assert.Contains(t, perms, entity.PermReportView)
		assert.NotContains(t, perms, entity.PermFinanceManage)
	})

	t.Run("by subdomain", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/church", nil)
		req.Host = "mwenge.stewardpro.app"
		w := serve(route(owner, nil), req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, church.ID.String(), decodeBody(t, w)["church_id"])
	})

	t.Run("unknown subdomain", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/church", nil)
		req.Host = "other.stewardpro.app"
		assert.Equal(t, http.StatusNotFound, serve(route(owner, nil), req).Code)
	})

	t.Run("no church selected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/church", nil)
		req.Host = "localhost:8080"
		assert.Equal(t, http.StatusBadRequest, serve(route(owner, nil), req).Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, serve(route(owner, nil), byHeader("nope")).Code)
	})

	t.Run("unknown church", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, serve(route(owner, nil), byHeader(uuid.NewString())).Code)
	})

	t.Run("non member", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, serve(route(stranger, nil), byHeader(church.ID.String())).Code)
	})

	t.Run("super admin bypasses membership", func(t *testing.T) {
		w := serve(route(stranger, []string{entity.RoleSuperAdmin}), byHeader(church.ID.String()))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, entity.ChurchUserOwner, decodeBody(t, w)["role"])
	})
}

type fakeIdempotencyRepo struct {
	keys map[string]*entity.IdempotencyKey
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
}

func (f *fakeIdempotencyRepo) GetByKey(ctx context.Context, churchID uuid.UUID, key string) (*entity.IdempotencyKey, error) {
	return f.keys[churchID.String()+key], nil
}

func (f *fakeIdempotencyRepo) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	f.keys[ikey.TenantID.String()+ikey.Key] = ikey
	return nil
}

func (f *fakeIdempotencyRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func TestIdempotency(t *testing.T) {
	churchID := uuid.New()
	withChurch := func(c *gin.Context) {
		c.Set("church_id", churchID)
		c.Next()
	}

	setup := func(required bool, status int) (*gin.Engine, *int, *fakeIdempotencyRepo) {
		repo := newFakeIdempotencyRepo()
		calls := 0
		r := gin.New()
		mw := Idempotency(repo)
		if required {
			mw = IdempotencyRequired(repo)
		}
		r.POST("/payments", withUser(uuid.New(), nil, nil), withChurch, mw, func(c *gin.Context) {
			calls++
			c.JSON(status, gin.H{"call": calls})
		})
		return r, &calls, repo
	}

	post := func(key, body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		return req
	}

	t.Run("replays the stored response", func(t *testing.T) {
		r, calls, _ := setup(false, http.StatusCreated)

		first := serve(r, post("k1", `{"amount":"100"}`))
		second := serve(r, post("k1", `{"amount":"100"}`))

		assert.Equal(t, 1, *calls)
		assert.Equal(t, http.StatusCreated, second.Code)
		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	})

	t.Run("different body with the same key", func(t *testing.T) {
		r, calls, _ := setup(false, http.StatusCreated)

		serve(r, post("k1", `{"amount":"100"}`))
		w := serve(r, post("k1", `{"amount":"200"}`))

		assert.Equal(t, 1, *calls)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("without a key every call runs", func(t *testing.T) {
		r, calls, repo := setup(false, http.StatusCreated)

		serve(r, post("", `{}`))
		serve(r, post("", `{}`))

		assert.Equal(t, 2, *calls)
		assert.Empty(t, repo.keys)
	})

	t.Run("required key missing", func(t *testing.T) {
		r, calls, _ := setup(true, http.StatusCreated)

		w := serve(r, post("", `{}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, *calls)
	})

	t.Run("failures are not stored", func(t *testing.T) {
		r, calls, repo := setup(false, http.StatusUnprocessableEntity)

		serve(r, post("k1", `{}`))
		serve(r, post("k1", `{}`))

		assert.Equal(t, 2, *calls)
		assert.Empty(t, repo.keys)
	})
}

func TestChurchRateLimiter(t *testing.T) {
	rl := NewChurchRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	})
	defer rl.Close()

	busy, quiet := uuid.New(), uuid.New()
	r := gin.New()
	r.GET("/:church", func(c *gin.Context) {
		id, _ := uuid.Parse(c.Param("church"))
		c.Set("church_id", id)
		c.Next()
	}, rl.Middleware(), ok)

	get := func(id uuid.UUID) int {
		return serve(r, httptest.NewRequest(http.MethodGet, "/"+id.String(), nil)).Code
	}

	assert.Equal(t, http.StatusOK, get(busy))
	assert.Equal(t, http.StatusOK, get(busy))
	assert.Equal(t, http.StatusTooManyRequests, get(busy))
	assert.Equal(t, http.StatusOK, get(quiet))
}

type fakeFeatures struct {
	enabled map[enum.Feature]bool
}

func (f fakeFeatures) RequireFeature(ctx context.Context, feature enum.Feature) error {
	if f.enabled[feature] {
		return nil
	}
	return apperror.NewFeatureError("SMS is not included in your package")
}

func TestRequireFeature(t *testing.T) {
	checker := fakeFeatures{enabled: map[enum.Feature]bool{enum.FeatureSMS: true}}
	r := gin.New()
	r.GET("/sms", RequireFeature(checker, enum.FeatureSMS), ok)
	r.GET("/mobile-money", RequireFeature(checker, enum.FeatureMobileMoney), ok)

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/sms", nil)).Code)
	assert.Equal(t, http.StatusPaymentRequired, serve(r, httptest.NewRequest(http.MethodGet, "/mobile-money", nil)).Code)
}

func TestRequestLoggerAssignsRequestID(t *testing.T) {
	logger := zerolog.Nop()
	r := gin.New()
	r.Use(RequestLogger(&logger))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", serve(r, req).Body.String())
}

func TestRequestLoggerRecordsErrors(t *testing.T) {
	logger := zerolog.Nop()
	r := gin.New()
	r.Use(RequestLogger(&logger))
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("db down"))
		c.Status(http.StatusInternalServerError)
	})

	assert.Equal(t, http.StatusInternalServerError, serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil)).Code)
}

func TestCORSAllowsChurchSubdomains(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(&config.CORSConfig{AllowedOrigins: []string{"https://*.stewardpro.app"}}))
	r.GET("/api/v1/members", ok)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/members", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		req.Header.Set("Access-Control-Request-Headers", ChurchHeader)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := preflight("https://grace.stewardpro.app")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://grace.stewardpro.app", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight("https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	cfg := CORSConfig(&config.CORSConfig{AllowedHeaders: []string{"Authorization"}})
	assert.Equal(t, []string{"Authorization", IdempotencyKeyHeader, ChurchHeader}, cfg.AllowHeaders)
	assert.False(t, cfg.AllowWildcard)
}
