package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/SscSPs/assoc_backend/internal/core/domain"
	"github.com/SscSPs/assoc_backend/internal/utils"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	all := append(handlers, func(c *gin.Context) {
		identity, _ := GetIdentityFromContext(c)
		c.JSON(http.StatusOK, gin.H{"memberId": identity.MemberID})
	})
	r.GET("/protected", all...)
	return r
}

// members maps token subjects to what storage currently says about them.
var members = identityTable{
	"member-1":        {MemberID: "member-1", Role: domain.RoleMember, Status: domain.MemberActive},
	"admin-1":         {MemberID: "admin-1", Role: domain.RoleAdmin, Status: domain.MemberActive},
	"suspended-admin": {MemberID: "suspended-admin", Role: domain.RoleAdmin, Status: domain.MemberSuspended},
	"pending-1":       {MemberID: "pending-1", Role: domain.RoleMember, Status: domain.MemberPending},
}

type identityTable map[string]domain.Identity

func (t identityTable) ResolveIdentity(_ context.Context, memberID string) (domain.Identity, error) {
	if memberID == "broken" {
		return domain.Identity{}, errors.New("connection reset")
	}
	identity, ok := t[memberID]
	if !ok {
		return domain.Identity{}, apperrors.ErrNotFound
	}
	return identity, nil
}

func bearer(t *testing.T, memberID string) string {
	t.Helper()
	token, _, err := utils.GenerateJWT(memberID, testSecret, time.Hour, "test")
	require.NoError(t, err)
	return "Bearer " + token
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret, members))

	t.Run("missing header", func(t *testing.T) {
		w := doGet(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := doGet(r, "Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := utils.GenerateJWT("member-1", "other", time.Hour, "test")
		require.NoError(t, err)
		w := doGet(r, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired", func(t *testing.T) {
		token, _, err := utils.GenerateJWT("member-1", testSecret, -time.Minute, "test")
		require.NoError(t, err)
		w := doGet(r, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token has expired")
	})

	t.Run("deleted member", func(t *testing.T) {
		w := doGet(r, bearer(t, "deleted-1"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		w := doGet(r, bearer(t, "broken"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})

	t.Run("valid", func(t *testing.T) {
		w := doGet(r, bearer(t, "member-1"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "member-1")
	})
}

func TestRequireRole(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret, members), RequireRole(domain.RoleAdmin))

	assert.Equal(t, http.StatusOK, doGet(r, bearer(t, "admin-1")).Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, bearer(t, "member-1")).Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, bearer(t, "suspended-admin")).Code)
}

func TestRequireRole_SuspensionAppliesToIssuedTokens(t *testing.T) {
	table := identityTable{"admin-2": {MemberID: "admin-2", Role: domain.RoleAdmin, Status: domain.MemberActive}}
	r := newRouter(AuthMiddleware(testSecret, table), RequireRole(domain.RoleAdmin))
	token := bearer(t, "admin-2")

	assert.Equal(t, http.StatusOK, doGet(r, token).Code)

	table["admin-2"] = domain.Identity{MemberID: "admin-2", Role: domain.RoleAdmin, Status: domain.MemberSuspended}
	assert.Equal(t, http.StatusForbidden, doGet(r, token).Code)

	table["admin-2"] = domain.Identity{MemberID: "admin-2", Role: domain.RoleMember, Status: domain.MemberActive}
	assert.Equal(t, http.StatusForbidden, doGet(r, token).Code)
}

func TestRequireActive(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret, members), RequireActive())

	assert.Equal(t, http.StatusOK, doGet(r, bearer(t, "member-1")).Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, bearer(t, "pending-1")).Code)

	noAuth := newRouter(RequireActive())
	assert.Equal(t, http.StatusUnauthorized, doGet(noAuth, "").Code)
}

func TestRateLimit_MemoryStore(t *testing.T) {
	lim, err := NewLoginLimiter("2-M", nil)
	require.NoError(t, err)
	r := newRouter(RateLimit(lim))

	assert.Equal(t, http.StatusOK, doGet(r, "").Code)
	w := doGet(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "").Code)
}

func TestRateLimit_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	lim, err := NewLoginLimiter("1-H", client)
	require.NoError(t, err)
	r := newRouter(RateLimit(lim))

	assert.Equal(t, http.StatusOK, doGet(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "").Code)
	assert.NotEmpty(t, mr.Keys(), "limiter state should live in redis")
}

func TestNewLoginLimiter_InvalidRate(t *testing.T) {
	_, err := NewLoginLimiter("five-per-minute", nil)
	assert.Error(t, err)
}

func TestStructuredLoggingMiddleware_RequestID(t *testing.T) {
	r := gin.New()
	r.Use(StructuredLoggingMiddleware(slog.Default()))
	r.GET("/ping", func(c *gin.Context) {
		assert.NotNil(t, GetLoggerFromCtx(c.Request.Context()))
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
