package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedRouter(iss *Issuer, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(iss))
	if len(roles) > 0 {
		r.Use(RequireRole(roles...))
	}
	r.GET("/whoami", func(c *gin.Context) {
		id, _ := CurrentIdentity(c)
		c.JSON(http.StatusOK, id)
	})
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	iss := newTestIssuer(t)
	access, refresh, err := iss.Pair(ana)
	require.NoError(t, err)

	expiredIss := newTestIssuer(t)
	expiredIss.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiredIss.Access(ana)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		want    int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization header required"},
		{"wrong scheme", "Token " + access, http.StatusUnauthorized, "Invalid authorization header format"},
		{"no token", "Bearer ", http.StatusUnauthorized, "Token is empty"},
		{"garbage", "Bearer abc", http.StatusUnauthorized, "Invalid or malformed token"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "Token expired"},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized, "Invalid or malformed token"},
		{"ok", "Bearer " + access, http.StatusOK, `"uid":7`},
		{"lowercase scheme", "bearer " + access, http.StatusOK, `"role":"MEMBER"`},
	}

	r := newGuardedRouter(iss)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.header)
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
		})
	}
}

func TestMiddleware_RefreshTokenWithSharedKey(t *testing.T) {
	iss, err := NewIssuer("shared", "", 0, 0)
	require.NoError(t, err)
	_, refresh, err := iss.Pair(ana)
	require.NoError(t, err)

	w := get(newGuardedRouter(iss), "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Access token required")
}

func TestRequireRole(t *testing.T) {
	iss := newTestIssuer(t)
	member, err := iss.Access(ana)
	require.NoError(t, err)
	staff, err := iss.Access(Identity{UserID: 1, Email: "coach@example.com", Role: RoleStaff})
	require.NoError(t, err)

	staffOnly := newGuardedRouter(iss, RoleStaff)
	assert.Equal(t, http.StatusOK, get(staffOnly, "Bearer "+staff).Code)
	assert.Equal(t, http.StatusForbidden, get(staffOnly, "Bearer "+member).Code)

	either := newGuardedRouter(iss, RoleMember, RoleStaff)
	assert.Equal(t, http.StatusOK, get(either, "Bearer "+staff).Code)
	assert.Equal(t, http.StatusOK, get(either, "Bearer "+member).Code)
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RequireRole(RoleStaff)(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

func TestIdentityHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	assert.False(t, ok)
	_, ok = GetUserRole(c)
	assert.False(t, ok)

	SetIdentity(c, Identity{UserID: 3, Role: RoleStaff})
	id, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, 3, id)
	role, ok := GetUserRole(c)
	assert.True(t, ok)
	assert.Equal(t, RoleStaff, role)
}
