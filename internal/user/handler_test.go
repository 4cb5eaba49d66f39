package user

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gymflow/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockService) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockService) GetByID(ctx context.Context, userID int) (*User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockService) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*User), args.Error(2)
}

func (m *MockService) CreateStaff(ctx context.Context, req CreateStaffRequest) (*User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockService) ListMembers(ctx context.Context, clubID *int, limit, offset int) ([]User, error) {
	args := m.Called(ctx, clubID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func newTestRouter(h *Handler, userID int, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	identity := func(c *gin.Context) {
		if userID != 0 {
			auth.SetIdentity(c, auth.Identity{UserID: userID, Role: role})
		}
		c.Next()
	}
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.RefreshToken)
	r.GET("/me", identity, h.GetMe)
	r.POST("/staff/users", identity, h.CreateStaff)
	r.GET("/staff/members", identity, h.ListMembers)
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		setupMock  func(*MockService)
		wantStatus int
	}{
		{
			name: "created",
			body: RegisterRequest{Name: "Alice", Email: "a@example.com", Password: "password123", ClubID: 1},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).Return(&User{ID: 1, Email: "a@example.com", Role: auth.RoleMember}, "access", "refresh", nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid body",
			body:       map[string]string{"email": "not-an-email"},
			setupMock:  func(m *MockService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			body: RegisterRequest{Name: "Alice", Email: "a@example.com", Password: "password123", ClubID: 1},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).Return(nil, "", "", ErrEmailExists)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "unknown club",
			body: RegisterRequest{Name: "Alice", Email: "a@example.com", Password: "password123", ClubID: 9},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).Return(nil, "", "", ErrClubNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			r := newTestRouter(NewHandler(svc), 0, "")

			w := doJSON(r, http.MethodPost, "/auth/register", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_RegisterHidesPasswordHash(t *testing.T) {
	svc := new(MockService)
	svc.On("Register", mock.Anything, mock.Anything).
		Return(&User{ID: 1, Email: "a@example.com", PasswordHash: "secret-hash"}, "access", "refresh", nil)
	r := newTestRouter(NewHandler(svc), 0, "")

	w := doJSON(r, http.MethodPost, "/auth/register", RegisterRequest{Name: "Alice", Email: "a@example.com", Password: "password123", ClubID: 1})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "secret-hash")
}

func TestHandler_Login(t *testing.T) {
	svc := new(MockService)
	svc.On("Login", mock.Anything, LoginRequest{Email: "a@example.com", Password: "bad"}).Return(nil, "", "", ErrInvalidCredentials)
	svc.On("Login", mock.Anything, LoginRequest{Email: "b@example.com", Password: "bad"}).Return(nil, "", "", errors.New("db down"))
	r := newTestRouter(NewHandler(svc), 0, "")

	w := doJSON(r, http.MethodPost, "/auth/login", LoginRequest{Email: "a@example.com", Password: "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/login", LoginRequest{Email: "b@example.com", Password: "bad"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandler_GetMe(t *testing.T) {
	svc := new(MockService)
	svc.On("GetByID", mock.Anything, 4).Return(&User{ID: 4, Name: "Dana"}, nil)

	w := doJSON(newTestRouter(NewHandler(svc), 4, auth.RoleMember), http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Dana", got.Name)

	w = doJSON(newTestRouter(NewHandler(svc), 0, ""), http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_RefreshToken(t *testing.T) {
	svc := new(MockService)
	svc.On("RefreshToken", mock.Anything, "good").Return("new-access", &User{ID: 2}, nil)
	svc.On("RefreshToken", mock.Anything, "bad").Return("", nil, auth.ErrInvalidToken)
	svc.On("RefreshToken", mock.Anything, "db-down").Return("", nil, errors.New("connection refused"))
	r := newTestRouter(NewHandler(svc), 0, "")

	w := doJSON(r, http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: "good"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new-access")

	w = doJSON(r, http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: "db-down"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/refresh", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ListMembers(t *testing.T) {
	svc := new(MockService)
	svc.On("ListMembers", mock.Anything, intPtr(3), 10, 20).Return([]User{{ID: 1}, {ID: 2}}, nil)
	r := newTestRouter(NewHandler(svc), 1, auth.RoleStaff)

	w := doJSON(r, http.MethodGet, "/staff/members?club_id=3&limit=10&offset=20", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got []User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)

	w = doJSON(r, http.MethodGet, "/staff/members?limit=0&offset=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_CreateStaff(t *testing.T) {
	svc := new(MockService)
	svc.On("CreateStaff", mock.Anything, mock.Anything).Return(&User{ID: 8, Role: auth.RoleStaff}, nil)
	r := newTestRouter(NewHandler(svc), 1, auth.RoleStaff)

	w := doJSON(r, http.MethodPost, "/staff/users", CreateStaffRequest{Name: "Coach", Email: "c@example.com", Password: "password123"})
	assert.Equal(t, http.StatusCreated, w.Code)
}
