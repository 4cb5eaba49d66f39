package billing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) RunDailyBilling(ctx context.Context) (Report, error) {
	args := m.Called(ctx)
	return args.Get(0).(Report), args.Error(1)
}

func TestHandler_RunNow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		report Report
		err    error
		want   int
		body   string
	}{
		{"ok", Report{Due: 3, Charged: 2, Failed: 1, FailedAccounts: []int{9}}, nil, http.StatusOK, `"failed_accounts":[9]`},
		{"running", Report{}, ErrRunInProgress, http.StatusConflict, "already in progress"},
		{"failed", Report{}, errors.New("db down"), http.StatusInternalServerError, "Billing run failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(MockRunner)
			runner.On("RunDailyBilling", mock.Anything).Return(tt.report, tt.err)

			r := gin.New()
			r.POST("/staff/billing/run", NewHandler(runner).RunNow)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/staff/billing/run", nil))

			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}
