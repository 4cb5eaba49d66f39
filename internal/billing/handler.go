package billing

import (
	"context"
	"errors"
	"net/http"

	"gymflow/internal/api"
	"gymflow/internal/logger"

	"github.com/gin-gonic/gin"
)

type Runner interface {
	RunDailyBilling(ctx context.Context) (Report, error)
}

type Handler struct {
	runner Runner
}

func NewHandler(runner Runner) *Handler {
	return &Handler{runner: runner}
}

// @Summary      Run billing now
// @Description  Staff-only: run the daily billing job immediately. Accounts already charged today are skipped.
// @Tags         staff,billing
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} billing.Report
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /staff/billing/run [post]
func (h *Handler) RunNow(c *gin.Context) {
	// the run outlives a client that hangs up
	ctx := context.WithoutCancel(c.Request.Context())

	report, err := h.runner.RunDailyBilling(ctx)
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "A billing run is already in progress"})
			return
		}
		logger.Error("Manual billing run failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Billing run failed"})
		return
	}

	c.JSON(http.StatusOK, report)
}
