package ledger

import (
	"net/http"

	"gymflow/internal/api"
	"gymflow/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type owingQuery struct {
	api.Page
	ClubID *int `form:"club_id" binding:"omitempty,min=1"`
}

// ListOwing godoc
// @Summary      Accounts with an outstanding balance
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        club_id  query     int  false  "Filter by club"
// @Param        limit    query     int  false  "Page size"
// @Param        offset   query     int  false  "Page offset"
// @Success      200      {array}   ledger.Account
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /staff/accounts/owing [get]
func (h *Handler) ListOwing(c *gin.Context) {
	var q owingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		api.BindError(c, err)
		return
	}
	page := q.Page.Normalize()

	accounts, err := h.service.ListOwing(c.Request.Context(), q.ClubID, page.Limit, page.Offset)
	if err != nil {
		logger.Error("Failed to list owing accounts", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to list accounts"})
		return
	}

	c.JSON(http.StatusOK, accounts)
}
