package membership

import (
	"errors"
	"net/http"
	"strconv"

	"gymflow/internal/api"
	"gymflow/internal/auth"
	"gymflow/internal/ledger"
	"gymflow/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListPlans godoc
// @Summary      List membership plans of a club
// @Tags         membership
// @Security     BearerAuth
// @Produce      json
// @Param        clubID  path      int  true  "Club ID"
// @Success      200     {array}   membership.Plan
// @Failure      400     {object}  gin.H
// @Failure      500     {object}  gin.H
// @Router       /clubs/{clubID}/plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	plans, err := h.service.ListPlans(c.Request.Context(), clubID)
	if err != nil {
		logger.Error("Failed to list plans", "club_id", clubID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch plans"})
		return
	}

	c.JSON(http.StatusOK, plans)
}

// CreatePlan godoc
// @Summary      Create a membership plan
// @Tags         staff
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreatePlanRequest  true  "Plan"
// @Success      201      {object}  membership.Plan
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /staff/plans [post]
func (h *Handler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	plan, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrClubNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Club not found"})
			return
		}
		logger.Error("Failed to create plan", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create plan"})
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// Join godoc
// @Summary      Join a membership plan
// @Description  Puts the member on a plan of their club. The first cycle is billed immediately.
// @Tags         membership
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      JoinRequest  true  "Plan to join"
// @Success      200      {object}  membership.Details
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /membership/join [post]
func (h *Handler) Join(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	details, err := h.service.Join(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPlanNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		case errors.Is(err, ErrPlanNotInClub), errors.Is(err, ErrNotMember):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ledger.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		default:
			logger.Error("Failed to join plan", "account_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join plan"})
		}
		return
	}

	c.JSON(http.StatusOK, details)
}

// GetMembership godoc
// @Summary      Current membership
// @Description  Plan, balance owed, next billing date and recent charges. A due cycle is billed before the response is built.
// @Tags         membership
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  membership.Details
// @Failure      401  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /membership [get]
func (h *Handler) GetMembership(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	details, err := h.service.GetDetails(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Failed to load membership", "account_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load membership"})
		return
	}

	c.JSON(http.StatusOK, details)
}
