package gymclass

import (
	"errors"
	"net/http"
	"strconv"

	"gymflow/internal/api"
	"gymflow/internal/auth"
	"gymflow/internal/club"
	"gymflow/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Create a class
// @Description  Staff-only: schedule a class at a location. The caller is the instructor unless staff_id is given.
// @Tags         staff,classes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body gymclass.CreateClassRequest true "Class payload"
// @Success      201 {object} gymclass.GymClass
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /staff/classes [post]
func (h *Handler) CreateClass(c *gin.Context) {
	staffID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	class, err := h.service.CreateClass(c.Request.Context(), staffID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrClassInvalid):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class data"})
		case errors.Is(err, club.ErrLocationNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Location not found"})
		default:
			logger.Error("Failed to create class", "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create class"})
		}
		return
	}

	c.JSON(http.StatusCreated, class)
}

// @Summary      Club timetable
// @Description  Upcoming classes of a club with remaining places and whether the caller holds a booking.
// @Tags         classes
// @Produce      json
// @Security     BearerAuth
// @Param        clubID path int true "Club ID"
// @Param        include_past query bool false "Include classes that already started"
// @Success      200 {array} gymclass.ClassWithAvailability
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clubs/{clubID}/classes [get]
func (h *Handler) ListClubClasses(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid club ID"})
		return
	}
	userID, _ := auth.GetUserID(c)
	includePast := c.Query("include_past") == "true"

	classes, err := h.service.ListClubClasses(c.Request.Context(), clubID, userID, includePast)
	if err != nil {
		if errors.Is(err, club.ErrClubNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Club not found"})
			return
		}
		logger.Error("Failed to list classes", "club_id", clubID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch classes"})
		return
	}

	c.JSON(http.StatusOK, classes)
}
