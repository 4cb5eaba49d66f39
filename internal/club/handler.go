package club

import (
	"errors"
	"net/http"
	"strconv"

	"gymflow/internal/api"
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

// @Summary      Create a club
// @Description  Staff-only: create a new club
// @Tags         staff,clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body club.CreateClubRequest true "Club payload"
// @Success      201 {object} club.Club
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /staff/clubs [post]
func (h *Handler) CreateClub(c *gin.Context) {
	var req CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	club, err := h.service.CreateClub(c.Request.Context(), req)
	if err != nil {
		logger.Error("Failed to create club", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create club"})
		return
	}

	c.JSON(http.StatusCreated, club)
}

// @Summary      List clubs
// @Tags         clubs
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} club.Club
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clubs [get]
func (h *Handler) ListClubs(c *gin.Context) {
	clubs, err := h.service.GetAllClubs(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list clubs", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch clubs"})
		return
	}

	c.JSON(http.StatusOK, clubs)
}

// @Summary      Create a location
// @Description  Staff-only: add a studio or room to a club
// @Tags         staff,clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        clubID path int true "Club ID"
// @Param        request body club.CreateLocationRequest true "Location payload"
// @Success      201 {object} club.Location
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /staff/clubs/{clubID}/locations [post]
func (h *Handler) CreateLocation(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid club ID"})
		return
	}

	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	loc, err := h.service.CreateLocation(c.Request.Context(), clubID, req)
	if err != nil {
		if errors.Is(err, ErrClubNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Club not found"})
			return
		}
		logger.Error("Failed to create location", "club_id", clubID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create location"})
		return
	}

	c.JSON(http.StatusCreated, loc)
}

// @Summary      List locations of a club
// @Tags         clubs
// @Produce      json
// @Security     BearerAuth
// @Param        clubID path int true "Club ID"
// @Success      200 {array} club.Location
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clubs/{clubID}/locations [get]
func (h *Handler) ListLocations(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid club ID"})
		return
	}

	locations, err := h.service.GetLocations(c.Request.Context(), clubID)
	if err != nil {
		if errors.Is(err, ErrClubNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Club not found"})
			return
		}
		logger.Error("Failed to list locations", "club_id", clubID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch locations"})
		return
	}

	c.JSON(http.StatusOK, locations)
}
