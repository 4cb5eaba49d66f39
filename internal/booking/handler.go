package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymflow/internal/api"
	"gymflow/internal/auth"
	"gymflow/internal/gymclass"
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

// statusFor maps a booking result to its HTTP status.
func statusFor(r Result) int {
	switch r {
	case ResultSuccess:
		return http.StatusCreated
	case ResultNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// @Summary      Book a class
// @Description  Member-only: reserve a place in a class. Capacity, duplicate, weekly limit and start time are checked atomically.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        classID path int true "Class ID"
// @Success      201 {object} booking.BookClassResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /classes/{classID}/book [post]
func (h *Handler) BookClass(c *gin.Context) {
	memberID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	outcome, err := h.service.BookClass(c.Request.Context(), classID, memberID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to book class"})
		return
	}

	if outcome.Result != ResultSuccess {
		c.JSON(statusFor(outcome.Result), api.ErrorResponse{Error: outcome.Result.Message()})
		return
	}

	c.JSON(http.StatusCreated, BookClassResponse{
		Message: outcome.Result.Message(),
		Booking: outcome.Booking,
	})
}

// @Summary      Class detail
// @Description  A class with availability and whether the caller can book it right now.
// @Tags         classes
// @Produce      json
// @Security     BearerAuth
// @Param        classID path int true "Class ID"
// @Success      200 {object} booking.ClassDetail
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /classes/{classID} [get]
func (h *Handler) GetClassDetail(c *gin.Context) {
	memberID, _ := auth.GetUserID(c)

	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	detail, err := h.service.GetClassDetail(c.Request.Context(), classID, memberID)
	if err != nil {
		if errors.Is(err, gymclass.ErrClassNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Class not found"})
			return
		}
		logger.Error("Failed to load class", "class_id", classID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load class"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// @Summary      Cancel a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} booking.CancelBookingResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	memberID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), memberID, bookingID); err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
		case errors.Is(err, ErrNotBookingOwner):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "You can only cancel your own bookings"})
		case errors.Is(err, ErrBookingNotActive):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Booking is already cancelled"})
		case errors.Is(err, ErrClassStarted):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Class has already started"})
		default:
			logger.Error("Failed to cancel booking", "booking_id", bookingID, "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to cancel booking"})
		}
		return
	}

	c.JSON(http.StatusOK, CancelBookingResponse{Message: "Booking cancelled successfully"})
}

// @Summary      My bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} booking.BookingWithDetails
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	memberID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookings, err := h.service.GetMemberBookings(c.Request.Context(), memberID)
	if err != nil {
		logger.Error("Failed to list bookings", "member_id", memberID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// @Summary      Bookings for a class
// @Tags         staff,bookings
// @Produce      json
// @Security     BearerAuth
// @Param        classID path int true "Class ID"
// @Success      200 {array} booking.BookingWithDetails
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /staff/classes/{classID}/bookings [get]
func (h *Handler) ListBookingsByClass(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	bookings, err := h.service.GetBookingsByClass(c.Request.Context(), classID)
	if err != nil {
		if errors.Is(err, gymclass.ErrClassNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Class not found"})
			return
		}
		logger.Error("Failed to list class bookings", "class_id", classID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// @Summary      Bookings for a club
// @Tags         staff,bookings
// @Produce      json
// @Security     BearerAuth
// @Param        clubID path int true "Club ID"
// @Success      200 {array} booking.BookingWithDetails
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /staff/clubs/{clubID}/bookings [get]
func (h *Handler) ListBookingsByClub(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid club ID"})
		return
	}

	bookings, err := h.service.GetBookingsByClub(c.Request.Context(), clubID)
	if err != nil {
		logger.Error("Failed to list club bookings", "club_id", clubID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

type analyticsQuery struct {
	GroupBy string `form:"group_by" binding:"required,oneof=day club"`
	From    string `form:"from" binding:"required"`
	To      string `form:"to" binding:"required"`
}

// @Summary      Booking analytics
// @Description  Bookings created and cancelled between from and to, grouped by day or club.
// @Tags         staff,analytics
// @Produce      json
// @Security     BearerAuth
// @Param        group_by query string true "day or club"
// @Param        from query string true "RFC3339 start"
// @Param        to query string true "RFC3339 end"
// @Success      200 {object} booking.Analytics
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /staff/analytics/bookings [get]
func (h *Handler) GetBookingAnalytics(c *gin.Context) {
	var q analyticsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		api.BindError(c, err)
		return
	}

	from, err := time.Parse(time.RFC3339, q.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "from must be RFC3339"})
		return
	}
	to, err := time.Parse(time.RFC3339, q.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "to must be RFC3339"})
		return
	}

	out, err := h.service.GetBookingAnalytics(c.Request.Context(), q.GroupBy, from, to)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) || errors.Is(err, ErrInvalidGroupBy) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to build booking analytics", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch analytics"})
		return
	}

	c.JSON(http.StatusOK, out)
}
