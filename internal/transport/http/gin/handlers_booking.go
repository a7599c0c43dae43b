package httpgin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/courtdesk/courtdesk/internal/service"
	"github.com/courtdesk/courtdesk/internal/service/booking"
	"github.com/courtdesk/courtdesk/internal/service/query"
)

// @Summary  Availability grid for a date
// @Security BearerAuth
// @Param    date  query  string  true  "YYYY-MM-DD"
// @Success  200 {object} query.ScheduleGrid
// @Failure  400 {object} ErrorResponse
// @Router   /schedule [get]
func handleGetSchedule(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")
		grid, err := svcs.Query.Schedule(c.Request.Context(), date, svcs.CompletedBlocks())
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, grid, "private, max-age=15", true)
	}
}

// @Summary  Create booking
// @Security BearerAuth
// @Param    req body  CreateBookingRequest true "payload"
// @Success  201 {object} domain.Booking
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "slot already booked / no court available"
// @Router   /bookings [post]
func handleCreateBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		p, _ := principal(c)
		in := booking.BookInput{
			CourtID:       req.CourtID,
			Date:          req.Date,
			StartLabel:    req.StartSlot,
			EndLabel:      req.EndSlot,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
		}

		if !p.IsAdmin() {
			// Regular users book for themselves; the customer fields come
			// from their account, not the request body.
			u, err := svcs.Auth.GetUser(c.Request.Context(), p.UserID)
			if err != nil {
				respondErr(c, err)
				return
			}
			in.CustomerName = strings.TrimSpace(u.FirstName + " " + u.LastName)
			in.CustomerPhone = u.Phone
			in.UserEmail = u.Email
		}

		if req.StartTime != "" || req.EndTime != "" {
			created, err := svcs.Booking.BookByTimes(c.Request.Context(), in, req.StartTime, req.EndTime)
			if err != nil {
				respondErr(c, err)
				return
			}
			c.JSON(http.StatusCreated, created)
			return
		}

		if req.StartSlot == "" || req.EndSlot == "" {
			badRequest(c, "startSlot/endSlot or startTime/endTime required")
			return
		}

		created, err := svcs.Booking.Book(c.Request.Context(), in)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// @Summary  List own bookings
// @Security BearerAuth
// @Param    date    query  string  false "YYYY-MM-DD"
// @Param    status  query  string  false "booking status"
// @Success  200 {array} domain.Booking
// @Router   /my-bookings [get]
func handleListMyBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := principal(c)
		u, err := svcs.Auth.GetUser(c.Request.Context(), p.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}

		bookings, err := svcs.Query.ListBookings(c.Request.Context(), query.Filter{
			Date:      c.Query("date"),
			Status:    statusQuery(c),
			UserEmail: u.Email,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, bookings)
	}
}

// @Summary  Request cancellation of own booking
// @Security BearerAuth
// @Param    id  path  string  true  "Booking ID"
// @Success  200 {object} domain.Booking
// @Failure  403 {object} ErrorResponse "not your booking"
// @Failure  409 {object} ErrorResponse "illegal status transition"
// @Router   /bookings/{id}/cancellation-request [post]
func handleRequestCancellation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := principal(c)
		b, err := svcs.Booking.RequestCancellation(c.Request.Context(), c.Param("id"), p)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}
