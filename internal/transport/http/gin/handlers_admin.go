package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtdesk/courtdesk/internal/domain"
	"github.com/courtdesk/courtdesk/internal/service"
	"github.com/courtdesk/courtdesk/internal/service/query"
	"github.com/courtdesk/courtdesk/internal/service/settings"
)

// @Summary  Front-desk dashboard for a date
// @Security BearerAuth
// @Param    date  query  string  true  "YYYY-MM-DD"
// @Success  200 {object} query.Dashboard
// @Failure  400 {object} ErrorResponse
// @Router   /admin/dashboard [get]
func handleGetDashboard(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svcs.Query.GetDashboard(c.Request.Context(), c.Query("date"))
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, d, "private, max-age=15", true)
	}
}

// @Summary  List bookings
// @Security BearerAuth
// @Param    date     query  string  false "YYYY-MM-DD"
// @Param    courtId  query  int     false "court id"
// @Param    status   query  string  false "booking status"
// @Param    email    query  string  false "customer account email"
// @Success  200 {array} domain.Booking
// @Router   /admin/bookings [get]
func handleListBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := query.Filter{
			Date:      c.Query("date"),
			CourtID:   parseIntQuery(c.Query("courtId"), 0),
			Status:    statusQuery(c),
			UserEmail: c.Query("email"),
		}
		bookings, err := svcs.Query.ListBookings(c.Request.Context(), f)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, bookings)
	}
}

// @Summary  Get booking with court name and cost
// @Security BearerAuth
// @Param    id  path  string  true  "Booking ID"
// @Success  200 {object} query.BookingDetail
// @Failure  404 {object} ErrorResponse
// @Router   /admin/bookings/{id} [get]
func handleGetBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := svcs.Query.GetBooking(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

// @Summary  Mark customer arrived
// @Security BearerAuth
// @Param    id  path  string  true  "Booking ID"
// @Success  200 {object} domain.Booking
// @Failure  409 {object} ErrorResponse "illegal status transition"
// @Router   /admin/bookings/{id}/arrive [post]
func handleMarkArrived(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := svcs.Booking.UpdateStatus(c.Request.Context(), c.Param("id"), domain.StatusArrived)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

// @Summary  Complete booking and charge
// @Security BearerAuth
// @Param    id  path  string  true  "Booking ID"
// @Success  200 {object} CompleteBookingResponse
// @Failure  409 {object} ErrorResponse "illegal status transition"
// @Router   /admin/bookings/{id}/complete [post]
func handleCompleteBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, amount, err := svcs.Booking.Complete(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, CompleteBookingResponse{Booking: b, Amount: amount})
	}
}

// @Summary  Set booking status
// @Security BearerAuth
// @Param    id   path  string  true  "Booking ID"
// @Param    req  body  UpdateStatusRequest true "payload"
// @Success  200 {object} domain.Booking
// @Failure  400 {object} ErrorResponse "unknown status"
// @Failure  409 {object} ErrorResponse "illegal status transition"
// @Router   /admin/bookings/{id}/status [post]
func handleUpdateStatus(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		b, err := svcs.Booking.UpdateStatus(
			c.Request.Context(),
			c.Param("id"),
			domain.BookingStatus(req.Status),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

// @Summary  Approve or reject a cancellation request
// @Security BearerAuth
// @Param    id   path  string  true  "Booking ID"
// @Param    req  body  CancellationDecisionRequest true "payload"
// @Success  200 {object} domain.Booking
// @Failure  409 {object} ErrorResponse "no pending cancellation request"
// @Router   /admin/cancellations/{id}/decision [post]
func handleDecideCancellation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CancellationDecisionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		b, err := svcs.Booking.DecideCancellation(c.Request.Context(), c.Param("id"), *req.Approve)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

// @Summary  Get facility settings
// @Security BearerAuth
// @Success  200 {object} settings.Settings
// @Router   /admin/settings [get]
func handleGetSettings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := svcs.Settings.Get(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// @Summary  Replace facility settings
// @Security BearerAuth
// @Param    req body  settings.Settings true "payload"
// @Success  200 {object} settings.Settings
// @Failure  400 {object} ErrorResponse
// @Router   /admin/settings [put]
func handleUpdateSettings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req settings.Settings
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		s, err := svcs.Settings.Update(c.Request.Context(), req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// @Summary  Regenerate slot sequence
// @Security BearerAuth
// @Param    req body  GenerateSlotsRequest true "payload"
// @Success  200 {object} map[string][]string
// @Failure  400 {object} ErrorResponse
// @Router   /admin/settings/slots/generate [post]
func handleGenerateSlots(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateSlotsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		slots, err := svcs.Settings.RegenerateSlots(
			c.Request.Context(),
			req.OpeningTime,
			req.ClosingTime,
			req.SlotMinutes,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"timeSlots": slots})
	}
}
