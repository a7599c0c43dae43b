package httpgin

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/courtdesk/courtdesk/internal/domain"
	"github.com/courtdesk/courtdesk/internal/schedule"
	"github.com/courtdesk/courtdesk/internal/service"
	"github.com/courtdesk/courtdesk/internal/service/auth"
	"github.com/courtdesk/courtdesk/internal/service/booking"
	"github.com/courtdesk/courtdesk/internal/service/query"
	"github.com/courtdesk/courtdesk/internal/service/settings"
)

func NewRouter(
	svcs *service.Services,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup/otp", handleRequestSignupOTP(svcs))
		authGroup.POST("/signup", handleSignup(svcs))
		authGroup.POST("/login", handleLogin(svcs))
		authGroup.POST("/password-reset/otp", handleRequestPasswordResetOTP(svcs))
		authGroup.POST("/password-reset", handleResetPassword(svcs))
	}

	// Authenticated API
	api := r.Group("/", AuthRequired(svcs.Auth))
	{
		api.GET("/me", handleGetProfile(svcs))
		api.PUT("/me", handleUpdateProfile(svcs))

		api.GET("/schedule", handleGetSchedule(svcs))

		api.POST("/bookings", handleCreateBooking(svcs))
		api.GET("/my-bookings", handleListMyBookings(svcs))
		api.POST("/bookings/:id/cancellation-request", handleRequestCancellation(svcs))
	}

	// Admin API
	adminGroup := r.Group("/admin", AuthRequired(svcs.Auth), AdminRequired())
	{
		adminGroup.GET("/dashboard", handleGetDashboard(svcs))

		adminGroup.GET("/bookings", handleListBookings(svcs))
		adminGroup.GET("/bookings/:id", handleGetBooking(svcs))
		adminGroup.POST("/bookings/:id/arrive", handleMarkArrived(svcs))
		adminGroup.POST("/bookings/:id/complete", handleCompleteBooking(svcs))
		adminGroup.POST("/bookings/:id/status", handleUpdateStatus(svcs))
		adminGroup.POST("/cancellations/:id/decision", handleDecideCancellation(svcs))

		adminGroup.GET("/settings", handleGetSettings(svcs))
		adminGroup.PUT("/settings", handleUpdateSettings(svcs))
		adminGroup.POST("/settings/slots/generate", handleGenerateSlots(svcs))
	}

	return r
}

// --- Helpers ---

func parseIntQuery(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func statusQuery(c *gin.Context) domain.BookingStatus {
	return domain.BookingStatus(c.Query("status"))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// schedule
	case errors.Is(err, schedule.ErrInvalidRange),
		errors.Is(err, schedule.ErrUnknownSlot),
		errors.Is(err, schedule.ErrEmptySlots):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid slot range"})

	// auth service
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
	case errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
	case errors.Is(err, auth.ErrEmailExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "email already registered"})
	case errors.Is(err, auth.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
	case errors.Is(err, auth.ErrInvalidOTP):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid verification code"})
	case errors.Is(err, auth.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "verification code expired"})
	case errors.Is(err, auth.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "password too short"})

	// booking service
	case errors.Is(err, booking.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "slot already booked"})
	case errors.Is(err, booking.ErrNoCourtAvailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "no court available"})
	case errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, query.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
	case errors.Is(err, booking.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown status"})
	case errors.Is(err, booking.ErrIllegalTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "illegal status transition"})
	case errors.Is(err, booking.ErrInvalidDate),
		errors.Is(err, query.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date, want YYYY-MM-DD"})
	case errors.Is(err, booking.ErrNotOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not your booking"})
	case errors.Is(err, booking.ErrNotRequested):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "no pending cancellation request"})

	// settings service
	case errors.Is(err, settings.ErrNoCourts),
		errors.Is(err, settings.ErrNoSlots),
		errors.Is(err, settings.ErrInvalidSlot),
		errors.Is(err, settings.ErrDuplicateSlot),
		errors.Is(err, settings.ErrDuplicateCourt),
		errors.Is(err, settings.ErrNegativeRate):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
