package httpgin

import (
	"github.com/courtdesk/courtdesk/internal/domain"
)

type SignupOTPRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName"`
}

type SignupRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" binding:"required"`
	OTP       string `json:"otp" binding:"required,len=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type PasswordResetOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

type CreateBookingRequest struct {
	// CourtID 0 auto-assigns the first free court.
	CourtID int    `json:"courtId"`
	Date    string `json:"date" binding:"required"`
	// Either a start/end slot-label pair or a startTime/endTime pair
	// must be given.
	StartSlot     string `json:"startSlot"`
	EndSlot       string `json:"endSlot"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CancellationDecisionRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

type GenerateSlotsRequest struct {
	OpeningTime string `json:"openingTime" binding:"required"`
	ClosingTime string `json:"closingTime" binding:"required"`
	SlotMinutes int    `json:"slotMinutes" binding:"required,gt=0"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is the outward view of an account. The stored record carries
// the password hash; this does not.
type UserResponse struct {
	ID        string      `json:"id"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Role      domain.Role `json:"role"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
	}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type CompleteBookingResponse struct {
	Booking domain.Booking `json:"booking"`
	Amount  float64        `json:"amount"`
}
