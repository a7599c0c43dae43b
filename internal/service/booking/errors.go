package booking

import "errors"

var (
	ErrConflict          = errors.New("time slot is no longer available")
	ErrNoCourtAvailable  = errors.New("no court available for the selected slots")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrInvalidDate       = errors.New("invalid date")
	ErrNotOwner          = errors.New("booking belongs to another user")
	ErrNotRequested      = errors.New("booking has no pending cancellation request")
)
