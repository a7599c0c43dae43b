package settings

import "errors"

var (
	ErrNoCourts       = errors.New("at least one court is required")
	ErrNoSlots        = errors.New("at least one time slot is required")
	ErrInvalidSlot    = errors.New("invalid time slot label")
	ErrDuplicateSlot  = errors.New("duplicate time slot")
	ErrDuplicateCourt = errors.New("duplicate court id")
	ErrNegativeRate   = errors.New("hourly rate must not be negative")
)
