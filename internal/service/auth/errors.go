package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown user and wrong password so
	// login failures do not leak which addresses exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidOTP         = errors.New("invalid verification code")
	ErrOTPExpired         = errors.New("verification code expired")
	ErrInvalidToken       = errors.New("invalid token")
	ErrWeakPassword       = errors.New("password too short")
)
