package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtdesk/courtdesk/internal/service"
	"github.com/courtdesk/courtdesk/internal/service/auth"
)

// @Summary  Request signup verification code
// @Param    req body  SignupOTPRequest true "payload"
// @Success  200 {object} MessageResponse
// @Failure  409 {object} ErrorResponse "email already registered"
// @Router   /auth/signup/otp [post]
func handleRequestSignupOTP(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Auth.RequestSignupOTP(
			c.Request.Context(),
			req.Email,
			req.FirstName,
		); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, MessageResponse{Message: "verification code sent"})
	}
}

// @Summary  Sign up with verification code
// @Param    req body  SignupRequest true "payload"
// @Success  201 {object} UserResponse
// @Failure  400 {object} ErrorResponse "bad code or weak password"
// @Failure  409 {object} ErrorResponse "email already registered"
// @Router   /auth/signup [post]
func handleSignup(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		u, err := svcs.Auth.Signup(c.Request.Context(), auth.SignupInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
			Password:  req.Password,
			OTP:       req.OTP,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toUserResponse(u))
	}
}

// @Summary  Log in
// @Param    req body  LoginRequest true "payload"
// @Success  200 {object} LoginResponse
// @Failure  401 {object} ErrorResponse
// @Router   /auth/login [post]
func handleLogin(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		u, token, err := svcs.Auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, LoginResponse{
			Token: token,
			User:  toUserResponse(u),
		})
	}
}

// @Summary  Request password reset code
// @Param    req body  PasswordResetOTPRequest true "payload"
// @Success  200 {object} MessageResponse
// @Failure  404 {object} ErrorResponse
// @Router   /auth/password-reset/otp [post]
func handleRequestPasswordResetOTP(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PasswordResetOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Auth.RequestPasswordResetOTP(
			c.Request.Context(),
			req.Email,
		); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, MessageResponse{Message: "reset code sent"})
	}
}

// @Summary  Reset password with code
// @Param    req body  PasswordResetRequest true "payload"
// @Success  200 {object} MessageResponse
// @Failure  400 {object} ErrorResponse
// @Router   /auth/password-reset [post]
func handleResetPassword(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PasswordResetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Auth.ResetPassword(
			c.Request.Context(),
			req.Email,
			req.OTP,
			req.NewPassword,
		); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
	}
}

// @Summary  Get own profile
// @Security BearerAuth
// @Success  200 {object} UserResponse
// @Router   /me [get]
func handleGetProfile(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := principal(c)
		u, err := svcs.Auth.GetUser(c.Request.Context(), p.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserResponse(u))
	}
}

// @Summary  Update own profile
// @Security BearerAuth
// @Param    req body  UpdateProfileRequest true "payload"
// @Success  200 {object} UserResponse
// @Router   /me [put]
func handleUpdateProfile(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		p, _ := principal(c)
		u, err := svcs.Auth.UpdateProfile(c.Request.Context(), p.UserID, auth.ProfileUpdate{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserResponse(u))
	}
}
