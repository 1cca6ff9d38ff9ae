package handler

import (
	"errors"
	"net/http"

	"github.com/Payphone-Digital/helpdesk/internal/constants"
	"github.com/Payphone-Digital/helpdesk/internal/dto"
	apperrors "github.com/Payphone-Digital/helpdesk/internal/errors"
	"github.com/Payphone-Digital/helpdesk/internal/middleware"
	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/Payphone-Digital/helpdesk/internal/service"
	ctxutil "github.com/Payphone-Digital/helpdesk/pkg/context"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	otpService  *service.OtpService
	authService *service.AuthService
	session     *middleware.SessionMiddleware
}

func NewAuthHandler(otpService *service.OtpService, authService *service.AuthService, session *middleware.SessionMiddleware) *AuthHandler {
	return &AuthHandler{
		otpService:  otpService,
		authService: authService,
		session:     session,
	}
}

// RequestOtp emails a signup code. The code is never part of the response.
func (h *AuthHandler) RequestOtp(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RequestOtp")

	var req dto.OtpRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	issued, err := h.otpService.RequestOtp(ctx, req.Email, model.OtpAction(req.Action))
	if err != nil {
		logger.WarnWithContext(ctx, "OTP request failed").
			String("action", req.Action).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OtpResponse{
		Message:   constants.MsgOtpSent,
		ExpiresAt: issued.ExpiresAt,
	})
}

// Signup completes an OTP signup and starts a session.
func (h *AuthHandler) Signup(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Signup")

	var req dto.SignupRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	result, err := h.authService.CompleteSignup(ctx, service.SignupProfile{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Password:   req.Password,
		Department: req.Department,
	}, req.Otp)
	if err != nil {
		logger.WarnWithContext(ctx, "Signup failed").Err(err).Log()
		respondError(c, err)
		return
	}

	h.session.SetCookie(c, result.Token)
	c.JSON(http.StatusCreated, authResponse(constants.MsgSignupSuccess, result))
}

// Login answers unknown emails and wrong passwords identically.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	result, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) || errors.Is(err, apperrors.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, constants.BuildCodedErrorResponse(
				apperrors.ErrInvalidCredentials.Code, constants.MsgLoginFailed, nil))
			return
		}
		logger.WarnWithContext(ctx, "Login failed").Err(err).Log()
		respondError(c, err)
		return
	}

	h.session.SetCookie(c, result.Token)
	c.JSON(http.StatusOK, authResponse(constants.MsgLoginSuccess, result))
}

// Logout clears the session cookie. It needs no session and is idempotent.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	h.session.ClearCookie(c)
	logger.InfoWithContext(ctx, "Session cookie cleared").Log()

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgLogoutSuccess))
}

// Me returns the current identity.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     identity.Response(),
		"redirect": identity.Role.HomePath(),
	})
}

func authResponse(message string, result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Message:   message,
		User:      result.User,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Redirect:  result.Redirect,
	}
}
