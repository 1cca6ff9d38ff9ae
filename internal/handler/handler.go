package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/Payphone-Digital/helpdesk/internal/constants"
	apperrors "github.com/Payphone-Digital/helpdesk/internal/errors"
	"github.com/Payphone-Digital/helpdesk/internal/middleware"
	"github.com/Payphone-Digital/helpdesk/internal/service"
	"github.com/Payphone-Digital/helpdesk/pkg/logger"
	"github.com/Payphone-Digital/helpdesk/pkg/validation"
	"github.com/gin-gonic/gin"
)

const msgInvalidRequest = "Invalid request format"

// bindJSON binds and validates the body into req, answering 400 on failure.
func bindJSON(c *gin.Context, ctx context.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		details := validation.Messages(err)
		if details == nil {
			details = []string{"request body must be valid JSON"}
		}
		logger.WarnWithContext(ctx, "Invalid request body").
			Any("validation_errors", details).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildCodedErrorResponse(apperrors.ErrInvalidInput.Code, msgInvalidRequest, details))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, ctx context.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		details := validation.Messages(err)
		logger.WarnWithContext(ctx, "Invalid query parameters").
			Any("validation_errors", details).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildCodedErrorResponse(apperrors.ErrInvalidInput.Code, msgInvalidRequest, details))
		return false
	}
	return true
}

// respondError maps err to its status and answers with code and message.
// Non-domain errors never leak their text.
func respondError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	code := apperrors.ErrInternal.Code
	if domainErr := apperrors.GetDomainError(err); domainErr != nil {
		code = domainErr.Code
	}

	var cooldown *apperrors.CooldownError
	if errors.As(err, &cooldown) && cooldown.RetryAfter > 0 {
		seconds := int(math.Ceil(cooldown.RetryAfter.Seconds()))
		c.Header(constants.HeaderRetryAfter, strconv.Itoa(seconds))
	}

	c.JSON(status, constants.BuildCodedErrorResponse(code, apperrors.GetErrorMessage(err), nil))
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, constants.BuildCodedErrorResponse(apperrors.ErrInvalidInput.Code, msgInvalidRequest, []string{name + " must be a positive number"}))
		return 0, false
	}
	return uint(id), true
}

// requireIdentity returns the caller set by the session middleware.
func requireIdentity(c *gin.Context) (*service.Identity, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return nil, false
	}
	return identity, true
}
