package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"postboost-backend/internal/common/errors"
	"postboost-backend/internal/common/logger"
)

// RequestID assigns every request an id, propagated via header and context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// ErrorHandler recovers panics and renders errors attached to the gin context.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				requestID := GetRequestID(c)
				logger.Error().
					Str("request_id", requestID).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Interface("panic", recovered).
					Str("stack", string(debug.Stack())).
					Msg("Panic recovered")

				appErr := errors.New(errors.ErrCodeInternal, "Internal server error").
					WithRequestID(requestID).
					WithDetail("panic", fmt.Sprintf("%v", recovered))
				sendErrorResponse(c, appErr)
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			appErr, ok := errors.AsAppError(err)
			if !ok {
				appErr = errors.Wrap(err, errors.ErrCodeInternal, "Handler error occurred")
			}
			sendErrorResponse(c, appErr)
		}
	}
}

// ErrorResponse is the JSON envelope for failed requests.
type ErrorResponse struct {
	Success   bool             `json:"success"`
	Error     *errors.AppError `json:"error"`
	Timestamp time.Time        `json:"timestamp"`
	RequestID string           `json:"request_id"`
}

// AbortWithAppError renders an AppError and stops the handler chain.
func AbortWithAppError(c *gin.Context, appErr *errors.AppError) {
	sendErrorResponse(c, appErr)
	c.Abort()
}

func sendErrorResponse(c *gin.Context, appErr *errors.AppError) {
	requestID := GetRequestID(c)
	appErr.WithRequestID(requestID)

	logError(c, appErr)

	c.JSON(httpStatusCode(appErr), ErrorResponse{
		Success:   false,
		Error:     appErr,
		Timestamp: time.Now(),
		RequestID: requestID,
	})
}

func httpStatusCode(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeValidation, errors.ErrCodeBadRequest, errors.ErrCodeInvalidReaction,
		errors.ErrCodeInvalidAddress:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeAccountNotFound, errors.ErrCodePostNotFound,
		errors.ErrCodeTransactionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden, errors.ErrCodeAccountBanned:
		return http.StatusForbidden
	case errors.ErrCodeConflict, errors.ErrCodeAlreadySettled:
		return http.StatusConflict
	case errors.ErrCodeInsufficientBalance, errors.ErrCodeBelowMinimum:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeExternalAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func logError(c *gin.Context, appErr *errors.AppError) {
	event := logger.Error()
	switch {
	case appErr.IsValidation(), appErr.IsNotFound():
		event = logger.Info()
	case appErr.IsUnauthorized():
		event = logger.Warn()
	}

	event.
		Str("request_id", GetRequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Str("error_message", appErr.Message)
	if appErr.Cause != nil {
		event.AnErr("cause", appErr.Cause)
	}
	event.Msg("Request failed")
}

// GetRequestID returns the request id stored by RequestID.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}
