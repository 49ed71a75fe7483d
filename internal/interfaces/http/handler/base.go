package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/domain/connector"
	"github.com/wooconnect/backend/internal/interfaces/http/dto"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "X-Request-ID"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	if id := c.GetHeader(RequestIDKey); id != "" {
		return id
	}
	return ""
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	statusCode := dto.GetHTTPStatus(code)
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Conflict sends a 409 conflict response
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

// UnprocessableEntity sends a 422 unprocessable entity response
func (h *BaseHandler) UnprocessableEntity(c *gin.Context, code, message string) {
	h.Error(c, http.StatusUnprocessableEntity, code, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// TooManyRequests sends a 429 too many requests response
func (h *BaseHandler) TooManyRequests(c *gin.Context, message string) {
	h.Error(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, message)
}

// notFoundSentinels are domain errors that translate to a 404 response.
var notFoundSentinels = []error{
	connector.ErrBackendNotFound,
	connector.ErrBindingNotFound,
	commerce.ErrPartnerNotFound,
	commerce.ErrCategoryNotFound,
	commerce.ErrProductNotFound,
	commerce.ErrOrderNotFound,
	commerce.ErrPaymentModeNotFound,
	commerce.ErrCarrierNotFound,
}

// HandleError converts domain errors to HTTP responses. Sync failures
// surface as 422 so callers can tell a bad record apart from a broken
// server, and remote outages surface as 502.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	for _, sentinel := range notFoundSentinels {
		if errors.Is(err, sentinel) {
			h.ErrorWithCode(c, dto.ErrCodeNotFound, err.Error())
			return
		}
	}

	switch {
	case errors.Is(err, connector.ErrBackendDisabled):
		h.ErrorWithCode(c, dto.ErrCodeBackendDisabled, err.Error())
		return
	case errors.Is(err, connector.ErrUnknownEntityKind),
		errors.Is(err, connector.ErrInvalidBackend):
		h.ErrorWithCode(c, dto.ErrCodeBadRequest, err.Error())
		return
	case errors.Is(err, connector.ErrAmbiguousBinding):
		h.ErrorWithCode(c, dto.ErrCodeConflict, err.Error())
		return
	}

	var mappingErr *connector.MappingError
	if errors.As(err, &mappingErr) {
		h.ErrorWithCode(c, dto.ErrCodeMapping, mappingErr.Error())
		return
	}

	var configErr *connector.ConfigurationError
	if errors.As(err, &configErr) {
		h.ErrorWithCode(c, dto.ErrCodeConfiguration, configErr.Error())
		return
	}

	var remoteErr *connector.RemoteError
	if errors.As(err, &remoteErr) || connector.IsRetryable(err) {
		h.ErrorWithCode(c, dto.ErrCodeRemoteUnavailable, err.Error())
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}
