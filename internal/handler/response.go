package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"billflow/internal/domain"
	"billflow/internal/logger"
	"billflow/internal/middleware"
	"billflow/internal/service"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *ListMeta   `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListMeta holds list metadata.
type ListMeta struct {
	Total int `json:"total"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondList sends a 200 success response carrying the item count.
func RespondList(c *gin.Context, data interface{}, total int) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &ListMeta{Total: total}})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, domain.ErrCustomerRequired):
		return http.StatusBadRequest, "CUSTOMER_REQUIRED", "an existing customer is required"
	case errors.Is(err, domain.ErrEmptyItems):
		return http.StatusBadRequest, "EMPTY_ITEMS", "an invoice needs at least one item"
	case errors.Is(err, domain.ErrStateRequired):
		return http.StatusBadRequest, "STATE_REQUIRED", "supplier and customer state are required to apply GST"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, "INVALID_QUANTITY", err.Error()
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict, "INSUFFICIENT_STOCK", err.Error()
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "INVALID_AMOUNT", "amount must be greater than zero"
	case errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest, "INVALID_DATE", err.Error()
	case errors.Is(err, domain.ErrInvalidImport):
		return http.StatusBadRequest, "INVALID_IMPORT", err.Error()
	case errors.Is(err, domain.ErrNoEmail):
		return http.StatusBadRequest, "NO_EMAIL", "customer has no email address"
	case errors.Is(err, domain.ErrNoPhone):
		return http.StatusBadRequest, "NO_PHONE", "customer has no phone number"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "an account with this email already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, service.ErrBackupDisabled):
		return http.StatusServiceUnavailable, "BACKUP_DISABLED", "backup storage is not configured"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// namespaceOf extracts the workspace namespace set by the auth middleware.
// Returns false if it is missing (error response already written).
func namespaceOf(c *gin.Context) (domain.Namespace, bool) {
	ns, err := middleware.GetNamespace(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing namespace context")
		return "", false
	}
	return ns, true
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		log := logger.WithRequestID(c.GetString(middleware.ContextKeyRequestID))
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("internal error")
	}
	RespondError(c, status, code, msg)
}
