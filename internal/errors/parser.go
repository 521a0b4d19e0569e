package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/storage"
	"gorm.io/gorm"
)

// ErrorInfo is an error translated for clients.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// ParseError maps a service or infrastructure error to a status, code and message. Internal
// details are never exposed; unknown errors become a generic message naming the operation.
func ParseError(err error, operation string) ErrorInfo {
	switch {
	case err == nil:
		return ErrorInfo{http.StatusInternalServerError, InternalServerError, defaultMessage(operation)}

	case errors.Is(err, service.ErrProductNotFound):
		return ErrorInfo{http.StatusNotFound, ProductNotFound, "Product not found"}
	case errors.Is(err, service.ErrCollectionNotFound):
		return ErrorInfo{http.StatusNotFound, CollectionNotFound, "Collection not found"}

	case errors.Is(err, service.ErrInvalidQuantity):
		return ErrorInfo{http.StatusBadRequest, CartInvalidQuantity, "Quantity must be at least 1"}
	case errors.Is(err, service.ErrInvalidSession):
		return ErrorInfo{http.StatusBadRequest, CartSessionRequired, "A cart session is required"}

	case errors.Is(err, service.ErrJobNotFound):
		return ErrorInfo{http.StatusNotFound, JobNotFound, "Automation job not found"}
	case errors.Is(err, service.ErrJobAlreadyRunning):
		return ErrorInfo{http.StatusConflict, JobAlreadyRunning, "Another automation is already running"}
	case errors.Is(err, service.ErrUnknownJobKind):
		return ErrorInfo{http.StatusBadRequest, JobUnknownKind, "Unknown automation"}
	case errors.Is(err, service.ErrUploadNotAvailable):
		return ErrorInfo{http.StatusServiceUnavailable, JobUploadDisabled, "Object storage is not configured"}
	case errors.Is(err, service.ErrMissingImportFile):
		return ErrorInfo{http.StatusBadRequest, ImportMissingFile, "A products file is required"}
	case errors.Is(err, service.ErrInvalidImportFile):
		// The wrapped message names the file and what was wrong with it.
		return ErrorInfo{http.StatusBadRequest, ImportInvalidFile, capitalize(err.Error())}

	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrorInfo{http.StatusNotFound, ResourceNotFound, "Record not found"}
	case errors.Is(err, storage.ErrObjectNotFound):
		return ErrorInfo{http.StatusBadGateway, InternalStorageError, "A catalog file is missing from storage"}
	}

	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "database is locked") || strings.Contains(lower, "connection refused") {
		return ErrorInfo{http.StatusServiceUnavailable, InternalDatabaseError, "The service is temporarily unavailable. Please try again"}
	}
	return ErrorInfo{http.StatusInternalServerError, InternalServerError, defaultMessage(operation)}
}

// ParseAndRespond writes the translated error.
func ParseAndRespond(c *gin.Context, err error, operation string) {
	info := ParseError(err, operation)
	RespondWithError(c, info.Status, info.Code, info.Message)
}

// ValidationFields turns binding errors into field messages. ok is false for non-validation errors.
func ValidationFields(err error) (fields map[string]string, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	fields = make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[lowerFirst(fe.Field())] = fieldMessage(fe)
	}
	return fields, true
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}

func defaultMessage(operation string) string {
	if operation == "" {
		return "Something went wrong. Please try again later"
	}
	return fmt.Sprintf("Failed to %s. Please try again later", operation)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
