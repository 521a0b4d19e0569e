package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"product", service.ErrProductNotFound, http.StatusNotFound, ProductNotFound},
		{"wrapped collection", fmt.Errorf("lookup: %w", service.ErrCollectionNotFound), http.StatusNotFound, CollectionNotFound},
		{"quantity", service.ErrInvalidQuantity, http.StatusBadRequest, CartInvalidQuantity},
		{"session", service.ErrInvalidSession, http.StatusBadRequest, CartSessionRequired},
		{"job missing", service.ErrJobNotFound, http.StatusNotFound, JobNotFound},
		{"job running", service.ErrJobAlreadyRunning, http.StatusConflict, JobAlreadyRunning},
		{"unknown kind", service.ErrUnknownJobKind, http.StatusBadRequest, JobUnknownKind},
		{"upload", service.ErrUploadNotAvailable, http.StatusServiceUnavailable, JobUploadDisabled},
		{"import missing", service.ErrMissingImportFile, http.StatusBadRequest, ImportMissingFile},
		{"db locked", fmt.Errorf("save: database is locked"), http.StatusServiceUnavailable, InternalDatabaseError},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, InternalServerError},
		{"nil", nil, http.StatusInternalServerError, InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, "load the cart")
			assert.Equal(t, tt.status, info.Status)
			assert.Equal(t, tt.code, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseError_HidesInternalDetails(t *testing.T) {
	info := ParseError(fmt.Errorf("pq: password authentication failed"), "load the cart")
	assert.Equal(t, "Failed to load the cart. Please try again later", info.Message)
}

func TestParseError_InvalidImportKeepsReason(t *testing.T) {
	err := fmt.Errorf("%w: products.csv has no data rows", service.ErrInvalidImportFile)
	info := ParseError(err, "import")
	assert.Equal(t, ImportInvalidFile, info.Code)
	assert.Equal(t, "Invalid import file: products.csv has no data rows", info.Message)
}

func TestValidationFields(t *testing.T) {
	type body struct {
		ProductID string `validate:"required"`
		Quantity  int    `validate:"min=1"`
	}
	err := validator.New().Struct(body{Quantity: 0})

	fields, ok := ValidationFields(err)
	require.True(t, ok)
	assert.Equal(t, "is required", fields["productID"])
	assert.Equal(t, "must be at least 1", fields["quantity"])

	_, ok = ValidationFields(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestParseAndRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ParseAndRespond(c, service.ErrJobAlreadyRunning, "start the job")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"JOB_ALREADY_RUNNING","message":"Another automation is already running"}`, w.Body.String())
}
