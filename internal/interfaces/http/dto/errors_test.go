package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeStorage, http.StatusInternalServerError},
		{ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{"ERR_SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetHTTPStatus(tt.code), "code %s", tt.code)
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeValidation, NormalizeErrorCode("VALIDATION_ERROR"))
	assert.Equal(t, ErrCodeStorage, NormalizeErrorCode("STORAGE_ERROR"))
	assert.Equal(t, ErrCodeValidation, NormalizeErrorCode(ErrCodeValidation))
	assert.Equal(t, "CUSTOM", NormalizeErrorCode("CUSTOM"))
}

func TestResponseConstructors(t *testing.T) {
	success := NewSuccessResponse("payload")
	assert.True(t, success.Success)
	assert.Equal(t, "payload", success.Data)
	assert.Nil(t, success.Error)

	list := NewListResponse([]int{1, 2, 3}, 3, 200)
	assert.True(t, list.Success)
	assert.Equal(t, 3, list.Meta.Count)
	assert.Equal(t, 200, list.Meta.Limit)

	failure := NewErrorResponseWithRequestID(ErrCodeNotFound, "Resource not found", "req-1")
	assert.False(t, failure.Success)
	assert.Equal(t, ErrCodeNotFound, failure.Error.Code)
	assert.Equal(t, "req-1", failure.Error.RequestID)
}
