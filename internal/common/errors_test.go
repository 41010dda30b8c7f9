package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"app invalid", NewAppError(CodeInvalidInput, "bad", nil), http.StatusBadRequest, CodeInvalidInput},
		{"wrapped not found", fmt.Errorf("get task: %w", ErrNotFound), http.StatusNotFound, CodeNotFound},
		{"upstream", fmt.Errorf("model: %w", ErrUpstream), http.StatusBadGateway, CodeUpstream},
		{"unavailable", fmt.Errorf("queue full: %w", ErrUnavailable), http.StatusServiceUnavailable, CodeUnavailable},
		{"conflict", NewAppError(CodeConflict, "not ready", nil), http.StatusConflict, CodeConflict},
		{"plain", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := HTTPStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestValidator(t *testing.T) {
	v := NewValidator().
		Field("contract_type", "lease", ContractType).
		Field("file", "a.exe", FileName).
		Field("document_text", "", Required).
		Field("size", int64(10), MaxBytes(5))
	assert.Len(t, v.Errors(), 3)

	err := v.Err()
	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, CodeInvalidInput, appErr.Code)
	assert.ErrorIs(t, err, ErrValidation)

	assert.NoError(t, NewValidator().Field("contract_type", "", ContractType).Err())
}
