package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode_UnwrapsChain(t *testing.T) {
	err := fmt.Errorf("record movement: %w", NewAdjustNoteRequired())

	assert.True(t, HasCode(err, CodeAdjustNoteRequired))
	assert.False(t, HasCode(err, CodeInsufficientStock))
	assert.False(t, HasCode(errors.New("plain"), CodeAdjustNoteRequired))
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFound("warehouse", "w1"), http.StatusNotFound},
		{"forbidden", NewForbidden("no access"), http.StatusForbidden},
		{"bad request", NewValidation("quantity must be positive"), http.StatusBadRequest},
		{"insufficient stock", NewInsufficientStock("l1", "10", "5"), http.StatusUnprocessableEntity},
		{"restricted", NewRestrictedConfirmationRequired("i1"), http.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.err))
		})
	}
}

func TestNewInsufficientStock_Details(t *testing.T) {
	err := NewInsufficientStock("lot-1", "1000", "60")

	assert.Equal(t, "60", err.Details["available"])
	assert.Equal(t, "1000", err.Details["requested"])
	assert.Contains(t, err.Message, "60 available")
}

func TestAppError_WrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}
