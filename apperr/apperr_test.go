package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-voting-backend/apperr"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"authentication", apperr.Authentication("no token"), http.StatusUnauthorized},
		{"authorization", apperr.Authorization("not admin"), http.StatusForbidden},
		{"validation", apperr.Validation("bad id"), http.StatusBadRequest},
		{"not found", apperr.NotFound("missing"), http.StatusNotFound},
		{"conflict", apperr.Conflict("duplicate"), http.StatusConflict},
		{"internal", apperr.Internal(errors.New("disk on fire")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"override", apperr.Conflict("already voted").WithStatus(http.StatusBadRequest), http.StatusBadRequest},
		{"wrapped", fmt.Errorf("ctx: %w", apperr.NotFound("missing")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, apperr.Status(tt.err))
		})
	}
}

func TestPublic_HidesInternalDetails(t *testing.T) {
	err := apperr.Internal(errors.New("pq: connection refused on 10.0.0.3"))

	assert.Equal(t, "Internal Server Error", apperr.Public(err))
	assert.Equal(t, "Internal Server Error", apperr.Public(errors.New("raw")))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPublic_ClassifiedMessage(t *testing.T) {
	err := apperr.Wrap(apperr.KindValidation, "Invalid candidate ID format", errors.New("uuid: bad length"))

	assert.Equal(t, "Invalid candidate ID format", apperr.Public(err))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestWithStatus_DoesNotMutateOriginal(t *testing.T) {
	base := apperr.Conflict("dup")
	_ = base.WithStatus(http.StatusBadRequest)

	assert.Equal(t, http.StatusConflict, apperr.Status(base))
}
