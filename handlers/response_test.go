package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DFSguan/Collaborative-Task-Management-System/apperrors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.Validation("bad"), http.StatusBadRequest},
		{"not found", apperrors.NotFound("gone"), http.StatusNotFound},
		{"auth", apperrors.Auth("INVALID_PASSWORD"), http.StatusUnauthorized},
		{"upstream auth", apperrors.UpstreamAuth("EMAIL_EXISTS"), http.StatusBadRequest},
		{"wrapped", fmt.Errorf("ctx: %w", apperrors.NotFound("gone")), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestWriteErrorMergesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperrors.Validation("Some member IDs are invalid.").WithDetail("invalidMembers", []string{"x"})

	writeError(rec, httptest.NewRequest(http.MethodPost, "/create_project", nil), err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Some member IDs are invalid.","invalidMembers":["x"]}`, rec.Body.String())
}

func TestWriteErrorEchoesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	writeError(rec, httptest.NewRequest(http.MethodGet, "/users", nil), apperrors.Internal(errors.New("connection reset"), "failed to list users"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"failed to list users: connection reset"}`, rec.Body.String())
}
