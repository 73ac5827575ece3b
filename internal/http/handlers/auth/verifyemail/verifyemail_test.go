package verifyemail

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	services "github.com/magabrotheeeer/account-auth/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) VerifyEmail(ctx context.Context, token string) (*services.Result, error) {
	args := m.Called(ctx, token)
	result, _ := args.Get(0).(*services.Result)
	return result, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestVerifyEmailHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, authMock)

	tests := []struct {
		name           string
		token          string
		mockResult     *services.Result
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:  "valid token",
			token: "tok-123",
			mockResult: &services.Result{
				UserID:   "uid-1",
				Username: "user1",
				Message:  "Email verified successfully. You can now log in.",
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "missing token",
			token:          "",
			mockErr:        &services.ValidationError{Reason: "Verification token is required"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Verification token is required",
			wantStatus:     "Error",
		},
		{
			name:           "unknown token",
			token:          "missing",
			mockErr:        &services.ValidationError{Reason: "Invalid or expired verification token"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Invalid or expired verification token",
			wantStatus:     "Error",
		},
		{
			name:           "storage error",
			token:          "tok-123",
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to verify email",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			authMock.On("VerifyEmail", mock.Anything, tt.token).
				Return(tt.mockResult, tt.mockErr).Once()

			req := httptest.NewRequest(http.MethodGet, "/api/auth/verify-email?token="+tt.token, nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.mockResult.Message, data["message"])
				assert.Equal(t, tt.mockResult.Username, data["username"])
			}

			authMock.AssertExpectations(t)
		})
	}
}
