package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-gateway/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", domain.NewValidationError("email is required"), http.StatusBadRequest, "email is required"},
		{"duplicate username", domain.ErrUsernameTaken, http.StatusBadRequest, "Username already exists"},
		{"wrapped not found", fmt.Errorf("get: %w", domain.ErrUserNotFound), http.StatusNotFound, "User not found"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"provisioning", fmt.Errorf("local record kept: %w", domain.ErrProvisioning), http.StatusInternalServerError, "local record kept"},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), http.StatusUnauthorized, "invalid token"},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError, "internal server error"},
	}

	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			h(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("expected body to contain %q, got %s", tt.wantBody, rec.Body.String())
			}
			if tt.name == "unknown" && strings.Contains(rec.Body.String(), "exploded") {
				t.Fatalf("internal cause leaked: %s", rec.Body.String())
			}
		})
	}
}
