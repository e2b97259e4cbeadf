package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-gateway/internal/api/middleware"
	"github.com/99minutos/identity-gateway/internal/core/domain"
)

// ctxPrincipal returns the identity injected by the Auth middleware. A
// missing principal means the route was mounted without Auth.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}

// bindAndValidate decodes the body into req and runs struct validation. The
// returned error is already rendered as a 400 response.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	return true, nil
}
