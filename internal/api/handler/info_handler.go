package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// InfoHandler serves the demonstration endpoints of each access level.
type InfoHandler struct{}

func NewInfoHandler() *InfoHandler {
	return &InfoHandler{}
}

// Public
//
// @Summary  Public endpoint
// @Tags     info
// @Produce  json
// @Success  200  {object}  messageResponse
// @Router   /api/public [get]
func (h *InfoHandler) Public(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "This is a public endpoint accessible without authentication"})
}

// Protected
//
// @Summary   Protected endpoint
// @Tags      info
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  protectedResponse
// @Failure   401  {object}  errorResponse
// @Router    /api/protected [get]
func (h *InfoHandler) Protected(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, protectedResponse{
		Message: fmt.Sprintf("Hello %s! This is a protected endpoint", p.Username),
		Roles:   nonNil(p.Roles),
	})
}

// Admin
//
// @Summary   Admin-only endpoint
// @Tags      info
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  messageResponse
// @Failure   403  {object}  errorResponse
// @Router    /api/admin [get]
func (h *InfoHandler) Admin(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Hello %s! This is an admin-only endpoint", p.Username),
	})
}

// Me returns the caller's profile as carried by the token.
//
// @Summary   Current user
// @Tags      info
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  meResponse
// @Router    /api/me [get]
func (h *InfoHandler) Me(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{
		Username:  p.Username,
		Email:     p.Email,
		FirstName: p.GivenName,
		LastName:  p.FamilyName,
		Roles:     nonNil(p.Roles),
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
