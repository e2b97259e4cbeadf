package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-gateway/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create adds a local profile without a provider account.
//
// @Summary      Create a local user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  UserResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	user, err := h.userService.Create(c.Request().Context(), ports.CreateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// List returns every profile.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   UserResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one profile.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  UserResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete removes a profile.
//
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  string  true  "User ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.userService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ReplaceRoles overwrites the role set with the body array.
//
// @Summary      Replace user roles
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string    true  "User ID"
// @Param        body  body      []string  true  "Roles"
// @Success      200   {object}  UserResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/users/{id}/roles [put]
func (h *UserHandler) ReplaceRoles(c echo.Context) error {
	var roles []string
	if err := (&echo.DefaultBinder{}).BindBody(c, &roles); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	user, err := h.userService.ReplaceRoles(c.Request().Context(), c.Param("id"), roles)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// SetActive activates or deactivates a profile.
//
// @Summary      Set user activation
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "User ID"
// @Param        body  body      setActiveRequest  true  "Activation flag"
// @Success      200   {object}  UserResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/users/{id}/active [put]
func (h *UserHandler) SetActive(c echo.Context) error {
	var req setActiveRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	user, err := h.userService.SetActive(c.Request().Context(), c.Param("id"), *req.Active)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// RegistrationEvents returns the provisioning journal of a user.
//
// @Summary      Registration history
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {array}   domain.RegistrationEvent
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id}/registration-events [get]
func (h *UserHandler) RegistrationEvents(c echo.Context) error {
	events, err := h.userService.RegistrationHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}
