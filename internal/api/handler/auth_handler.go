package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-gateway/internal/core/domain"
	"github.com/99minutos/identity-gateway/internal/core/ports"
)

const registeredMessage = "User registered successfully in both local database and identity provider."

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates the local profile and the identity provider account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrProvisioning) {
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Registration failed: " + err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Message: registeredMessage,
		User:    registeredUser{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

// Login exchanges email and password for provider tokens.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  domain.Credentials
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	creds, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Invalid credentials"})
	}

	return c.JSON(http.StatusOK, creds)
}
