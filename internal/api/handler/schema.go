package handler

import (
	"time"

	"github.com/99minutos/identity-gateway/internal/core/domain"
)

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username  string `json:"username"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Password  string `json:"password"  validate:"required,min=6"`
}

type createUserRequest struct {
	Username  string `json:"username"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type registeredUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type registerResponse struct {
	Message string         `json:"message"`
	User    registeredUser `json:"user"`
}

// UserResponse is the public view of a profile record.
type UserResponse struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	Roles              []string  `json:"roles"`
	Active             bool      `json:"active"`
	ProvisioningStatus string    `json:"provisioningStatus"`
	CreatedAt          time.Time `json:"createdAt"`
}

func toUserResponse(u *domain.User) UserResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return UserResponse{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Roles:              roles,
		Active:             u.Active,
		ProvisioningStatus: string(u.ProvisioningStatus),
		CreatedAt:          u.CreatedAt,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type protectedResponse struct {
	Message string   `json:"message"`
	Roles   []string `json:"roles"`
}

type meResponse struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

type errorResponse struct {
	Error string `json:"error"`
}
