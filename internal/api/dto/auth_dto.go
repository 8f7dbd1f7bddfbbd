package dto

import (
	"time"

	"github.com/spec-kit/clinic-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest payload for new identities.
type RegisterRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"fullName"`
	Role     string  `json:"role"`
	ClinicID *string `json:"clinicId,omitempty"`
}

// UpdateProfileRequest payload for partial profile edits.
type UpdateProfileRequest struct {
	FullName *string `json:"fullName,omitempty"`
	Username *string `json:"username,omitempty"`
}

// UserView is the identity as exposed to clients; the password hash never
// leaves the service layer.
type UserView struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	ClinicID    *string    `json:"clinicId,omitempty"`
	FullName    string     `json:"fullName"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// NewUserView strips sensitive fields from an identity.
func NewUserView(identity *domain.Identity) UserView {
	return UserView{
		ID:          identity.ID,
		Username:    identity.Username,
		Email:       identity.Email,
		Role:        string(identity.Role),
		ClinicID:    identity.ClinicID,
		FullName:    identity.FullName,
		IsActive:    identity.Active,
		LastLoginAt: identity.LastLoginAt,
	}
}

// AuthPayload is the login/refresh response body.
type AuthPayload struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserView  `json:"user"`
}
