package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-service/internal/api/dto"
	"github.com/spec-kit/clinic-service/internal/auth"
	"github.com/spec-kit/clinic-service/internal/domain"
	"github.com/spec-kit/clinic-service/internal/service"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	identity, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return ok(c, dto.AuthPayload{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.NewUserView(identity),
	})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	identity, token, exp, err := h.auth.Register(c.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     domain.Role(req.Role),
		ClinicID: req.ClinicID,
	})
	if err != nil {
		return err
	}
	return created(c, dto.AuthPayload{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.NewUserView(identity),
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, ok2 := auth.TokenFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	if err := h.auth.Logout(c.Context(), token); err != nil {
		return err
	}
	return ok(c, fiber.Map{"loggedOut": true})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	oldToken, _ := auth.TokenFromContext(c)

	token, exp, err := h.auth.Refresh(c.Context(), identity, oldToken)
	if err != nil {
		return err
	}
	return ok(c, dto.AuthPayload{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.NewUserView(identity),
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	return ok(c, fiber.Map{"user": dto.NewUserView(identity)})
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	updated, err := h.auth.UpdateProfile(c.Context(), identity, req.FullName, req.Username)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"user": dto.NewUserView(updated)})
}
