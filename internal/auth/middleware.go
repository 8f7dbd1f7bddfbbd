package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/clinic-service/internal/domain"
	"github.com/spec-kit/clinic-service/internal/repository"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

const identityLocalKey = "auth_identity"
const tokenLocalKey = "auth_token"

// AuthMiddleware validates bearer tokens and loads identities.
type AuthMiddleware struct {
	tokens   *TokenManager
	sessions *SessionStore
	users    repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions *SessionStore, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions, users: users}
}

// Handle enforces authentication for protected routes. The resolved identity
// is attached to the request-scoped locals only; nothing is kept between
// requests.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	identity, token, err := m.resolve(c)
	if err != nil {
		return err
	}
	c.Locals(identityLocalKey, identity)
	c.Locals(tokenLocalKey, token)
	return c.Next()
}

// Optional resolves the identity when a usable token is present but treats
// a missing or invalid token as an anonymous caller.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	identity, token, err := m.resolve(c)
	if err == nil {
		c.Locals(identityLocalKey, identity)
		c.Locals(tokenLocalKey, token)
	}
	return c.Next()
}

func (m *AuthMiddleware) resolve(c *fiber.Ctx) (*domain.Identity, string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, "", apperrors.NewMissingToken()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return nil, "", apperrors.NewInvalidToken()
	}
	token := parts[1]

	if m.sessions.IsRevoked(c.Context(), token) {
		return nil, "", apperrors.NewInvalidToken()
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, "", apperrors.NewExpiredToken()
		}
		return nil, "", apperrors.NewInvalidToken()
	}

	identity := m.sessions.CachedIdentity(c.Context(), claims.SubjectID)
	if identity == nil {
		identity, err = m.users.GetByID(c.Context(), claims.SubjectID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, "", apperrors.NewInvalidToken()
			}
			return nil, "", apperrors.MapError(err)
		}
		m.sessions.CacheIdentity(c.Context(), identity)
	}

	if !identity.Active {
		return nil, "", apperrors.NewAccountInactive()
	}
	return identity, token, nil
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityLocalKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}

// TokenFromContext retrieves the raw bearer token for the request.
func TokenFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(tokenLocalKey)
	if val == nil {
		return "", false
	}
	token, ok := val.(string)
	return token, ok
}
