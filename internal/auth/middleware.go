package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/clientauth/client-auth/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// TokenVerifier is the part of TokenService the middleware depends on.
type TokenVerifier interface {
	Authenticate(header string) (*Authentication, string, error)
}

// Principal represents the authenticated caller.
type Principal struct {
	ClientID       string
	Authentication *Authentication
}

// AuthMiddleware validates bearer tokens and stores the principal on the request.
type AuthMiddleware struct {
	tokens TokenVerifier
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	authn, clientID, err := m.tokens.Authenticate(authHeader)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotBearer):
		return apperrors.NewUnauthorized("invalid authorization header")
	case errors.Is(err, ErrTokenExpired):
		return apperrors.NewUnauthorized("token expired")
	case errors.Is(err, ErrNoAuthority):
		return apperrors.NewUnauthorized("token carries no authority")
	case errors.Is(err, ErrEmptyClientID):
		return apperrors.NewUnauthorized("token carries no client id")
	default:
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &Principal{ClientID: clientID, Authentication: authn})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
