package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/clientauth/client-auth/pkg/util/errorutil"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// KnownAuthority reports whether authority is one the service grants.
func KnownAuthority(authority string) bool {
	return authority == RoleUser || authority == RoleAdmin
}

// RequireAuthority ensures the principal holds one of the allowed authorities.
func RequireAuthority(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Authentication == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowed) == 0 {
			return c.Next()
		}
		for _, role := range allowed {
			if principal.Authentication.HasAuthority(role) {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("insufficient authority")
	}
}

// RequireAnyAuthority ensures caller is authenticated.
func RequireAnyAuthority() fiber.Handler {
	return RequireAuthority()
}
