package middleware

import (
	"opticash-backend/internal/domain/user"

	"github.com/labstack/echo/v4"
)

// RBAC allows the request only when the authenticated role is one of roles.
func RBAC(roles ...user.Role) echo.MiddlewareFunc {
	allowed := make(map[user.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return &AuthError{Reason: ReasonMissing}
			}
			if _, ok := allowed[id.Role]; !ok {
				return user.ErrForbidden
			}
			return next(c)
		}
	}
}

func RequireAdmin() echo.MiddlewareFunc { return RBAC(user.RoleAdmin) }
