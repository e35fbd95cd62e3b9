package middleware

import (
	"context"
	"errors"
	"strings"

	"opticash-backend/internal/domain/user"
	"opticash-backend/pkg/token"

	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// Reasons reported in the 401 envelope.
const (
	ReasonMissing  = "missing"
	ReasonInvalid  = "invalid"
	ReasonExpired  = "expired"
	ReasonInactive = "inactive"
)

// AuthError rejects a request with 401 and a reason the client can act on.
type AuthError struct{ Reason string }

func (e *AuthError) Error() string { return "unauthorized: " + e.Reason }

type TokenParser interface {
	ParseAccess(raw string) (*token.Claims, error)
}

// ActiveChecker resolves the current identity of a token subject, failing for missing or inactive users.
type ActiveChecker interface {
	ActiveIdentity(ctx context.Context, userID string) (user.Identity, error)
}

// Auth validates the bearer access token and stores the caller's user.Identity on the context.
// With a non-nil checker the user is reloaded, so deactivation and role changes apply immediately.
func Auth(tokens TokenParser, checker ActiveChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return &AuthError{Reason: ReasonMissing}
			}
			claims, err := tokens.ParseAccess(raw)
			switch {
			case errors.Is(err, token.ErrMissing):
				return &AuthError{Reason: ReasonMissing}
			case errors.Is(err, token.ErrExpired):
				return &AuthError{Reason: ReasonExpired}
			case err != nil:
				return &AuthError{Reason: ReasonInvalid}
			}

			id := user.Identity{UserID: claims.UserID, Email: claims.Email, Role: user.Role(claims.Role)}
			if checker != nil {
				id, err = checker.ActiveIdentity(c.Request().Context(), claims.UserID)
				switch {
				case errors.Is(err, user.ErrInactive):
					return &AuthError{Reason: ReasonInactive}
				case errors.Is(err, user.ErrNotFound):
					return &AuthError{Reason: ReasonInvalid}
				case err != nil:
					return err
				}
			}
			c.Set(identityKey, id)
			return next(c)
		}
	}
}

func bearer(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c echo.Context) (user.Identity, bool) {
	id, ok := c.Get(identityKey).(user.Identity)
	return id, ok && id.UserID != ""
}

// SetIdentity is used by tests and internal callers that authenticate by other means.
func SetIdentity(c echo.Context, id user.Identity) { c.Set(identityKey, id) }
