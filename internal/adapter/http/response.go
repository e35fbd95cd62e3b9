package http

import (
	"errors"
	"fmt"
	"net/http"

	"opticash-backend/internal/adapter/middleware"
	"opticash-backend/internal/domain/category"
	"opticash-backend/internal/domain/ledger"
	"opticash-backend/internal/domain/loan"
	"opticash-backend/internal/domain/payment"
	"opticash-backend/internal/domain/user"
	"opticash-backend/internal/usecase/page"
	"opticash-backend/pkg/id"
	"opticash-backend/pkg/logger"
	"opticash-backend/pkg/token"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const msgInternal = "internal server error"

// Envelope is the body of every API response.
type Envelope struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func ok(c echo.Context, code int, data any) error {
	return c.JSON(code, Envelope{Success: true, Data: data})
}

func okMessage(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: msg})
}

// NewHTTPErrorHandler renders every error returned by handlers and middleware in the envelope.
// In production the message of a 500 is replaced by a generic one.
func NewHTTPErrorHandler(production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, env := resolveError(err, production, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, env)
	}
}

func resolveError(err error, production bool, c echo.Context) (int, Envelope) {
	var ae *middleware.AuthError
	if errors.As(err, &ae) {
		return http.StatusUnauthorized, Envelope{
			Message: "unauthorized",
			Errors:  []FieldError{{Field: "authorization", Message: ae.Reason}},
		}
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return http.StatusBadRequest, Envelope{Message: "validation failed", Errors: ToFieldErrors(ve)}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(c, err)
			if production {
				msg = msgInternal
			}
		}
		return he.Code, Envelope{Message: msg}
	}

	if code := statusOf(err); code != http.StatusInternalServerError {
		return code, Envelope{Message: err.Error()}
	}

	logUnhandled(c, err)
	msg := err.Error()
	if production {
		msg = msgInternal
	}
	return http.StatusInternalServerError, Envelope{Message: msg}
}

// statusOf maps domain errors to their HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, category.ErrNotFound),
		errors.Is(err, loan.ErrNotFound),
		errors.Is(err, payment.ErrNotFound),
		errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, user.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrInactive),
		errors.Is(err, token.ErrMissing),
		errors.Is(err, token.ErrInvalid),
		errors.Is(err, token.ErrExpired):
		return http.StatusUnauthorized

	case errors.Is(err, payment.ErrInstallmentConflict),
		errors.Is(err, payment.ErrDuplicateKey):
		return http.StatusConflict

	case errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, user.ErrInvalidStatus),
		errors.Is(err, category.ErrDuplicate),
		errors.Is(err, category.ErrInUse),
		errors.Is(err, category.ErrInvalid),
		errors.Is(err, loan.ErrInvalidStatus),
		errors.Is(err, loan.ErrInvalidSchedule),
		errors.Is(err, payment.ErrInvalidInstallments),
		errors.Is(err, payment.ErrAmountMismatch),
		errors.Is(err, ledger.ErrInvalidCategory),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, page.ErrInvalidDate):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func logUnhandled(c echo.Context, err error) {
	logger.Get().Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}

// bindValid binds the request into dst and validates it.
func bindValid(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	return c.Validate(dst)
}

// pathID returns the :id parameter in 32-hex form. Dashed UUIDs are accepted;
// anything else is passed through unchanged and simply will not be found.
func pathID(c echo.Context) string {
	raw := c.Param("id")
	if norm, ok := id.Normalize(raw); ok {
		return norm
	}
	return raw
}

// actor returns the authenticated caller.
func actor(c echo.Context) (user.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return user.Identity{}, &middleware.AuthError{Reason: middleware.ReasonMissing}
	}
	return id, nil
}
