package http

import (
	"net/http"

	"opticash-backend/internal/usecase/user"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct{ uc *user.Usecase }

func NewAuthHandler(uc *user.Usecase) *AuthHandler { return &AuthHandler{uc: uc} }

// Register creates a user account with role "user".
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      user.RegisterInput  true  "Registration details"
// @Success      201   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var in user.RegisterInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	dto, err := h.uc.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, dto)
}

// Login exchanges credentials for an access/refresh token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      user.LoginInput  true  "Credentials"
// @Success      200   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var in user.LoginInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	res, err := h.uc.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, res)
}

// Refresh issues a new pair from a valid refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var in user.RefreshInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	res, err := h.uc.Refresh(c.Request().Context(), in.RefreshToken)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, res)
}
