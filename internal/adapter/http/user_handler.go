package http

import (
	"net/http"

	"opticash-backend/internal/usecase/user"

	"github.com/labstack/echo/v4"
)

type UserHandler struct{ uc *user.Usecase }

func NewUserHandler(uc *user.Usecase) *UserHandler { return &UserHandler{uc: uc} }

func (h *UserHandler) Me(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	dto, err := h.uc.Profile(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, dto)
}

// UpdateMe changes the caller's name and/or password.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var in user.UpdateProfileInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	dto, err := h.uc.UpdateProfile(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, dto)
}

func (h *UserHandler) List(c echo.Context) error {
	var q user.ListQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	res, err := h.uc.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, res)
}

func (h *UserHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), pathID(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, dto)
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var in user.AdminUpdateInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	dto, err := h.uc.AdminUpdate(c.Request().Context(), id, pathID(c), in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, dto)
}

// Delete deactivates the account; the row and its email stay.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.uc.Deactivate(c.Request().Context(), id, pathID(c)); err != nil {
		return err
	}
	return okMessage(c, "user deactivated")
}

func (h *UserHandler) Stats(c echo.Context) error {
	s, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, s)
}
