package http

import (
	"net/http"

	"opticash-backend/internal/usecase/category"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct{ uc *category.Usecase }

func NewCategoryHandler(uc *category.Usecase) *CategoryHandler { return &CategoryHandler{uc: uc} }

// List returns the active categories, optionally filtered by ?type=expense|income.
func (h *CategoryHandler) List(c echo.Context) error {
	items, err := h.uc.List(c.Request().Context(), c.QueryParam("type"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, items)
}

func (h *CategoryHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), pathID(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, dto)
}

func (h *CategoryHandler) Create(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var in category.CreateInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, dto)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var in category.UpdateInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	dto, err := h.uc.Update(c.Request().Context(), id, pathID(c), in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, dto)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.Request().Context(), id, pathID(c)); err != nil {
		return err
	}
	return okMessage(c, "category deleted")
}

func (h *CategoryHandler) Stats(c echo.Context) error {
	rows, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, rows)
}
