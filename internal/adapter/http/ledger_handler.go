package http

import (
	"net/http"

	"opticash-backend/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
)

// LedgerHandler serves /incomes or /expenses, depending on the kind of its usecase.
type LedgerHandler struct{ uc *ledger.Usecase }

func NewLedgerHandler(uc *ledger.Usecase) *LedgerHandler { return &LedgerHandler{uc: uc} }

func (h *LedgerHandler) List(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var q ledger.ListQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	res, err := h.uc.List(c.Request().Context(), id, q)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, res)
}

func (h *LedgerHandler) Get(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), id, pathID(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, dto)
}

func (h *LedgerHandler) Create(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var in ledger.CreateInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, dto)
}

func (h *LedgerHandler) Update(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var in ledger.UpdateInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	dto, err := h.uc.Update(c.Request().Context(), id, pathID(c), in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, dto)
}

func (h *LedgerHandler) Delete(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.Request().Context(), id, pathID(c)); err != nil {
		return err
	}
	return okMessage(c, string(h.uc.Kind())+" deleted")
}

func (h *LedgerHandler) Stats(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	s, err := h.uc.Stats(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, s)
}
