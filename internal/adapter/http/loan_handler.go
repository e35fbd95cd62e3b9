package http

import (
	"net/http"

	"opticash-backend/internal/adapter/metrics"
	"opticash-backend/internal/usecase/loan"
	"opticash-backend/internal/usecase/page"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

// CreateLoan opens a loan for the caller and returns it with its installment schedule.
//
// @Summary      Create a loan
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        body  body      loan.CreateLoanInput  true  "Loan terms"
// @Success      201   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Security     BearerAuth
// @Router       /api/loans [post]
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var in loan.CreateLoanInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	metrics.LoansCreatedTotal.WithLabelValues(dto.Frequency).Inc()
	return ok(c, http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
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

func (h *LoanHandler) Installments(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	items, err := h.uc.Installments(c.Request().Context(), id, pathID(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, items)
}

func (h *LoanHandler) ListMine(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var q page.Query
	if err := bindValid(c, &q); err != nil {
		return err
	}
	res, err := h.uc.ListMine(c.Request().Context(), id, q)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, res)
}

func (h *LoanHandler) ListAll(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var q page.Query
	if err := bindValid(c, &q); err != nil {
		return err
	}
	res, err := h.uc.ListAll(c.Request().Context(), id, q)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, res)
}

func (h *LoanHandler) Summary(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	s, err := h.uc.Summary(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, s)
}

// UpdateStatus is admin only. Setting "paid" on a loan with open installments is allowed and logged.
func (h *LoanHandler) UpdateStatus(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var in loan.UpdateStatusInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	dto, err := h.uc.UpdateStatus(c.Request().Context(), id, pathID(c), in.Status)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, dto)
}

func (h *LoanHandler) Stats(c echo.Context) error {
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
