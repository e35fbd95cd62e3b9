package http

import (
	"errors"
	"net/http"
	"strings"

	"opticash-backend/internal/adapter/metrics"
	"opticash-backend/internal/adapter/middleware"
	domain "opticash-backend/internal/domain/payment"
	"opticash-backend/internal/domain/user"
	"opticash-backend/internal/usecase/payment"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

// Process applies one payment to a set of the caller's installments.
// A repeated idempotency key answers 200 with the stored payment instead of 201.
//
// @Summary      Process a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                true  "Client retry key"
// @Param        body             body      payment.ProcessInput  true  "Installments and total"
// @Success      201              {object}  Envelope
// @Success      200              {object}  Envelope
// @Failure      400              {object}  Envelope
// @Failure      409              {object}  Envelope
// @Security     BearerAuth
// @Router       /api/payments [post]
func (h *PaymentHandler) Process(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var in payment.ProcessInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	if k := strings.TrimSpace(c.Request().Header.Get(middleware.HeaderIdempotencyKey)); k != "" {
		in.IdempotencyKey = k
	}

	dto, err := h.uc.Process(c.Request().Context(), id, in)
	if err != nil {
		metrics.PaymentRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
		return err
	}
	if dto.Replayed {
		metrics.IdempotentReplaysTotal.WithLabelValues("store").Inc()
		return ok(c, http.StatusOK, dto)
	}
	metrics.PaymentsProcessedTotal.Inc()
	metrics.PaymentsAmountTotal.Add(dto.TotalAmount)
	return ok(c, http.StatusCreated, dto)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInstallments):
		return "invalid_installments"
	case errors.Is(err, domain.ErrAmountMismatch):
		return "amount_mismatch"
	case errors.Is(err, domain.ErrInstallmentConflict), errors.Is(err, domain.ErrDuplicateKey):
		return "conflict"
	case errors.Is(err, user.ErrInactive):
		return "inactive_user"
	default:
		return "other"
	}
}

func (h *PaymentHandler) Get(c echo.Context) error {
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

func (h *PaymentHandler) ListMine(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var q payment.ListQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	res, err := h.uc.ListMine(c.Request().Context(), id, q)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, res)
}

func (h *PaymentHandler) ListAll(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var q payment.ListQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	res, err := h.uc.ListAll(c.Request().Context(), id, q)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, res)
}

// History is the caller's payments in a date range plus totals over the same range.
func (h *PaymentHandler) History(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var q payment.ListQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	res, err := h.uc.History(c.Request().Context(), id, q)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, res)
}

func (h *PaymentHandler) Pending(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	res, err := h.uc.PendingInstallments(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, res)
}

func (h *PaymentHandler) Summary(c echo.Context) error {
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

func (h *PaymentHandler) Stats(c echo.Context) error {
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
