package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"opticash-backend/internal/adapter/middleware"
	"opticash-backend/internal/domain/category"
	"opticash-backend/internal/domain/ledger"
	"opticash-backend/internal/domain/loan"
	"opticash-backend/internal/domain/payment"
	"opticash-backend/internal/domain/user"
	"opticash-backend/internal/usecase/page"
	"opticash-backend/pkg/token"

	"github.com/labstack/echo/v4"
)

func render(t *testing.T, production bool, err error) (int, Envelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	NewHTTPErrorHandler(production)(err, c)

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad json %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{user.ErrNotFound, http.StatusNotFound},
		{loan.ErrNotFound, http.StatusNotFound},
		{payment.ErrNotFound, http.StatusNotFound},
		{ledger.ErrNotFound, http.StatusNotFound},
		{category.ErrNotFound, http.StatusNotFound},
		{user.ErrForbidden, http.StatusForbidden},
		{user.ErrInvalidCredentials, http.StatusUnauthorized},
		{token.ErrExpired, http.StatusUnauthorized},
		{user.ErrEmailTaken, http.StatusBadRequest},
		{category.ErrDuplicate, http.StatusBadRequest},
		{&category.InUseError{Expenses: 2}, http.StatusBadRequest},
		{fmt.Errorf("%w: expected 1.00, got 2.00", payment.ErrAmountMismatch), http.StatusBadRequest},
		{payment.ErrInvalidInstallments, http.StatusBadRequest},
		{ledger.ErrInvalidCategory, http.StatusBadRequest},
		{page.ErrInvalidDate, http.StatusBadRequest},
		{loan.ErrInvalidStatus, http.StatusBadRequest},
		{payment.ErrInstallmentConflict, http.StatusConflict},
		{echo.ErrNotFound, http.StatusNotFound},
		{echo.NewHTTPError(http.StatusConflict, "in progress"), http.StatusConflict},
	}
	for _, tc := range cases {
		code, env := render(t, true, tc.err)
		if code != tc.want {
			t.Fatalf("%v: status = %d, want %d", tc.err, code, tc.want)
		}
		if env.Success || env.Message == "" || env.Message == msgInternal {
			t.Fatalf("%v: unexpected envelope %+v", tc.err, env)
		}
	}
}

func TestErrorHandler_AuthReason(t *testing.T) {
	code, env := render(t, false, &middleware.AuthError{Reason: middleware.ReasonExpired})
	if code != http.StatusUnauthorized {
		t.Fatalf("status = %d", code)
	}
	if len(env.Errors) != 1 || env.Errors[0].Field != "authorization" || env.Errors[0].Message != "expired" {
		t.Fatalf("unexpected errors: %+v", env.Errors)
	}
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	type in struct {
		Amount float64 `json:"amount" validate:"required,gt=0"`
	}
	err := NewValidator().Validate(in{})
	code, env := render(t, true, err)
	if code != http.StatusBadRequest || !containsFieldMsg(env.Errors, "amount", "is required") {
		t.Fatalf("unexpected response %d %+v", code, env)
	}
}

func TestErrorHandler_MasksInternalErrorsInProduction(t *testing.T) {
	boom := errors.New("dial tcp 10.0.0.3:3306: connection refused")

	code, env := render(t, true, boom)
	if code != http.StatusInternalServerError || env.Message != msgInternal {
		t.Fatalf("production leaked %d %q", code, env.Message)
	}

	code, env = render(t, false, boom)
	if code != http.StatusInternalServerError || env.Message != boom.Error() {
		t.Fatalf("development should show the cause, got %d %q", code, env.Message)
	}

	_, env = render(t, true, echo.NewHTTPError(http.StatusServiceUnavailable, "idempotency store unavailable"))
	if env.Message != msgInternal {
		t.Fatalf("5xx HTTPError leaked in production: %q", env.Message)
	}
}

func TestPathID(t *testing.T) {
	cases := []struct{ raw, want string }{
		{"0123456789abcdef0123456789abcdef", "0123456789abcdef0123456789abcdef"},
		{"01234567-89AB-CDEF-0123-456789ABCDEF", "0123456789abcdef0123456789abcdef"},
		{"not-an-id", "not-an-id"},
	}
	e := echo.New()
	for _, tc := range cases {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(tc.raw)
		if got := pathID(c); got != tc.want {
			t.Fatalf("pathID(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
