// Package uowmock provides a uow.UnitOfWork for usecase tests that never touch a database.
package uowmock

import (
	"context"
	"errors"
	"sync"

	"opticash-backend/internal/domain/loan"
	"opticash-backend/internal/domain/uow"
)

var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW hands transaction bodies to the configured hooks. A nil hook fails the call
// with errUnimplemented. Every call is counted, including failed ones.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn func(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error

	mu     sync.Mutex
	txs    int
	locked []string
}

func New() *UoW { return &UoW{} }

// Passthrough runs bodies directly against repos. WithinLoanTx hands them locked.
func Passthrough(repos uow.Repos, locked *loan.Loan) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error { return fn(repos) },
		WithinLoanTxFn: func(_ context.Context, _ string, fn func(uow.Repos, *loan.Loan) error) error {
			return fn(repos, locked)
		},
	}
}

// Txs reports how many transactions were opened through either method.
func (m *UoW) Txs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.txs
}

// LockedLoans lists the loan ids passed to WithinLoanTx, in call order.
func (m *UoW) LockedLoans() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.locked...)
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	m.mu.Lock()
	m.txs++
	m.mu.Unlock()
	if m.WithinTxFn == nil {
		return errUnimplemented
	}
	return m.WithinTxFn(ctx, fn)
}

func (m *UoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	m.mu.Lock()
	m.txs++
	m.locked = append(m.locked, loanID)
	m.mu.Unlock()
	if m.WithinLoanTxFn == nil {
		return errUnimplemented
	}
	return m.WithinLoanTxFn(ctx, loanID, fn)
}
