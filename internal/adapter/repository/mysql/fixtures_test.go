package mysql

import (
	"context"
	"testing"
	"time"

	"opticash-backend/internal/domain/category"
	"opticash-backend/internal/domain/ledger"
	loanDomain "opticash-backend/internal/domain/loan"
	userDomain "opticash-backend/internal/domain/user"
	"opticash-backend/internal/testutil/testdb"
	"opticash-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testdb.Open(t)
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *userDomain.User {
	t.Helper()
	u := &userDomain.User{
		ID:     id.NewID32(),
		Name:   name,
		Email:  email,
		Status: userDomain.StatusActive,
		Role:   userDomain.RoleUser,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedCategory(t *testing.T, db *gorm.DB, name string, typ category.Type) *category.Category {
	t.Helper()
	c := &category.Category{ID: id.NewID32(), Name: name, Type: typ, Active: true}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return c
}

// seedLoan inserts a loan and its generated schedule.
func seedLoan(t *testing.T, db *gorm.DB, userID string, principal int64, term int, lt loanDomain.Type) (*loanDomain.Loan, []loanDomain.Installment) {
	t.Helper()
	ctx := context.Background()
	repo := NewLoanRepository(db)
	l := &loanDomain.Loan{
		ID:          id.NewID32(),
		UserID:      userID,
		Principal:   decimal.NewFromInt(principal),
		TermPeriods: term,
		Frequency:   loanDomain.FrequencyMonthly,
		LoanType:    lt,
		Status:      loanDomain.StatusActive,
	}
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	items, err := loanDomain.BuildSchedule(l.ID, l.Principal, term, l.Frequency, time.Now().UTC(), id.NewID32)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := repo.CreateInstallments(ctx, items); err != nil {
		t.Fatalf("seed installments: %v", err)
	}
	return l, items
}

func seedRecord(t *testing.T, db *gorm.DB, k ledger.Kind, userID, categoryID, desc string, amount int64, date time.Time, status ledger.Status) *ledger.Record {
	t.Helper()
	rec := &ledger.Record{
		ID:          id.NewID32(),
		UserID:      userID,
		CategoryID:  categoryID,
		Description: desc,
		Amount:      decimal.NewFromInt(amount),
		Date:        date,
		Status:      status,
	}
	if err := NewLedgerRepository(db).Create(context.Background(), k, rec); err != nil {
		t.Fatalf("seed %s: %v", k, err)
	}
	return rec
}
