package loan

import (
	"context"
	"errors"
	"testing"
	"time"

	"opticash-backend/internal/adapter/repository/mysql"
	domain "opticash-backend/internal/domain/loan"
	"opticash-backend/internal/domain/uow"
	"opticash-backend/internal/domain/user"
	"opticash-backend/internal/testutil/loanmock"
	"opticash-backend/internal/testutil/testdb"
	"opticash-backend/internal/testutil/usermock"
	"opticash-backend/internal/testutil/uowmock"
	"opticash-backend/internal/usecase/page"
	"opticash-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, name string, status user.Status, role user.Role) user.Identity {
	t.Helper()
	u := &user.User{ID: id.NewID32(), Name: name, Email: name + "@example.com", Status: status, Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user.Identity{UserID: u.ID, Email: u.Email, Role: role}
}

func newSQLiteUsecase(t *testing.T) (*Usecase, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	return NewUsecase(mysql.NewLoanRepository(db), mysql.NewUserRepository(db), mysql.NewGormUoW(db)), db
}

func TestCreate_MonthlyScheduleOf1200Over12(t *testing.T) {
	uc, db := newSQLiteUsecase(t)
	ctx := context.Background()
	fixed := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return fixed }

	ana := seedUser(t, db, "ana", user.StatusActive, user.RoleUser)
	dto, err := uc.Create(ctx, ana, CreateLoanInput{Principal: 1200, TermPeriods: 12, Frequency: "monthly", LoanType: "personal"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Status != "active" || dto.UserID != ana.UserID || dto.Principal != 1200 {
		t.Fatalf("unexpected loan: %+v", dto)
	}

	got, err := uc.Get(ctx, ana, dto.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Installments) != 12 {
		t.Fatalf("installments = %d, want 12", len(got.Installments))
	}
	sum := 0.0
	for i, it := range got.Installments {
		sum += it.Amount
		if it.Amount != 100 || it.Outstanding != 100 || it.Status != "active" {
			t.Fatalf("installment %d: %+v", i, it)
		}
		want := fixed.AddDate(0, i+1, 0)
		if !it.DueDate.Equal(want) {
			t.Fatalf("installment %d due %v, want %v", i, it.DueDate, want)
		}
	}
	if sum != 1200 {
		t.Fatalf("sum = %v, want 1200", sum)
	}
}

func TestCreate_ScheduleSumsToPrincipal(t *testing.T) {
	uc, db := newSQLiteUsecase(t)
	ctx := context.Background()
	ana := seedUser(t, db, "ana", user.StatusActive, user.RoleUser)

	cases := []struct {
		principal float64
		term      int
	}{
		{1000, 3},
		{1000, 360},
		{10000000, 360},
		{1234.56, 7},
	}
	for _, tc := range cases {
		dto, err := uc.Create(ctx, ana, CreateLoanInput{Principal: tc.principal, TermPeriods: tc.term, Frequency: "weekly", LoanType: "auto"})
		if err != nil {
			t.Fatalf("Create(%v/%d): %v", tc.principal, tc.term, err)
		}
		got, err := uc.Installments(ctx, ana, dto.ID)
		if err != nil {
			t.Fatalf("Installments(%v/%d): %v", tc.principal, tc.term, err)
		}
		if len(got) != tc.term {
			t.Fatalf("Create(%v/%d): %d installments", tc.principal, tc.term, len(got))
		}
		sum := decimal.Zero
		for _, it := range got {
			sum = sum.Add(decimal.NewFromFloat(it.Amount))
		}
		if !sum.Equal(decimal.NewFromFloat(tc.principal)) {
			t.Fatalf("Create(%v/%d): installments sum to %s", tc.principal, tc.term, sum)
		}
	}
}

func TestCreate_InactiveUserWritesNothing(t *testing.T) {
	users := &usermock.Repo{
		GetByIDFn: func(context.Context, string) (*user.User, error) {
			return &user.User{ID: "u1", Status: user.StatusInactive}, nil
		},
	}
	tx := &uowmock.UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error {
			t.Fatal("no transaction expected for an inactive user")
			return nil
		},
	}
	uc := NewUsecase(&loanmock.Repo{}, users, tx)

	_, err := uc.Create(context.Background(), user.Identity{UserID: "u1"}, CreateLoanInput{Principal: 5000, TermPeriods: 5, Frequency: "weekly", LoanType: "auto"})
	if !errors.Is(err, user.ErrInactive) {
		t.Fatalf("expected ErrInactive, got %v", err)
	}
}

func TestCreate_MissingUser(t *testing.T) {
	users := &usermock.Repo{
		GetByIDFn: func(context.Context, string) (*user.User, error) { return nil, user.ErrNotFound },
	}
	uc := NewUsecase(&loanmock.Repo{}, users, uowmock.New())

	_, err := uc.Create(context.Background(), user.Identity{UserID: "ghost"}, CreateLoanInput{Principal: 5000, TermPeriods: 5, Frequency: "weekly", LoanType: "auto"})
	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_InstallmentFailureRollsBack(t *testing.T) {
	boom := errors.New("insert failed")
	var createdLoan bool
	loans := &loanmock.Repo{
		CreateFn:             func(context.Context, *domain.Loan) error { createdLoan = true; return nil },
		CreateInstallmentsFn: func(context.Context, []domain.Installment) error { return boom },
	}
	users := &usermock.Repo{
		GetByIDFn: func(context.Context, string) (*user.User, error) {
			return &user.User{ID: "u1", Status: user.StatusActive}, nil
		},
	}
	tx := uowmock.Passthrough(uow.Repos{Loans: loans}, nil)
	uc := NewUsecase(loans, users, tx)

	_, err := uc.Create(context.Background(), user.Identity{UserID: "u1"}, CreateLoanInput{Principal: 3000, TermPeriods: 3, Frequency: "biweekly", LoanType: "personal"})
	if !errors.Is(err, boom) || !createdLoan {
		t.Fatalf("expected installment error after loan insert, got %v (created=%v)", err, createdLoan)
	}
	if tx.Txs() != 1 || len(tx.LockedLoans()) != 0 {
		t.Fatalf("expected one plain transaction, got txs=%d locked=%v", tx.Txs(), tx.LockedLoans())
	}
}

func TestGet_OwnershipEnforced(t *testing.T) {
	uc, db := newSQLiteUsecase(t)
	ctx := context.Background()

	ana := seedUser(t, db, "ana", user.StatusActive, user.RoleUser)
	bob := seedUser(t, db, "bob", user.StatusActive, user.RoleUser)
	root := seedUser(t, db, "root", user.StatusActive, user.RoleAdmin)

	dto, err := uc.Create(ctx, ana, CreateLoanInput{Principal: 2000, TermPeriods: 2, Frequency: "monthly", LoanType: "auto"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := uc.Get(ctx, bob, dto.ID); !errors.Is(err, user.ErrForbidden) {
		t.Fatalf("other user: expected ErrForbidden, got %v", err)
	}
	if _, err := uc.Installments(ctx, bob, dto.ID); !errors.Is(err, user.ErrForbidden) {
		t.Fatalf("other user installments: expected ErrForbidden, got %v", err)
	}
	got, err := uc.Get(ctx, root, dto.ID)
	if err != nil || got.OwnerName != "ana" {
		t.Fatalf("admin Get: %+v %v", got, err)
	}
	if _, err := uc.Get(ctx, ana, id.NewID32()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing loan: expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	uc, db := newSQLiteUsecase(t)
	ctx := context.Background()

	ana := seedUser(t, db, "ana", user.StatusActive, user.RoleUser)
	root := seedUser(t, db, "root", user.StatusActive, user.RoleAdmin)
	dto, _ := uc.Create(ctx, ana, CreateLoanInput{Principal: 2000, TermPeriods: 2, Frequency: "monthly", LoanType: "auto"})

	if _, err := uc.UpdateStatus(ctx, ana, dto.ID, "overdue"); !errors.Is(err, user.ErrForbidden) {
		t.Fatalf("non-admin: expected ErrForbidden, got %v", err)
	}
	if _, err := uc.UpdateStatus(ctx, root, dto.ID, "closed"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("bad status: expected ErrInvalidStatus, got %v", err)
	}
	got, err := uc.UpdateStatus(ctx, root, dto.ID, "overdue")
	if err != nil || got.Status != "overdue" {
		t.Fatalf("overdue: %+v %v", got, err)
	}
	// forcing paid with active installments is permitted
	got, err = uc.UpdateStatus(ctx, root, dto.ID, "paid")
	if err != nil || got.Status != "paid" {
		t.Fatalf("forced paid: %+v %v", got, err)
	}
	if _, err := uc.UpdateStatus(ctx, root, id.NewID32(), "paid"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing loan: expected ErrNotFound, got %v", err)
	}
}

func TestListSummaryAndStats(t *testing.T) {
	uc, db := newSQLiteUsecase(t)
	ctx := context.Background()

	ana := seedUser(t, db, "ana", user.StatusActive, user.RoleUser)
	bob := seedUser(t, db, "bob", user.StatusActive, user.RoleUser)
	root := seedUser(t, db, "root", user.StatusActive, user.RoleAdmin)
	for _, in := range []CreateLoanInput{
		{Principal: 1000, TermPeriods: 1, Frequency: "monthly", LoanType: "personal"},
		{Principal: 2500.5, TermPeriods: 5, Frequency: "weekly", LoanType: "auto"},
	} {
		if _, err := uc.Create(ctx, ana, in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := uc.Create(ctx, bob, CreateLoanInput{Principal: 9000, TermPeriods: 3, Frequency: "monthly", LoanType: "mortgage"}); err != nil {
		t.Fatalf("Create bob: %v", err)
	}

	mine, err := uc.ListMine(ctx, ana, page.Query{})
	if err != nil || mine.Total != 2 || mine.Page != 1 || mine.Limit != 10 || mine.TotalPages != 1 {
		t.Fatalf("ListMine: %+v %v", mine, err)
	}
	if _, err := uc.ListAll(ctx, ana, page.Query{}); !errors.Is(err, user.ErrForbidden) {
		t.Fatalf("ListAll non-admin: expected ErrForbidden, got %v", err)
	}
	all, err := uc.ListAll(ctx, root, page.Query{Search: "MORT"})
	if err != nil || all.Total != 1 || all.Items[0].UserID != bob.UserID {
		t.Fatalf("ListAll search: %+v %v", all, err)
	}

	s, err := uc.Summary(ctx, ana)
	if err != nil || s.Total != 2 || s.Active != 2 || s.ActivePrincipal != 3500.5 {
		t.Fatalf("Summary: %+v %v", s, err)
	}
	st, err := uc.Stats(ctx, root)
	if err != nil || st.Total != 3 || st.TotalPrincipal != 12500.5 || st.ByType["mortgage"] != 1 {
		t.Fatalf("Stats: %+v %v", st, err)
	}
}
