package loan

import (
	"context"
	"time"

	domain "opticash-backend/internal/domain/loan"
	"opticash-backend/internal/domain/uow"
	"opticash-backend/internal/domain/user"
	"opticash-backend/internal/usecase/page"
	"opticash-backend/pkg/id"
	"opticash-backend/pkg/logger"

	"github.com/shopspring/decimal"
)

type Usecase struct {
	loans domain.Repository
	users user.Repository
	uow   uow.UnitOfWork
	now   func() time.Time
}

func NewUsecase(loans domain.Repository, users user.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{loans: loans, users: users, uow: tx, now: time.Now}
}

// Create writes the loan and its full installment schedule in one transaction.
// The owner must exist and be active; otherwise nothing is written.
func (u *Usecase) Create(ctx context.Context, actor user.Identity, in CreateLoanInput) (*LoanDTO, error) {
	owner, err := u.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !owner.IsActive() {
		return nil, user.ErrInactive
	}

	freq := domain.Frequency(in.Frequency)
	lt := domain.Type(in.LoanType)
	if !freq.Valid() || !lt.Valid() {
		return nil, domain.ErrInvalidSchedule
	}

	now := u.now().UTC()
	l := &domain.Loan{
		ID:          id.NewID32(),
		UserID:      owner.ID,
		Principal:   decimal.NewFromFloat(in.Principal).Round(2),
		TermPeriods: in.TermPeriods,
		Frequency:   freq,
		LoanType:    lt,
		Status:      domain.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	items, err := domain.BuildSchedule(l.ID, l.Principal, l.TermPeriods, l.Frequency, now, id.NewID32)
	if err != nil {
		return nil, err
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		return r.Loans.CreateInstallments(ctx, items)
	})
	if err != nil {
		return nil, err
	}

	l.OwnerName = owner.Name
	l.Installments = items
	logger.Get().Info().
		Str("loan_id", l.ID).
		Str("user_id", l.UserID).
		Str("principal", l.Principal.StringFixed(2)).
		Int("term", l.TermPeriods).
		Str("frequency", string(l.Frequency)).
		Msg("loan created")
	dto := toDTO(l)
	return &dto, nil
}

// Get returns the loan with its ordered installments to its owner or an admin.
func (u *Usecase) Get(ctx context.Context, actor user.Identity, loanID string) (*LoanDTO, error) {
	l, err := u.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(l.UserID) {
		return nil, user.ErrForbidden
	}
	items, err := u.loans.ListInstallments(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	l.Installments = items
	dto := toDTO(l)
	return &dto, nil
}

func (u *Usecase) Installments(ctx context.Context, actor user.Identity, loanID string) ([]InstallmentDTO, error) {
	l, err := u.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(l.UserID) {
		return nil, user.ErrForbidden
	}
	items, err := u.loans.ListInstallments(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	return page.Map(items, toInstallmentDTO), nil
}

// ListMine lists the caller's loans, newest first.
func (u *Usecase) ListMine(ctx context.Context, actor user.Identity, q page.Query) (*page.Result[LoanDTO], error) {
	return u.list(ctx, actor.UserID, q)
}

func (u *Usecase) ListAll(ctx context.Context, actor user.Identity, q page.Query) (*page.Result[LoanDTO], error) {
	if !actor.IsAdmin() {
		return nil, user.ErrForbidden
	}
	return u.list(ctx, "", q)
}

func (u *Usecase) list(ctx context.Context, userID string, q page.Query) (*page.Result[LoanDTO], error) {
	q = q.Normalize()
	items, total, err := u.loans.List(ctx, domain.ListFilter{
		UserID: userID,
		Search: q.Search,
		Offset: q.Offset(),
		Limit:  q.Limit,
	})
	if err != nil {
		return nil, err
	}
	return page.New(page.Map(items, func(l domain.Loan) LoanDTO { return toDTO(&l) }), total, q), nil
}

// UpdateStatus is admin-only. Forcing "paid" while installments remain active is allowed and logged.
func (u *Usecase) UpdateStatus(ctx context.Context, actor user.Identity, loanID string, status string) (*LoanDTO, error) {
	if !actor.IsAdmin() {
		return nil, user.ErrForbidden
	}
	s := domain.Status(status)
	if !s.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	var out *domain.Loan
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if s == domain.StatusPaid {
			active, err := r.Loans.CountActiveInstallments(ctx, l.ID)
			if err != nil {
				return err
			}
			if active > 0 {
				logger.Get().Warn().
					Str("loan_id", l.ID).
					Str("admin_id", actor.UserID).
					Int64("active_installments", active).
					Msg("loan forced to paid with outstanding installments")
			}
		}
		if err := r.Loans.UpdateStatus(ctx, l.ID, s); err != nil {
			return err
		}
		l.Status = s
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := toDTO(out)
	return &dto, nil
}

func (u *Usecase) Summary(ctx context.Context, actor user.Identity) (*SummaryDTO, error) {
	s, err := u.loans.Summary(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	dto := toSummaryDTO(s)
	return &dto, nil
}

func (u *Usecase) Stats(ctx context.Context, actor user.Identity) (*StatsDTO, error) {
	if !actor.IsAdmin() {
		return nil, user.ErrForbidden
	}
	s, err := u.loans.Stats(ctx)
	if err != nil {
		return nil, err
	}
	out := &StatsDTO{
		SummaryDTO:     toSummaryDTO(&s.Summary),
		TotalPrincipal: s.TotalPrincipal.InexactFloat64(),
		ByType:         make(map[string]int64, len(s.ByType)),
	}
	for t, n := range s.ByType {
		out.ByType[string(t)] = n
	}
	return out, nil
}
