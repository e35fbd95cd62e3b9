package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"opticash-backend/internal/domain/loan"
	domain "opticash-backend/internal/domain/payment"
	"opticash-backend/internal/domain/uow"
	"opticash-backend/internal/domain/user"
	"opticash-backend/internal/usecase/page"
	"opticash-backend/pkg/id"
	"opticash-backend/pkg/logger"

	"github.com/shopspring/decimal"
)

type Usecase struct {
	payments domain.Repository
	loans    loan.Repository
	users    user.Repository
	uow      uow.UnitOfWork
	now      func() time.Time
}

func NewUsecase(payments domain.Repository, loans loan.Repository, users user.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{payments: payments, loans: loans, users: users, uow: tx, now: time.Now}
}

// Process applies one payment to a set of the actor's active installments.
//
// A client key seen before for the same user returns the stored payment untouched.
// Otherwise every write (payment, line items, payoffs, loan completion) commits together,
// and an installment that stopped being active in the meantime fails the whole payment.
func (u *Usecase) Process(ctx context.Context, actor user.Identity, in ProcessInput) (*PaymentDTO, error) {
	owner, err := u.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !owner.IsActive() {
		return nil, user.ErrInactive
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		if dto, err := u.replay(ctx, owner.ID, key); err == nil || !errors.Is(err, domain.ErrNotFound) {
			return dto, err
		}
	}

	ids := dedupe(in.InstallmentIDs)
	if len(ids) == 0 {
		return nil, domain.ErrInvalidInstallments
	}
	items, err := u.loans.FindActiveInstallments(ctx, owner.ID, ids)
	if err != nil {
		return nil, err
	}
	if len(items) != len(ids) {
		return nil, domain.ErrInvalidInstallments
	}

	expected := decimal.Zero
	for _, it := range items {
		expected = expected.Add(it.Outstanding)
	}
	total := decimal.NewFromFloat(in.TotalAmount).Round(2)
	if !domain.AmountsMatch(total, expected) {
		return nil, fmt.Errorf("%w: expected %s, got %s", domain.ErrAmountMismatch, expected.StringFixed(2), total.StringFixed(2))
	}

	now := u.now().UTC()
	p := &domain.Payment{
		ID:             id.NewID32(),
		UserID:         owner.ID,
		TotalAmount:    total,
		Reference:      strings.TrimSpace(in.Reference),
		Status:         domain.StatusProcessed,
		IdempotencyKey: key,
		ClientKey:      key != "",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !p.ClientKey {
		p.IdempotencyKey = generatedKey(owner.ID, now)
	}
	lines := make([]domain.LineItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, domain.LineItem{
			ID:            id.NewID32(),
			PaymentID:     p.ID,
			InstallmentID: it.ID,
			AppliedAmount: it.Outstanding,
			CreatedAt:     now,
		})
	}

	var completed []string
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		completed = completed[:0]
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		if err := r.Payments.CreateItems(ctx, lines); err != nil {
			return err
		}
		var touched []string
		seen := make(map[string]struct{}, len(items))
		for _, it := range items {
			n, err := r.Loans.PayOffInstallment(ctx, it.ID, now)
			if err != nil {
				return err
			}
			if n != 1 {
				return domain.ErrInstallmentConflict
			}
			if _, ok := seen[it.LoanID]; !ok {
				seen[it.LoanID] = struct{}{}
				touched = append(touched, it.LoanID)
			}
		}
		for _, loanID := range touched {
			active, err := r.Loans.CountActiveInstallments(ctx, loanID)
			if err != nil {
				return err
			}
			if active == 0 {
				if err := r.Loans.UpdateStatus(ctx, loanID, loan.StatusPaid); err != nil {
					return err
				}
				completed = append(completed, loanID)
			}
		}
		return nil
	})
	if err != nil {
		// a concurrent request with the same client key committed first
		if p.ClientKey && errors.Is(err, domain.ErrDuplicateKey) {
			return u.replay(ctx, owner.ID, key)
		}
		return nil, err
	}

	p.Items = lines
	p.OwnerName = owner.Name
	logger.Get().Info().
		Str("payment_id", p.ID).
		Str("user_id", p.UserID).
		Str("amount", p.TotalAmount.StringFixed(2)).
		Int("installments", len(lines)).
		Strs("loans_completed", completed).
		Msg("payment processed")
	dto := toDTO(p)
	return &dto, nil
}

func (u *Usecase) replay(ctx context.Context, userID, key string) (*PaymentDTO, error) {
	p, err := u.payments.GetByIdempotencyKey(ctx, userID, key)
	if err != nil {
		return nil, err
	}
	items, err := u.payments.ListItems(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Items = items
	logger.Get().Info().
		Str("payment_id", p.ID).
		Str("user_id", userID).
		Str("idempotency_key", key).
		Msg("payment replayed")
	dto := toDTO(p)
	dto.Replayed = true
	return &dto, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		v := strings.ToLower(strings.TrimSpace(raw))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// generatedKey is informational only; it is never looked up.
func generatedKey(userID string, at time.Time) string {
	return fmt.Sprintf("pay_%s_%d_%s", userID, at.UnixMilli(), id.NewID32()[:8])
}

// Get returns the payment with its line items to its owner or an admin.
func (u *Usecase) Get(ctx context.Context, actor user.Identity, paymentID string) (*PaymentDTO, error) {
	p, err := u.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(p.UserID) {
		return nil, user.ErrForbidden
	}
	items, err := u.payments.ListItems(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Items = items
	dto := toDTO(p)
	return &dto, nil
}

func (u *Usecase) ListMine(ctx context.Context, actor user.Identity, q ListQuery) (*page.Result[PaymentDTO], error) {
	return u.list(ctx, actor.UserID, q)
}

func (u *Usecase) ListAll(ctx context.Context, actor user.Identity, q ListQuery) (*page.Result[PaymentDTO], error) {
	if !actor.IsAdmin() {
		return nil, user.ErrForbidden
	}
	return u.list(ctx, "", q)
}

func (u *Usecase) list(ctx context.Context, userID string, q ListQuery) (*page.Result[PaymentDTO], error) {
	pq := q.Query.Normalize()
	from, to, err := page.DayRange(q.From, q.To)
	if err != nil {
		return nil, err
	}
	items, total, err := u.payments.List(ctx, domain.ListFilter{
		UserID: userID,
		Search: pq.Search,
		From:   from,
		To:     to,
		Offset: pq.Offset(),
		Limit:  pq.Limit,
	})
	if err != nil {
		return nil, err
	}
	return page.New(page.Map(items, func(p domain.Payment) PaymentDTO { return toDTO(&p) }), total, pq), nil
}

// History lists the actor's payments in an inclusive date range together with the range totals.
func (u *Usecase) History(ctx context.Context, actor user.Identity, q ListQuery) (*HistoryDTO, error) {
	res, err := u.list(ctx, actor.UserID, q)
	if err != nil {
		return nil, err
	}
	from, to, _ := page.DayRange(q.From, q.To)
	t, err := u.payments.Totals(ctx, actor.UserID, from, to)
	if err != nil {
		return nil, err
	}
	return &HistoryDTO{Result: res, Totals: toTotalsDTO(t)}, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (u *Usecase) PendingInstallments(ctx context.Context, actor user.Identity) (*PendingDTO, error) {
	items, err := u.loans.ListPendingInstallments(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	sum := decimal.Zero
	out := &PendingDTO{Items: make([]PendingInstallmentDTO, 0, len(items)), Count: len(items)}
	for _, it := range items {
		sum = sum.Add(it.Outstanding)
		out.Items = append(out.Items, PendingInstallmentDTO{
			ID:          it.ID,
			LoanID:      it.LoanID,
			Seq:         it.Seq,
			DueDate:     it.DueDate,
			Amount:      it.Amount.InexactFloat64(),
			Outstanding: it.Outstanding.InexactFloat64(),
		})
	}
	out.TotalOutstanding = sum.InexactFloat64()
	return out, nil
}

func (u *Usecase) Summary(ctx context.Context, actor user.Identity) (*SummaryDTO, error) {
	all, err := u.payments.Totals(ctx, actor.UserID, nil, nil)
	if err != nil {
		return nil, err
	}
	today := truncateDay(u.now())
	monthStart := today.AddDate(0, 0, 1-today.Day())
	month, err := u.payments.Totals(ctx, actor.UserID, &monthStart, nil)
	if err != nil {
		return nil, err
	}
	pending, err := u.PendingInstallments(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &SummaryDTO{
		Count:               all.Count,
		TotalPaid:           all.Amount.InexactFloat64(),
		InstallmentsPaid:    all.InstallmentsPaid,
		ThisMonth:           toTotalsDTO(month),
		PendingInstallments: pending.Count,
		PendingAmount:       pending.TotalOutstanding,
	}, nil
}

func (u *Usecase) Stats(ctx context.Context, actor user.Identity) (*StatsDTO, error) {
	if !actor.IsAdmin() {
		return nil, user.ErrForbidden
	}
	now := u.now().UTC()
	today := truncateDay(now)
	monthStart := today.AddDate(0, 0, 1-today.Day())

	all, err := u.payments.Totals(ctx, "", nil, nil)
	if err != nil {
		return nil, err
	}
	day, err := u.payments.Totals(ctx, "", &today, nil)
	if err != nil {
		return nil, err
	}
	month, err := u.payments.Totals(ctx, "", &monthStart, nil)
	if err != nil {
		return nil, err
	}
	byStatus, err := u.payments.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out := &StatsDTO{
		Total:     toTotalsDTO(all),
		Today:     toTotalsDTO(day),
		ThisMonth: toTotalsDTO(month),
		ByStatus:  make(map[string]int64, len(byStatus)),
	}
	for s, n := range byStatus {
		out.ByStatus[string(s)] = n
	}
	return out, nil
}
