package mysql

import (
	"context"
	"time"

	loanDomain "opticash-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) CreateInstallments(ctx context.Context, items []loanDomain.Installment) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(items, 100).Error
}

// withOwner selects loans joined to their owner's name.
func (r *LoanRepository) withOwner(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("loans").
		Select("loans.*, users.name AS owner_name").
		Joins("LEFT JOIN users ON users.id = loans.user_id")
}

func (r *LoanRepository) GetByID(ctx context.Context, id string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	if err := r.withOwner(ctx).Where("loans.id = ?", id).Take(&out).Error; err != nil {
		return nil, mapNotFound(err, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id string) (*loanDomain.Loan, error) {
	q := r.db.WithContext(ctx)
	// sqlite has no row locks; its writer lock already serialises transactions
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out loanDomain.Loan
	if err := q.Where("id = ?", id).First(&out).Error; err != nil {
		return nil, mapNotFound(err, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) List(ctx context.Context, f loanDomain.ListFilter) ([]loanDomain.Loan, int64, error) {
	q := r.withOwner(ctx)
	if f.UserID != "" {
		q = q.Where("loans.user_id = ?", f.UserID)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("(LOWER(loans.loan_type) LIKE ? OR LOWER(users.name) LIKE ?)", p, p)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []loanDomain.Loan
	err := paginate(q.Order("loans.created_at DESC, loans.id DESC"), f.Offset, f.Limit).Find(&out).Error
	return out, total, err
}

func (r *LoanRepository) UpdateStatus(ctx context.Context, id string, s loanDomain.Status) error {
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("id = ?", id).
		Update("status", s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loanDomain.ErrNotFound
	}
	return nil
}

type statusAgg struct {
	Status    loanDomain.Status
	N         int64
	Principal decimal.Decimal
}

func (r *LoanRepository) byStatus(ctx context.Context, userID string) ([]statusAgg, error) {
	q := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Select("status, COUNT(*) AS n, COALESCE(SUM(principal), 0) AS principal").
		Group("status")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var rows []statusAgg
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *LoanRepository) Summary(ctx context.Context, userID string) (*loanDomain.Summary, error) {
	rows, err := r.byStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &loanDomain.Summary{
		ByStatus:        map[loanDomain.Status]int64{},
		ActivePrincipal: decimal.Zero,
	}
	for _, row := range rows {
		out.Total += row.N
		out.ByStatus[row.Status] = row.N
		if row.Status == loanDomain.StatusActive {
			out.ActivePrincipal = row.Principal
		}
	}
	return out, nil
}

func (r *LoanRepository) Stats(ctx context.Context) (*loanDomain.Stats, error) {
	rows, err := r.byStatus(ctx, "")
	if err != nil {
		return nil, err
	}
	out := &loanDomain.Stats{
		Summary: loanDomain.Summary{
			ByStatus:        map[loanDomain.Status]int64{},
			ActivePrincipal: decimal.Zero,
		},
		TotalPrincipal: decimal.Zero,
		ByType:         map[loanDomain.Type]int64{},
	}
	for _, row := range rows {
		out.Total += row.N
		out.ByStatus[row.Status] = row.N
		out.TotalPrincipal = out.TotalPrincipal.Add(row.Principal)
		if row.Status == loanDomain.StatusActive {
			out.ActivePrincipal = row.Principal
		}
	}

	var types []struct {
		LoanType loanDomain.Type
		N        int64
	}
	if err := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Select("loan_type, COUNT(*) AS n").
		Group("loan_type").
		Scan(&types).Error; err != nil {
		return nil, err
	}
	for _, t := range types {
		out.ByType[t.LoanType] = t.N
	}
	return out, nil
}

func (r *LoanRepository) ListInstallments(ctx context.Context, loanID string) ([]loanDomain.Installment, error) {
	var out []loanDomain.Installment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("due_date ASC, seq ASC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) FindActiveInstallments(ctx context.Context, userID string, ids []string) ([]loanDomain.Installment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []loanDomain.Installment
	err := r.db.WithContext(ctx).
		Table("installments").
		Select("installments.*").
		Joins("JOIN loans ON loans.id = installments.loan_id").
		Where("installments.id IN ? AND installments.status = ? AND loans.user_id = ?", ids, loanDomain.InstallmentActive, userID).
		Order("installments.due_date ASC, installments.seq ASC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) ListPendingInstallments(ctx context.Context, userID string) ([]loanDomain.Installment, error) {
	var out []loanDomain.Installment
	err := r.db.WithContext(ctx).
		Table("installments").
		Select("installments.*").
		Joins("JOIN loans ON loans.id = installments.loan_id").
		Where("loans.user_id = ? AND installments.status = ?", userID, loanDomain.InstallmentActive).
		Order("installments.due_date ASC, installments.seq ASC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) PayOffInstallment(ctx context.Context, id string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&loanDomain.Installment{}).
		Where("id = ? AND status = ?", id, loanDomain.InstallmentActive).
		Updates(map[string]any{
			"status":      loanDomain.InstallmentPaid,
			"outstanding": decimal.Zero,
			"paid_at":     at,
		})
	return res.RowsAffected, res.Error
}

func (r *LoanRepository) CountActiveInstallments(ctx context.Context, loanID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&loanDomain.Installment{}).
		Where("loan_id = ? AND status = ?", loanID, loanDomain.InstallmentActive).
		Count(&n).Error
	return n, err
}
