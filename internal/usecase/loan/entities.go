package loan

import (
	"time"

	domain "opticash-backend/internal/domain/loan"
)

type CreateLoanInput struct {
	Principal   float64 `json:"principal" validate:"required,gte=1000,lte=10000000,dec2"`
	TermPeriods int     `json:"term_periods" validate:"required,gte=1,lte=360"`
	Frequency   string  `json:"frequency" validate:"required,oneof=monthly biweekly weekly"`
	LoanType    string  `json:"loan_type" validate:"required,oneof=personal mortgage auto"`
}

type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

type InstallmentDTO struct {
	ID          string     `json:"id"`
	LoanID      string     `json:"loan_id"`
	Seq         int        `json:"seq"`
	DueDate     time.Time  `json:"due_date"`
	Amount      float64    `json:"amount"`
	Outstanding float64    `json:"outstanding"`
	Status      string     `json:"status"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

type LoanDTO struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	OwnerName    string           `json:"owner_name,omitempty"`
	Principal    float64          `json:"principal"`
	TermPeriods  int              `json:"term_periods"`
	Frequency    string           `json:"frequency"`
	LoanType     string           `json:"loan_type"`
	Status       string           `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Installments []InstallmentDTO `json:"installments,omitempty"`
}

type SummaryDTO struct {
	Total           int64   `json:"total"`
	Active          int64   `json:"active"`
	Paid            int64   `json:"paid"`
	Overdue         int64   `json:"overdue"`
	ActivePrincipal float64 `json:"active_principal"`
}

type StatsDTO struct {
	SummaryDTO
	TotalPrincipal float64          `json:"total_principal"`
	ByType         map[string]int64 `json:"by_type"`
}

func toInstallmentDTO(i domain.Installment) InstallmentDTO {
	return InstallmentDTO{
		ID:          i.ID,
		LoanID:      i.LoanID,
		Seq:         i.Seq,
		DueDate:     i.DueDate,
		Amount:      i.Amount.InexactFloat64(),
		Outstanding: i.Outstanding.InexactFloat64(),
		Status:      string(i.Status),
		PaidAt:      i.PaidAt,
	}
}

func toDTO(l *domain.Loan) LoanDTO {
	dto := LoanDTO{
		ID:          l.ID,
		UserID:      l.UserID,
		OwnerName:   l.OwnerName,
		Principal:   l.Principal.InexactFloat64(),
		TermPeriods: l.TermPeriods,
		Frequency:   string(l.Frequency),
		LoanType:    string(l.LoanType),
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	for _, i := range l.Installments {
		dto.Installments = append(dto.Installments, toInstallmentDTO(i))
	}
	return dto
}

func toSummaryDTO(s *domain.Summary) SummaryDTO {
	return SummaryDTO{
		Total:           s.Total,
		Active:          s.ByStatus[domain.StatusActive],
		Paid:            s.ByStatus[domain.StatusPaid],
		Overdue:         s.ByStatus[domain.StatusOverdue],
		ActivePrincipal: s.ActivePrincipal.InexactFloat64(),
	}
}
