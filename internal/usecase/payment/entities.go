package payment

import (
	"time"

	domain "opticash-backend/internal/domain/payment"
	"opticash-backend/internal/usecase/page"
)

type ProcessInput struct {
	TotalAmount    float64  `json:"total_amount" validate:"required,gt=0,dec2"`
	Reference      string   `json:"reference" validate:"omitempty,max=64"`
	InstallmentIDs []string `json:"installment_ids" validate:"required,min=1,max=360,dive,hex32"`
	// IdempotencyKey may also arrive in the Idempotency-Key header; the header wins.
	IdempotencyKey string `json:"idempotency_key" validate:"omitempty,max=128"`
}

// ListQuery filters by an inclusive day range; see page.DayRange.
type ListQuery struct {
	page.Query
	From string `query:"from"`
	To   string `query:"to"`
}

type LineItemDTO struct {
	ID            string  `json:"id"`
	InstallmentID string  `json:"installment_id"`
	AppliedAmount float64 `json:"applied_amount"`
}

type PaymentDTO struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	OwnerName      string        `json:"owner_name,omitempty"`
	TotalAmount    float64       `json:"total_amount"`
	Reference      string        `json:"reference"`
	Status         string        `json:"status"`
	IdempotencyKey string        `json:"idempotency_key"`
	CreatedAt      time.Time     `json:"created_at"`
	Items          []LineItemDTO `json:"items,omitempty"`
	// Replayed is set when an earlier payment with the same client key was returned.
	Replayed bool `json:"replayed"`
}

type TotalsDTO struct {
	Count            int64   `json:"count"`
	Amount           float64 `json:"amount"`
	InstallmentsPaid int64   `json:"installments_paid"`
}

type HistoryDTO struct {
	*page.Result[PaymentDTO]
	Totals TotalsDTO `json:"totals"`
}

type PendingInstallmentDTO struct {
	ID          string    `json:"id"`
	LoanID      string    `json:"loan_id"`
	Seq         int       `json:"seq"`
	DueDate     time.Time `json:"due_date"`
	Amount      float64   `json:"amount"`
	Outstanding float64   `json:"outstanding"`
}

type PendingDTO struct {
	Items            []PendingInstallmentDTO `json:"items"`
	Count            int                     `json:"count"`
	TotalOutstanding float64                 `json:"total_outstanding"`
}

type SummaryDTO struct {
	Count               int64     `json:"count"`
	TotalPaid           float64   `json:"total_paid"`
	InstallmentsPaid    int64     `json:"installments_paid"`
	ThisMonth           TotalsDTO `json:"this_month"`
	PendingInstallments int       `json:"pending_installments"`
	PendingAmount       float64   `json:"pending_amount"`
}

type StatsDTO struct {
	Total     TotalsDTO        `json:"total"`
	Today     TotalsDTO        `json:"today"`
	ThisMonth TotalsDTO        `json:"this_month"`
	ByStatus  map[string]int64 `json:"by_status"`
}

func toItemDTO(li domain.LineItem) LineItemDTO {
	return LineItemDTO{ID: li.ID, InstallmentID: li.InstallmentID, AppliedAmount: li.AppliedAmount.InexactFloat64()}
}

func toDTO(p *domain.Payment) PaymentDTO {
	out := PaymentDTO{
		ID:             p.ID,
		UserID:         p.UserID,
		OwnerName:      p.OwnerName,
		TotalAmount:    p.TotalAmount.InexactFloat64(),
		Reference:      p.Reference,
		Status:         string(p.Status),
		IdempotencyKey: p.IdempotencyKey,
		CreatedAt:      p.CreatedAt,
	}
	if len(p.Items) > 0 {
		out.Items = page.Map(p.Items, toItemDTO)
	}
	return out
}

func toTotalsDTO(t *domain.Totals) TotalsDTO {
	return TotalsDTO{Count: t.Count, Amount: t.Amount.InexactFloat64(), InstallmentsPaid: t.InstallmentsPaid}
}
