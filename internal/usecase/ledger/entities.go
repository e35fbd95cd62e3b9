package ledger

import (
	"time"

	domain "opticash-backend/internal/domain/ledger"
	"opticash-backend/internal/usecase/page"
)

type CreateInput struct {
	Description string  `json:"description" validate:"required,min=1,max=255"`
	Amount      float64 `json:"amount" validate:"required,gt=0,dec2"`
	CategoryID  string  `json:"category_id" validate:"required,hex32"`
	// Date is YYYY-MM-DD or RFC3339; empty means today.
	Date string `json:"date" validate:"omitempty,max=35"`
}

// UpdateInput is partial; nil fields are left unchanged.
type UpdateInput struct {
	Description *string  `json:"description" validate:"omitempty,min=1,max=255"`
	Amount      *float64 `json:"amount" validate:"omitempty,gt=0,dec2"`
	CategoryID  *string  `json:"category_id" validate:"omitempty,hex32"`
	Date        *string  `json:"date" validate:"omitempty,max=35"`
}

type ListQuery struct {
	page.Query
	CategoryID string `query:"category_id"`
	From       string `query:"from"`
	To         string `query:"to"`
}

type RecordDTO struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	UserID       string    `json:"user_id"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	Description  string    `json:"description"`
	Amount       float64   `json:"amount"`
	Date         time.Time `json:"date"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CategoryTotalDTO struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Total      float64 `json:"total"`
	Count      int64   `json:"count"`
}

type MonthTotalDTO struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

type StatsDTO struct {
	Total      float64            `json:"total"`
	Count      int64              `json:"count"`
	ByCategory []CategoryTotalDTO `json:"by_category"`
	ByMonth    []MonthTotalDTO    `json:"by_month"`
}

func toDTO(r *domain.Record, names map[string]string) RecordDTO {
	return RecordDTO{
		ID:           r.ID,
		Kind:         string(r.Kind),
		UserID:       r.UserID,
		CategoryID:   r.CategoryID,
		CategoryName: names[r.CategoryID],
		Description:  r.Description,
		Amount:       r.Amount.InexactFloat64(),
		Date:         r.Date,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
