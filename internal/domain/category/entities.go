package category

import (
	"errors"
	"time"
)

type Type string

const (
	TypeExpense Type = "expense"
	TypeIncome  Type = "income"
)

func (t Type) Valid() bool { return t == TypeExpense || t == TypeIncome }

var (
	ErrNotFound  = errors.New("category not found")
	ErrDuplicate = errors.New("category with this name and type already exists")
	ErrInUse     = errors.New("category is referenced by active records")
	ErrInvalid   = errors.New("invalid category")
)

// Category names are unique per type among active rows; the type never changes after creation.
type Category struct {
	ID          string    `gorm:"column:id;type:char(32);primaryKey"`
	Name        string    `gorm:"column:name;size:100;not null;index:idx_categories_name_type"`
	Type        Type      `gorm:"column:type;size:16;not null;index:idx_categories_name_type"`
	Description string    `gorm:"column:description;size:255"`
	Active      bool      `gorm:"column:active;not null;default:true;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Category) TableName() string { return "categories" }

// Usage counts the non-deleted ledger rows pointing at one category.
type Usage struct {
	CategoryID string
	Name       string
	Type       Type
	Expenses   int64
	Incomes    int64
}

// InUseError carries the reference counts that blocked a delete.
type InUseError struct {
	Expenses int64
	Incomes  int64
}

func (e *InUseError) Error() string {
	return ErrInUse.Error()
}

func (e *InUseError) Unwrap() error { return ErrInUse }
