package category

import "context"

type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	// FindActiveByNameType is case-insensitive on name.
	FindActiveByNameType(ctx context.Context, name string, t Type) (*Category, error)
	ListActive(ctx context.Context, t Type) ([]Category, error)
	GetNames(ctx context.Context, ids []string) (map[string]string, error)
	Save(ctx context.Context, c *Category) error
	// CountReferences counts incomes and expenses whose status is not deleted.
	CountReferences(ctx context.Context, id string) (expenses, incomes int64, err error)
	UsageStats(ctx context.Context) ([]Usage, error)
}
